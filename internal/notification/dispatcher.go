package notification

import (
	"context"
	"log"

	authdomain "classlink-backend/internal/auth/domain"
	"classlink-backend/pkg/fcm"
)

// Bodies longer than this are cut for display before sending; the marker is
// appended so the client knows there is more inside the app.
const (
	maxBodyLength    = 100
	truncationMarker = "..."
)

// MulticastSender is the push transport: one call, many tokens, a per-token
// outcome. Implemented by pkg/fcm.Client.
type MulticastSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (*fcm.MulticastResult, error)
}

// Dispatcher turns a resolved recipient set into one multicast push.
type Dispatcher struct {
	sender MulticastSender
}

func NewDispatcher(sender MulticastSender) *Dispatcher {
	return &Dispatcher{
		sender: sender,
	}
}

// Dispatch sends the event to every recipient holding a device token.
// Recipients without a token are silently excluded; when nobody holds one the
// transport is not invoked at all and a zero outcome is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []authdomain.User, event Event) (*fcm.MulticastResult, error) {
	tokens := collectTokens(recipients)
	if len(tokens) == 0 || d.sender == nil {
		return &fcm.MulticastResult{}, nil
	}

	payload := fcm.NotificationData{
		Title: event.Title,
		Body:  truncateBody(event.Body),
		Data: map[string]string{
			"type":     event.PushType(),
			"event_id": event.ID,
		},
	}

	result, err := d.sender.SendToDevices(ctx, tokens, payload)
	if err != nil {
		return nil, err
	}

	log.Printf("[Dispatch] Event %s (%s): %d sent, %d failed", event.ID, event.Kind, result.SuccessCount, result.FailureCount)
	return result, nil
}

// collectTokens gathers the distinct non-blank tokens of the recipient set.
func collectTokens(recipients []authdomain.User) []string {
	seen := make(map[string]struct{}, len(recipients))
	tokens := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		token := recipient.DeviceToken
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= maxBodyLength {
		return body
	}
	return string(runes[:maxBodyLength]) + truncationMarker
}
