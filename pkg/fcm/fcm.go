package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(credentialsFile string) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{
		messagingClient: messagingClient,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload
}

// TokenResult is the outcome of one target token in a multicast send.
// Reason carries the transport's error message for failed tokens so callers
// can tell permanent failures (invalid/unregistered token) from transient ones.
type TokenResult struct {
	Token   string
	Success bool
	Reason  string
}

// MulticastResult summarizes one multicast send.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
	Responses    []TokenResult
}

// SendToDevices sends a push notification to multiple device tokens with a
// single multicast call, requesting immediate delivery on every platform.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) (*MulticastResult, error) {
	if len(tokens) == 0 {
		return &MulticastResult{}, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
		},
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{"Urgency": "high"},
			Notification: &messaging.WebpushNotification{
				Title: notification.Title,
				Body:  notification.Body,
				Icon:  "/icon-192.svg",
			},
		},
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	result := &MulticastResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
		Responses:    make([]TokenResult, 0, len(response.Responses)),
	}
	for i, resp := range response.Responses {
		tr := TokenResult{Token: tokens[i], Success: resp.Success}
		if !resp.Success && resp.Error != nil {
			tr.Reason = resp.Error.Error()
			log.Printf("[FCM] Failed to send to token %s: %v", truncateToken(tokens[i]), resp.Error)
		}
		result.Responses = append(result.Responses, tr)
	}

	return result, nil
}

// SendToDevice sends a push notification to a single device token.
func (c *Client) SendToDevice(ctx context.Context, token string, notification NotificationData) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
		},
	}

	response, err := c.messagingClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Printf("[FCM] Message sent successfully: %s", response)
	return nil
}

func truncateToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
