package notification

import (
	"log"
	"strings"

	"classlink-backend/pkg/fcm"
)

// TokenRegistry is the clearing side of the device-token store. Implemented
// by the auth user repository.
type TokenRegistry interface {
	ClearDeviceToken(token string) error
}

// Sanitizer consumes a dispatch outcome and clears tokens whose failure
// reason marks them as permanently undeliverable. Transient failures
// (timeouts, transport unavailable) leave the token alone; clearing on those
// would silently unsubscribe recipients.
type Sanitizer struct {
	registry TokenRegistry
}

func NewSanitizer(registry TokenRegistry) *Sanitizer {
	return &Sanitizer{
		registry: registry,
	}
}

// Sanitize clears every permanently-failed token in the outcome. A failed
// clear is logged and does not stop the rest of the pass.
func (s *Sanitizer) Sanitize(outcome *fcm.MulticastResult) {
	if outcome == nil {
		return
	}
	for _, resp := range outcome.Responses {
		if resp.Success || !isPermanentFailure(resp.Reason) {
			continue
		}
		if err := s.registry.ClearDeviceToken(resp.Token); err != nil {
			log.Printf("[Sanitizer] Failed to clear token: %v", err)
			continue
		}
		log.Printf("[Sanitizer] Cleared invalid token (reason: %s)", resp.Reason)
	}
}

// isPermanentFailure matches the two failure categories that mean the token
// will never work again: a structurally invalid registration token, and a
// registration that no longer exists on the transport side.
func isPermanentFailure(reason string) bool {
	r := strings.ToLower(reason)
	if strings.Contains(r, "registration token") &&
		(strings.Contains(r, "not a valid") || strings.Contains(r, "not registered")) {
		return true
	}
	if strings.Contains(r, "registration-token-not-registered") {
		return true
	}
	if strings.Contains(r, "entity") && strings.Contains(r, "not found") {
		return true
	}
	return false
}
