package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"classlink-backend/pkg/fcm"
)

type fakeTokenRegistry struct {
	cleared []string
	failOn  string
}

func (f *fakeTokenRegistry) ClearDeviceToken(token string) error {
	if token == f.failOn && token != "" {
		return errors.New("store write failed")
	}
	f.cleared = append(f.cleared, token)
	return nil
}

func TestSanitizeClearsOnlyPermanentFailures(t *testing.T) {
	registry := &fakeTokenRegistry{}
	sanitizer := NewSanitizer(registry)

	sanitizer.Sanitize(&fcm.MulticastResult{
		FailureCount: 2,
		Responses: []fcm.TokenResult{
			{Token: "dead", Success: false, Reason: "registration token is not a valid FCM registration token"},
			{Token: "flaky", Success: false, Reason: "network timeout"},
			{Token: "ok", Success: true},
		},
	})

	require.Equal(t, []string{"dead"}, registry.cleared)
}

func TestSanitizeClearsUnregisteredTokens(t *testing.T) {
	registry := &fakeTokenRegistry{}
	sanitizer := NewSanitizer(registry)

	sanitizer.Sanitize(&fcm.MulticastResult{
		FailureCount: 2,
		Responses: []fcm.TokenResult{
			{Token: "gone1", Success: false, Reason: "Requested entity was not found."},
			{Token: "gone2", Success: false, Reason: "registration-token-not-registered"},
		},
	})

	require.ElementsMatch(t, []string{"gone1", "gone2"}, registry.cleared)
}

func TestSanitizeContinuesPastClearFailure(t *testing.T) {
	registry := &fakeTokenRegistry{failOn: "dead1"}
	sanitizer := NewSanitizer(registry)

	sanitizer.Sanitize(&fcm.MulticastResult{
		FailureCount: 2,
		Responses: []fcm.TokenResult{
			{Token: "dead1", Success: false, Reason: "registration token is not a valid FCM registration token"},
			{Token: "dead2", Success: false, Reason: "registration token is not a valid FCM registration token"},
		},
	})

	require.Equal(t, []string{"dead2"}, registry.cleared)
}

func TestSanitizeNilOutcome(t *testing.T) {
	registry := &fakeTokenRegistry{}
	NewSanitizer(registry).Sanitize(nil)
	require.Empty(t, registry.cleared)
}

func TestIsPermanentFailure(t *testing.T) {
	permanent := []string{
		"registration token is not a valid FCM registration token",
		"The registration token is not registered",
		"registration-token-not-registered",
		"Requested entity was not found.",
	}
	for _, reason := range permanent {
		require.True(t, isPermanentFailure(reason), reason)
	}

	transient := []string{
		"network timeout",
		"internal server error",
		"quota exceeded",
		"message rate exceeded",
		"",
	}
	for _, reason := range transient {
		require.False(t, isPermanentFailure(reason), reason)
	}
}
