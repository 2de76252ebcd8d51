package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authdomain "classlink-backend/internal/auth/domain"
	"classlink-backend/pkg/fcm"
)

type fakeResolver struct {
	recipients []authdomain.User
	err        error
}

func (f *fakeResolver) ResolveRecipients(event Event) ([]authdomain.User, error) {
	return f.recipients, f.err
}

type fakeLedger struct {
	seeded  map[string][]string
	seedErr error
}

func (f *fakeLedger) Seed(eventID string, userIDs []string) error {
	if f.seedErr != nil {
		return f.seedErr
	}
	if f.seeded == nil {
		f.seeded = make(map[string][]string)
	}
	f.seeded[eventID] = userIDs
	return nil
}

func newTestPipeline(resolver RecipientResolver, ledger ReadStateSeeder, sender MulticastSender, registry TokenRegistry) *Pipeline {
	return NewPipeline(resolver, ledger, NewDispatcher(sender), NewSanitizer(registry), time.Second)
}

// Comment created for a student with one tokenized parent and one without:
// both get unread records, only the token holder gets a push, nothing is
// sanitized.
func TestPipelineEndToEndCommentFanOut(t *testing.T) {
	resolver := &fakeResolver{recipients: []authdomain.User{
		{ID: "parentA", Role: authdomain.RoleParent, DeviceToken: "tok1"},
		{ID: "parentB", Role: authdomain.RoleParent},
	}}
	ledger := &fakeLedger{}
	sender := &fakeSender{}
	registry := &fakeTokenRegistry{}

	pipeline := newTestPipeline(resolver, ledger, sender, registry)
	pipeline.Process(context.Background(), Event{
		Kind:      EventNewComment,
		ID:        "comment-1",
		Title:     "New comment about student001",
		Body:      "Great progress this week",
		StudentID: "student001",
	})

	require.Equal(t, []string{"parentA", "parentB"}, ledger.seeded["comment-1"])
	require.Equal(t, 1, sender.calls)
	require.Equal(t, []string{"tok1"}, sender.tokens)
	require.Empty(t, registry.cleared)
}

func TestPipelineResolutionFailureAbortsEvent(t *testing.T) {
	ledger := &fakeLedger{}
	sender := &fakeSender{}

	pipeline := newTestPipeline(&fakeResolver{err: errors.New("lookup failed")}, ledger, sender, &fakeTokenRegistry{})
	pipeline.Process(context.Background(), Event{Kind: EventNewComment, ID: "e1", StudentID: "s1"})

	require.Empty(t, ledger.seeded)
	require.Equal(t, 0, sender.calls)
}

func TestPipelineSeedFailureDoesNotBlockDispatch(t *testing.T) {
	resolver := &fakeResolver{recipients: []authdomain.User{{ID: "p1", DeviceToken: "tok1"}}}
	sender := &fakeSender{}

	pipeline := newTestPipeline(resolver, &fakeLedger{seedErr: errors.New("write failed")}, sender, &fakeTokenRegistry{})
	pipeline.Process(context.Background(), Event{Kind: EventClassNotification, ID: "n1", ClassIDs: []string{"c1"}})

	require.Equal(t, 1, sender.calls)
}

func TestPipelineDispatchFailureSkipsSanitize(t *testing.T) {
	resolver := &fakeResolver{recipients: []authdomain.User{{ID: "p1", DeviceToken: "tok1"}}}
	registry := &fakeTokenRegistry{}

	pipeline := newTestPipeline(resolver, &fakeLedger{}, &fakeSender{err: errors.New("transport down")}, registry)
	pipeline.Process(context.Background(), Event{Kind: EventNewComment, ID: "e1", StudentID: "s1"})

	require.Empty(t, registry.cleared)
}

func TestPipelineSanitizesDeadTokensFromOutcome(t *testing.T) {
	resolver := &fakeResolver{recipients: []authdomain.User{
		{ID: "p1", DeviceToken: "dead"},
		{ID: "p2", DeviceToken: "alive"},
	}}
	sender := &fakeSender{result: &fcm.MulticastResult{
		SuccessCount: 1,
		FailureCount: 1,
		Responses: []fcm.TokenResult{
			{Token: "dead", Success: false, Reason: "registration token is not a valid FCM registration token"},
			{Token: "alive", Success: true},
		},
	}}
	registry := &fakeTokenRegistry{}

	pipeline := newTestPipeline(resolver, &fakeLedger{}, sender, registry)
	pipeline.Process(context.Background(), Event{Kind: EventNewComment, ID: "e1", StudentID: "s1"})

	require.Equal(t, []string{"dead"}, registry.cleared)
}

func TestPipelineNoRecipientsIsQuietNoOp(t *testing.T) {
	ledger := &fakeLedger{}
	sender := &fakeSender{}

	pipeline := newTestPipeline(&fakeResolver{}, ledger, sender, &fakeTokenRegistry{})
	pipeline.Process(context.Background(), Event{Kind: EventClassNotification, ID: "n1", ClassIDs: []string{"empty-class"}})

	require.Empty(t, ledger.seeded)
	require.Equal(t, 0, sender.calls)
}
