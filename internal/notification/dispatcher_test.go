package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	authdomain "classlink-backend/internal/auth/domain"
	"classlink-backend/pkg/fcm"
)

type fakeSender struct {
	calls   int
	tokens  []string
	payload fcm.NotificationData
	result  *fcm.MulticastResult
	err     error
}

func (f *fakeSender) SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (*fcm.MulticastResult, error) {
	f.calls++
	f.tokens = tokens
	f.payload = notification
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	result := &fcm.MulticastResult{SuccessCount: len(tokens)}
	for _, token := range tokens {
		result.Responses = append(result.Responses, fcm.TokenResult{Token: token, Success: true})
	}
	return result, nil
}

func TestDispatchFiltersBlankTokens(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender)

	recipients := []authdomain.User{
		{ID: "a", DeviceToken: "abc"},
		{ID: "b", DeviceToken: ""},
		{ID: "c"},
	}

	outcome, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "e1", Title: "t"})
	require.NoError(t, err)
	require.Equal(t, 1, sender.calls)
	require.Equal(t, []string{"abc"}, sender.tokens)
	require.Equal(t, 1, outcome.SuccessCount)
}

func TestDispatchDeduplicatesTokens(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender)

	recipients := []authdomain.User{
		{ID: "a", DeviceToken: "tok1"},
		{ID: "b", DeviceToken: "tok1"},
		{ID: "c", DeviceToken: "tok2"},
	}

	_, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "e1"})
	require.NoError(t, err)
	require.Equal(t, []string{"tok1", "tok2"}, sender.tokens)
}

func TestDispatchNoTokensIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender)

	recipients := []authdomain.User{{ID: "a"}, {ID: "b", DeviceToken: ""}}

	outcome, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "e1"})
	require.NoError(t, err)
	require.Equal(t, 0, sender.calls)
	require.Equal(t, 0, outcome.SuccessCount)
	require.Equal(t, 0, outcome.FailureCount)
}

func TestDispatchTruncatesLongBody(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender)

	body := strings.Repeat("x", 150)
	recipients := []authdomain.User{{ID: "a", DeviceToken: "tok1"}}

	_, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "e1", Body: body})
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("x", 100)+"...", sender.payload.Body)
}

func TestDispatchShortBodyUnchanged(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender)

	body := strings.Repeat("y", 80)
	recipients := []authdomain.User{{ID: "a", DeviceToken: "tok1"}}

	_, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "e1", Body: body})
	require.NoError(t, err)
	require.Equal(t, body, sender.payload.Body)
}

func TestDispatchPayloadCarriesTypeAndEventID(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender)

	recipients := []authdomain.User{{ID: "a", DeviceToken: "tok1"}}

	_, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "comment-42", Title: "New comment"})
	require.NoError(t, err)
	require.Equal(t, "new_comment", sender.payload.Data["type"])
	require.Equal(t, "comment-42", sender.payload.Data["event_id"])

	_, err = dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventMultiClassNotification, ID: "notif-7"})
	require.NoError(t, err)
	require.Equal(t, "class_notification", sender.payload.Data["type"])
}

func TestDispatchTransportErrorIsReturned(t *testing.T) {
	sendErr := errors.New("transport unreachable")
	dispatcher := NewDispatcher(&fakeSender{err: sendErr})

	recipients := []authdomain.User{{ID: "a", DeviceToken: "tok1"}}

	_, err := dispatcher.Dispatch(context.Background(), recipients, Event{Kind: EventNewComment, ID: "e1"})
	require.ErrorIs(t, err, sendErr)
}
