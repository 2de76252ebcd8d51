package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	authdomain "classlink-backend/internal/auth/domain"
	schooldomain "classlink-backend/internal/school/domain"
)

type fakeStudentDirectory struct {
	studentsByClass map[string][]schooldomain.Student
	err             error
}

func (f *fakeStudentDirectory) FindStudentsByClassIDs(classIDs []string) ([]schooldomain.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []schooldomain.Student
	for _, classID := range classIDs {
		out = append(out, f.studentsByClass[classID]...)
	}
	return out, nil
}

type fakeParentDirectory struct {
	parentsByStudent map[string][]authdomain.User
	err              error
}

func (f *fakeParentDirectory) FindParentsByStudentID(studentID string) ([]authdomain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.parentsByStudent[studentID], nil
}

func (f *fakeParentDirectory) FindParentsByStudentIDs(studentIDs []string) ([]authdomain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []authdomain.User
	for _, studentID := range studentIDs {
		out = append(out, f.parentsByStudent[studentID]...)
	}
	return out, nil
}

func TestResolveRecipientsForComment(t *testing.T) {
	parents := &fakeParentDirectory{parentsByStudent: map[string][]authdomain.User{
		"student001": {
			{ID: "parentA", Role: authdomain.RoleParent},
			{ID: "parentB", Role: authdomain.RoleParent},
		},
	}}
	resolver := NewResolver(&fakeStudentDirectory{}, parents)

	recipients, err := resolver.ResolveRecipients(Event{
		Kind:      EventNewComment,
		ID:        "comment-1",
		StudentID: "student001",
	})
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	require.Equal(t, "parentA", recipients[0].ID)
	require.Equal(t, "parentB", recipients[1].ID)
}

func TestResolveRecipientsDeduplicatesSharedParent(t *testing.T) {
	// Parent P is linked to two students in the same class; it must appear once.
	students := &fakeStudentDirectory{studentsByClass: map[string][]schooldomain.Student{
		"class1": {
			{ID: "s1", ClassID: "class1"},
			{ID: "s2", ClassID: "class1"},
		},
	}}
	parents := &fakeParentDirectory{parentsByStudent: map[string][]authdomain.User{
		"s1": {{ID: "parentP", Role: authdomain.RoleParent}},
		"s2": {{ID: "parentP", Role: authdomain.RoleParent}},
	}}
	resolver := NewResolver(students, parents)

	recipients, err := resolver.ResolveRecipients(Event{
		Kind:     EventClassNotification,
		ID:       "notif-1",
		ClassIDs: []string{"class1"},
	})
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	require.Equal(t, "parentP", recipients[0].ID)
}

func TestResolveRecipientsUnknownClassIsEmpty(t *testing.T) {
	resolver := NewResolver(&fakeStudentDirectory{}, &fakeParentDirectory{})

	recipients, err := resolver.ResolveRecipients(Event{
		Kind:     EventClassNotification,
		ID:       "notif-2",
		ClassIDs: []string{"nonexistent"},
	})
	require.NoError(t, err)
	require.Empty(t, recipients)
}

func TestResolveRecipientsMalformedTargetIsEmpty(t *testing.T) {
	resolver := NewResolver(&fakeStudentDirectory{}, &fakeParentDirectory{})

	for _, event := range []Event{
		{Kind: EventNewComment, ID: "c"},                                // no student
		{Kind: EventClassNotification, ID: "n"},                         // no classes
		{Kind: EventMultiClassNotification, ID: "m", ClassIDs: []string{"", ""}}, // blank classes
		{Kind: EventKind("unknown"), ID: "u"},
	} {
		recipients, err := resolver.ResolveRecipients(event)
		require.NoError(t, err)
		require.Empty(t, recipients)
	}
}

func TestResolveRecipientsMultiClass(t *testing.T) {
	students := &fakeStudentDirectory{studentsByClass: map[string][]schooldomain.Student{
		"class1": {{ID: "s1", ClassID: "class1"}},
		"class2": {{ID: "s2", ClassID: "class2"}},
	}}
	parents := &fakeParentDirectory{parentsByStudent: map[string][]authdomain.User{
		"s1": {{ID: "parentA", Role: authdomain.RoleParent}},
		"s2": {{ID: "parentB", Role: authdomain.RoleParent}},
	}}
	resolver := NewResolver(students, parents)

	recipients, err := resolver.ResolveRecipients(Event{
		Kind:     EventMultiClassNotification,
		ID:       "notif-3",
		ClassIDs: []string{"class1", "class2"},
	})
	require.NoError(t, err)
	require.Len(t, recipients, 2)
}

func TestResolveRecipientsPropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("directory unavailable")
	resolver := NewResolver(&fakeStudentDirectory{}, &fakeParentDirectory{err: lookupErr})

	_, err := resolver.ResolveRecipients(Event{
		Kind:      EventNewComment,
		ID:        "comment-2",
		StudentID: "student001",
	})
	require.ErrorIs(t, err, lookupErr)
}
