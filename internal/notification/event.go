package notification

// EventKind discriminates the three fan-out event streams.
type EventKind string

const (
	EventNewComment             EventKind = "new_comment"
	EventClassNotification      EventKind = "class_notification"
	EventMultiClassNotification EventKind = "multi_class_notification"
)

// Event is the envelope published to the change feed when a comment or class
// notification is created. It is a tagged union: Kind decides which target
// field is meaningful (StudentID for comments, ClassIDs for notifications).
type Event struct {
	Kind      EventKind `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	StudentID string    `json:"student_id,omitempty"`
	ClassIDs  []string  `json:"class_ids,omitempty"`
}

// PushType is the discriminator put in the push data payload so the client
// can deep-link. Single- and multi-class notifications look the same to the
// receiving app.
func (e Event) PushType() string {
	if e.Kind == EventNewComment {
		return "new_comment"
	}
	return "class_notification"
}
