package usecase

import (
	"context"
	"errors"
	"log"

	authdomain "classlink-backend/internal/auth/domain"
	eventdomain "classlink-backend/internal/event/domain"
	eventdto "classlink-backend/internal/event/dto"
	eventrepo "classlink-backend/internal/event/repository"
	"classlink-backend/internal/notification"
	readrepo "classlink-backend/internal/readstate/repository"
	schoolrepo "classlink-backend/internal/school/repository"

	"gorm.io/datatypes"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("not allowed")
)

// EventPublisher hands a created event to the change feed. A nil value is
// allowed and means the fan-out is disabled.
type EventPublisher interface {
	Publish(ctx context.Context, event notification.Event) error
}

// EventUsecase covers creating and reading comments and class notifications.
type EventUsecase interface {
	CreateComment(authorID string, req *eventdto.CreateCommentRequest) (*eventdomain.Comment, error)
	ListCommentsForStudent(user *authdomain.User, studentID string) ([]eventdto.CommentResponse, error)
	CreateNotification(authorID string, req *eventdto.CreateNotificationRequest) (*eventdomain.ClassNotification, error)
	ListNotificationsForUser(user *authdomain.User, limit int) ([]eventdto.NotificationResponse, error)
	DeleteNotification(id string) error
	MarkEventRead(eventID, userID string) error
}

// eventUsecase implements EventUsecase interface
type eventUsecase struct {
	commentRepo eventrepo.CommentRepository
	notifRepo   eventrepo.NotificationRepository
	studentRepo schoolrepo.StudentRepository
	readRepo    readrepo.ReadStateRepository
	publisher   EventPublisher
}

// NewEventUsecase creates a new instance of eventUsecase
func NewEventUsecase(
	commentRepo eventrepo.CommentRepository,
	notifRepo eventrepo.NotificationRepository,
	studentRepo schoolrepo.StudentRepository,
	readRepo readrepo.ReadStateRepository,
	publisher EventPublisher,
) EventUsecase {
	return &eventUsecase{
		commentRepo: commentRepo,
		notifRepo:   notifRepo,
		studentRepo: studentRepo,
		readRepo:    readRepo,
		publisher:   publisher,
	}
}

// CreateComment records a comment about a student and feeds it to the
// comment stream. Publishing is best-effort: a feed failure is logged, the
// comment stays created.
func (u *eventUsecase) CreateComment(authorID string, req *eventdto.CreateCommentRequest) (*eventdomain.Comment, error) {
	student, err := u.studentRepo.FindStudentByID(req.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	comment := &eventdomain.Comment{
		StudentID: req.StudentID,
		AuthorID:  authorID,
		Content:   req.Content,
	}
	if err := u.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	u.publish(notification.Event{
		Kind:      notification.EventNewComment,
		ID:        comment.ID,
		Title:     "New comment about " + student.Name,
		Body:      comment.Content,
		StudentID: comment.StudentID,
	})

	return comment, nil
}

// ListCommentsForStudent returns the student's comments with the caller's
// read state. Parents only see students linked to them; soft-deleted comments
// are filtered after the fetch.
func (u *eventUsecase) ListCommentsForStudent(user *authdomain.User, studentID string) ([]eventdto.CommentResponse, error) {
	if user.IsParent() {
		linked, err := u.studentRepo.FindStudentsByParentID(user.ID)
		if err != nil {
			return nil, err
		}
		allowed := false
		for _, student := range linked {
			if student.ID == studentID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}

	comments, err := u.commentRepo.FindByStudentID(studentID)
	if err != nil {
		return nil, err
	}

	visible := make([]eventdomain.Comment, 0, len(comments))
	ids := make([]string, 0, len(comments))
	for _, comment := range comments {
		if comment.IsDeleted {
			continue
		}
		visible = append(visible, comment)
		ids = append(ids, comment.ID)
	}

	states, err := u.readRepo.FindByEventIDs(ids, user.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]eventdto.CommentResponse, 0, len(visible))
	for _, comment := range visible {
		resp := eventdto.CommentResponse{Comment: comment}
		if state, ok := states[comment.ID]; ok {
			resp.IsRead = state.IsRead
			resp.ReadAt = state.ReadAt
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// CreateNotification records a class notification and feeds it to the
// single-class or multi-class stream depending on how many classes it names.
func (u *eventUsecase) CreateNotification(authorID string, req *eventdto.CreateNotificationRequest) (*eventdomain.ClassNotification, error) {
	notif := &eventdomain.ClassNotification{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
		ClassIDs: datatypes.NewJSONSlice(req.ClassIDs),
	}
	if err := u.notifRepo.Create(notif); err != nil {
		return nil, err
	}

	kind := notification.EventClassNotification
	if notif.IsMultiClass() {
		kind = notification.EventMultiClassNotification
	}
	u.publish(notification.Event{
		Kind:     kind,
		ID:       notif.ID,
		Title:    notif.Title,
		Body:     notif.Content,
		ClassIDs: req.ClassIDs,
	})

	return notif, nil
}

// ListNotificationsForUser returns recent notifications visible to the user,
// newest first, with the user's read state. Parents see the notifications of
// their students' classes; staff see everything. Soft-deleted rows and class
// targeting are filtered after the fetch.
func (u *eventUsecase) ListNotificationsForUser(user *authdomain.User, limit int) ([]eventdto.NotificationResponse, error) {
	notifications, err := u.notifRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}

	var allowedClasses map[string]struct{}
	if user.IsParent() {
		students, err := u.studentRepo.FindStudentsByParentID(user.ID)
		if err != nil {
			return nil, err
		}
		allowedClasses = make(map[string]struct{}, len(students))
		for _, student := range students {
			allowedClasses[student.ClassID] = struct{}{}
		}
	}

	visible := make([]eventdomain.ClassNotification, 0, len(notifications))
	ids := make([]string, 0, len(notifications))
	for _, notif := range notifications {
		if notif.IsDeleted {
			continue
		}
		if allowedClasses != nil && !targetsAnyClass(notif.ClassIDs, allowedClasses) {
			continue
		}
		visible = append(visible, notif)
		ids = append(ids, notif.ID)
	}

	states, err := u.readRepo.FindByEventIDs(ids, user.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]eventdto.NotificationResponse, 0, len(visible))
	for _, notif := range visible {
		resp := eventdto.NotificationResponse{ClassNotification: notif}
		if state, ok := states[notif.ID]; ok {
			resp.IsRead = state.IsRead
			resp.ReadAt = state.ReadAt
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (u *eventUsecase) DeleteNotification(id string) error {
	notif, err := u.notifRepo.FindByID(id)
	if err != nil {
		return err
	}
	if notif == nil {
		return ErrNotFound
	}
	return u.notifRepo.SoftDelete(id)
}

// MarkEventRead flips the caller's read state for the event. This is the only
// mutation path after seeding and is never invoked by the fan-out pipeline.
func (u *eventUsecase) MarkEventRead(eventID, userID string) error {
	return u.readRepo.MarkRead(eventID, userID)
}

func (u *eventUsecase) publish(event notification.Event) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(context.Background(), event); err != nil {
		log.Printf("[Events] Failed to publish %s event %s: %v", event.Kind, event.ID, err)
	}
}

func targetsAnyClass(classIDs []string, allowed map[string]struct{}) bool {
	for _, classID := range classIDs {
		if _, ok := allowed[classID]; ok {
			return true
		}
	}
	return false
}
