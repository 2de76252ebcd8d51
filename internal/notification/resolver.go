package notification

import (
	authdomain "classlink-backend/internal/auth/domain"
	schooldomain "classlink-backend/internal/school/domain"
)

// StudentDirectory is the slice of the school repository the resolver needs.
type StudentDirectory interface {
	FindStudentsByClassIDs(classIDs []string) ([]schooldomain.Student, error)
}

// ParentDirectory is the slice of the user repository the resolver needs.
type ParentDirectory interface {
	FindParentsByStudentID(studentID string) ([]authdomain.User, error)
	FindParentsByStudentIDs(studentIDs []string) ([]authdomain.User, error)
}

// Resolver computes the recipient set for one event: the parent accounts
// linked to the targeted student, or to any student in the targeted classes.
type Resolver struct {
	studentRepo StudentDirectory
	userRepo    ParentDirectory
}

func NewResolver(studentRepo StudentDirectory, userRepo ParentDirectory) *Resolver {
	return &Resolver{
		studentRepo: studentRepo,
		userRepo:    userRepo,
	}
}

// ResolveRecipients returns the parents to notify for the event, each at most
// once. A malformed or empty target spec resolves to zero recipients rather
// than an error; notifications are best-effort and malformed legacy events
// are expected.
func (r *Resolver) ResolveRecipients(event Event) ([]authdomain.User, error) {
	switch event.Kind {
	case EventNewComment:
		if event.StudentID == "" {
			return nil, nil
		}
		parents, err := r.userRepo.FindParentsByStudentID(event.StudentID)
		if err != nil {
			return nil, err
		}
		return dedupeByID(parents), nil

	case EventClassNotification, EventMultiClassNotification:
		classIDs := nonBlank(event.ClassIDs)
		if len(classIDs) == 0 {
			return nil, nil
		}

		students, err := r.studentRepo.FindStudentsByClassIDs(classIDs)
		if err != nil {
			return nil, err
		}
		if len(students) == 0 {
			return nil, nil
		}

		studentIDs := make([]string, 0, len(students))
		for _, student := range students {
			studentIDs = append(studentIDs, student.ID)
		}

		parents, err := r.userRepo.FindParentsByStudentIDs(studentIDs)
		if err != nil {
			return nil, err
		}
		return dedupeByID(parents), nil

	default:
		return nil, nil
	}
}

func dedupeByID(users []authdomain.User) []authdomain.User {
	seen := make(map[string]struct{}, len(users))
	out := users[:0]
	for _, user := range users {
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		out = append(out, user)
	}
	return out
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
