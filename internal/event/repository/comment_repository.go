package repository

import (
	"errors"
	"time"

	eventdomain "classlink-backend/internal/event/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines persistence for student comments.
type CommentRepository interface {
	Create(comment *eventdomain.Comment) error
	FindByID(id string) (*eventdomain.Comment, error)
	FindByStudentID(studentID string) ([]eventdomain.Comment, error)
	SoftDelete(id string) error
}

// commentRepository implements CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of commentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		db: db,
	}
}

func (r *commentRepository) Create(comment *eventdomain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(id string) (*eventdomain.Comment, error) {
	var comment eventdomain.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// FindByStudentID returns the student's comments newest first. Soft-deleted
// rows are included; callers filter them after the fetch.
func (r *commentRepository) FindByStudentID(studentID string) ([]eventdomain.Comment, error) {
	var comments []eventdomain.Comment
	err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) SoftDelete(id string) error {
	return r.db.Model(&eventdomain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()}).Error
}
