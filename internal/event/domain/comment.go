package domain

import "time"

// Comment is a teacher's note about one student. Immutable once created;
// removal is a soft delete filtered by readers.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	StudentID string    `json:"student_id" gorm:"index;not null"`
	AuthorID  string    `json:"author_id" gorm:"index"`
	Content   string    `json:"content" gorm:"not null"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
