package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ClassNotification is a broadcast to one or more classes. A single-class
// notification carries exactly one class ID; the two shapes share a table but
// flow through separate event streams.
type ClassNotification struct {
	ID        string                      `json:"id" gorm:"primaryKey"`
	Title     string                      `json:"title" gorm:"not null"`
	Content   string                      `json:"content"`
	AuthorID  string                      `json:"author_id" gorm:"index"`
	ClassIDs  datatypes.JSONSlice[string] `json:"class_ids"`
	IsDeleted bool                        `json:"is_deleted"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// IsMultiClass reports whether the notification targets more than one class.
func (n *ClassNotification) IsMultiClass() bool {
	return len(n.ClassIDs) > 1
}
