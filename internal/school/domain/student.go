package domain

import "time"

// Student belongs to exactly one class and joins comments/notifications to
// the parent accounts that should hear about them.
type Student struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	ClassID   string    `json:"class_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Class struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// ParentStudent links a parent account to a student. Student to parent is
// many-to-many.
type ParentStudent struct {
	ParentID  string    `json:"parent_id" gorm:"primaryKey"`
	StudentID string    `json:"student_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

func (ParentStudent) TableName() string {
	return "parent_students"
}
