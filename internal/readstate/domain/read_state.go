package domain

import "time"

// ReadState tracks whether one recipient has acknowledged one event. Exactly
// one row per (event, recipient) pair; the composite key is what makes
// seeding idempotent.
type ReadState struct {
	EventID string     `json:"event_id" gorm:"primaryKey"`
	UserID  string     `json:"user_id" gorm:"primaryKey"`
	IsRead  bool       `json:"is_read"`
	ReadAt  *time.Time `json:"read_at"`
}
