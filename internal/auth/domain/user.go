package domain

import "time"

// Account roles. Parents are the only push recipients; teachers and admins
// author comments and notifications.
const (
	RoleParent  = "parent"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`
	Role     string `json:"role" gorm:"index;not null"`

	// DeviceToken is the account's single current push destination. Blank
	// means the account is never selected as a dispatch target. Refreshed by
	// the client, cleared by the token sanitizer when delivery proves it dead.
	DeviceToken string `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParent reports whether the account is a push-eligible recipient.
func (u *User) IsParent() bool {
	return u.Role == RoleParent
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
