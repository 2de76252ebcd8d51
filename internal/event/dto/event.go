package dto

import (
	"time"

	eventdomain "classlink-backend/internal/event/domain"
)

type CreateCommentRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type CreateNotificationRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content"`
	ClassIDs []string `json:"class_ids" binding:"required,min=1"`
}

type CommentResponse struct {
	eventdomain.Comment
	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

type NotificationResponse struct {
	eventdomain.ClassNotification
	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

type CommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}
