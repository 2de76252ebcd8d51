package repository

import (
	"errors"
	"time"

	eventdomain "classlink-backend/internal/event/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines persistence for class notifications.
type NotificationRepository interface {
	Create(notification *eventdomain.ClassNotification) error
	FindByID(id string) (*eventdomain.ClassNotification, error)
	FindRecent(limit int) ([]eventdomain.ClassNotification, error)
	SoftDelete(id string) error
}

// notificationRepository implements NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of notificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

func (r *notificationRepository) Create(notification *eventdomain.ClassNotification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByID(id string) (*eventdomain.ClassNotification, error) {
	var notification eventdomain.ClassNotification
	err := r.db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// FindRecent returns notifications newest first. Class targeting and the
// soft-delete flag are filtered by the caller after the fetch; the store's
// JSON column does not support a portable containment query.
func (r *notificationRepository) FindRecent(limit int) ([]eventdomain.ClassNotification, error) {
	if limit <= 0 {
		limit = 100
	}
	var notifications []eventdomain.ClassNotification
	err := r.db.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) SoftDelete(id string) error {
	return r.db.Model(&eventdomain.ClassNotification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()}).Error
}
