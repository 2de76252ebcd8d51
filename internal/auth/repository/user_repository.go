package repository

import (
	"errors"
	"time"

	authdomain "classlink-backend/internal/auth/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository defines account persistence, including the device-token
// registry used by the notification pipeline.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	// Token registry
	UpdateDeviceToken(userID, token string) error
	ClearDeviceToken(token string) error
	FindParentsByStudentID(studentID string) ([]authdomain.User, error)
	FindParentsByStudentIDs(studentIDs []string) ([]authdomain.User, error)
	FindParentsWithoutToken() ([]authdomain.User, error)

	// Refresh tokens
	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	ReplaceRefreshToken(token *authdomain.RefreshToken) error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

// UpdateDeviceToken stores the account's current push destination. The client
// calls this whenever it obtains a fresh token.
func (r *userRepository) UpdateDeviceToken(userID, token string) error {
	return r.db.Model(&authdomain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"device_token": token, "updated_at": time.Now()}).Error
}

// ClearDeviceToken blanks the token field on every account holding the given
// token value. Ideally that is exactly one account, but zero or several
// holders are tolerated; clearing an already-cleared token is a no-op.
func (r *userRepository) ClearDeviceToken(token string) error {
	if token == "" {
		return nil
	}
	return r.db.Model(&authdomain.User{}).
		Where("device_token = ?", token).
		Updates(map[string]interface{}{"device_token": "", "updated_at": time.Now()}).Error
}

// FindParentsByStudentID returns all parent accounts linked to the student.
func (r *userRepository) FindParentsByStudentID(studentID string) ([]authdomain.User, error) {
	var users []authdomain.User
	err := r.db.
		Joins("JOIN parent_students ps ON ps.parent_id = users.id").
		Where("ps.student_id = ?", studentID).
		Where("users.role = ?", authdomain.RoleParent).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindParentsByStudentIDs returns all parent accounts linked to any of the
// students, each parent at most once.
func (r *userRepository) FindParentsByStudentIDs(studentIDs []string) ([]authdomain.User, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var users []authdomain.User
	err := r.db.
		Distinct("users.*").
		Joins("JOIN parent_students ps ON ps.parent_id = users.id").
		Where("ps.student_id IN ?", studentIDs).
		Where("users.role = ?", authdomain.RoleParent).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindParentsWithoutToken() ([]authdomain.User, error) {
	var users []authdomain.User
	err := r.db.
		Where("role = ?", authdomain.RoleParent).
		Where("device_token IS NULL OR device_token = ''").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SaveRefreshToken(token *authdomain.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *userRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	var refreshToken authdomain.RefreshToken
	err := r.db.Where("token = ?", token).First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refreshToken, nil
}

func (r *userRepository) DeleteRefreshToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.RefreshToken{}).Error
}

// ReplaceRefreshToken adds a new refresh token for the user without deleting
// existing ones, so each device keeps its own session. Only expired tokens
// are cleaned up.
func (r *userRepository) ReplaceRefreshToken(token *authdomain.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND expires_at < ?", token.UserID, time.Now()).Delete(&authdomain.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
