package repositories

import (
	"errors"
	"fmt"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. The unique index on email is the authority on
// duplicates; a constraint violation comes back as a Conflict.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Count returns the number of registered users.
func (r *GORMUserRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// UpdateToken overwrites the stored refresh token. An empty token clears it,
// which is how logout and refresh-token-reuse detection revoke a session.
func (r *GORMUserRepository) UpdateToken(userID string, token string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token", token)
	if res.Error != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

// ChangeRole writes the role unconditionally. The administrator-only check
// belongs to the caller.
func (r *GORMUserRepository) ChangeRole(userID string, role models.Role) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to change role for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateAvatar sets the avatar URL.
func (r *GORMUserRepository) UpdateAvatar(userID string, url string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar", url)
	if res.Error != nil {
		return fmt.Errorf("failed to update avatar for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}
