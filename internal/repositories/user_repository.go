package repositories

import "photoshare/internal/models"

// UserRepository defines the interface for user data access. Lookups return
// (nil, nil) when no user matches; callers decide whether absence is a 401
// or a 404.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Count() (int64, error)
	UpdateToken(userID string, token string) error
	ChangeRole(userID string, role models.Role) error
	UpdateAvatar(userID string, url string) error
}
