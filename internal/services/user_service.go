package services

import (
	"context"
	"fmt"
	"io"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

// UserService handles directory operations beyond authentication: role
// changes and avatar updates.
type UserService struct {
	userRepo repositories.UserRepository
	images   ImageProvider
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, images ImageProvider) *UserService {
	return &UserService{
		userRepo: userRepo,
		images:   images,
	}
}

// ChangeRole assigns a new role to the target user. Only administrators may
// call this.
func (s *UserService) ChangeRole(actor *models.User, userID string, role models.Role) (*models.User, error) {
	if actor.Role != models.RoleAdministrator {
		return nil, fmt.Errorf("only administrators can change roles: %w", apperrors.ErrForbidden)
	}
	switch role {
	case models.RoleStandard, models.RoleModerator, models.RoleAdministrator:
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrInvalidArgument)
	}

	target, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	if err := s.userRepo.ChangeRole(userID, role); err != nil {
		return nil, err
	}
	target.Role = role
	return target, nil
}

// UpdateAvatar uploads the image to the provider and stores the returned URL
// on the acting user's record.
func (s *UserService) UpdateAvatar(ctx context.Context, actor *models.User, content io.Reader) (string, error) {
	url, _, err := s.images.Upload(ctx, content)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.UpdateAvatar(actor.ID, url); err != nil {
		return "", err
	}
	return url, nil
}
