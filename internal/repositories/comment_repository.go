package repositories

import "photoshare/internal/models"

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	// UpdateContent replaces the content and stamps UpdatedAt.
	UpdateContent(id string, content string) (*models.Comment, error)
	Delete(id string) error
	// ListForPhoto returns the photo's comments ordered oldest first.
	ListForPhoto(photoID string) ([]models.Comment, error)
}
