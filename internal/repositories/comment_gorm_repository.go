package repositories

import (
	"errors"
	"fmt"
	"time"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create inserts a new comment. UpdatedAt stays nil until the first edit.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID returns the comment with the given ID, or (nil, nil) when absent.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment by ID %s: %w", id, err)
	}
	return &comment, nil
}

// UpdateContent replaces the content and stamps UpdatedAt.
func (r *GORMCommentRepository) UpdateContent(id string, content string) (*models.Comment, error) {
	now := time.Now()
	res := r.db.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"updated_at": now,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return r.GetByID(id)
}

// Delete removes the comment.
func (r *GORMCommentRepository) Delete(id string) error {
	res := r.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListForPhoto returns the photo's comments ordered by creation time.
func (r *GORMCommentRepository) ListForPhoto(photoID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("photo_id = ?", photoID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for photo %s: %w", photoID, err)
	}
	return comments, nil
}
