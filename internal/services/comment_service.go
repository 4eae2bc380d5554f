package services

import (
	"fmt"
	"unicode/utf8"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

// CommentService handles business logic for comments. All authorship and
// moderation checks live here; handlers only translate the outcome.
type CommentService struct {
	commentRepo repositories.CommentRepository
	photoRepo   repositories.PhotoRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, photoRepo repositories.PhotoRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		photoRepo:   photoRepo,
	}
}

// CanEdit reports whether the actor may edit the comment. Only the author
// may; moderators can delete but not rewrite.
func (s *CommentService) CanEdit(actor *models.User, comment *models.Comment) bool {
	return actor.ID == comment.UserID
}

// CanDelete reports whether the actor may delete the comment: the author, or
// anyone with moderation rights.
func (s *CommentService) CanDelete(actor *models.User, comment *models.Comment) bool {
	return actor.ID == comment.UserID || actor.Role.IsModerator()
}

// Create attaches a comment to an existing photo. Any authenticated user may
// comment, including the photo's owner.
func (s *CommentService) Create(actor *models.User, photoID string, content string) (*models.Comment, error) {
	if content == "" || utf8.RuneCountInString(content) > 255 {
		return nil, fmt.Errorf("comment content must be 1-255 characters: %w", apperrors.ErrInvalidArgument)
	}
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("photo %s: %w", photoID, apperrors.ErrNotFound)
	}

	comment := &models.Comment{
		PhotoID: photoID,
		UserID:  actor.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update replaces the content and stamps the edit time. Author-only.
func (s *CommentService) Update(actor *models.User, commentID string, content string) (*models.Comment, error) {
	if content == "" || utf8.RuneCountInString(content) > 255 {
		return nil, fmt.Errorf("comment content must be 1-255 characters: %w", apperrors.ErrInvalidArgument)
	}
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, apperrors.ErrNotFound)
	}
	if !s.CanEdit(actor, comment) {
		return nil, fmt.Errorf("comment %s belongs to another user: %w", commentID, apperrors.ErrForbidden)
	}
	return s.commentRepo.UpdateContent(commentID, content)
}

// Delete removes the comment when the actor is its author or holds
// moderation rights.
func (s *CommentService) Delete(actor *models.User, commentID string) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("comment %s: %w", commentID, apperrors.ErrNotFound)
	}
	if !s.CanDelete(actor, comment) {
		return fmt.Errorf("comment %s belongs to another user: %w", commentID, apperrors.ErrForbidden)
	}
	return s.commentRepo.Delete(commentID)
}

// ListForPhoto returns the photo's comments oldest first. An existing photo
// with no comments yields an empty list.
func (s *CommentService) ListForPhoto(photoID string) ([]models.Comment, error) {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("photo %s: %w", photoID, apperrors.ErrNotFound)
	}
	return s.commentRepo.ListForPhoto(photoID)
}
