package services

import (
	"fmt"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

// RatingService handles business logic for ratings: the value range, the
// one-rating-per-pair rule, the self-rating prohibition and the deletion
// rights.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	photoRepo  repositories.PhotoRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repositories.RatingRepository, photoRepo repositories.PhotoRepository) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		photoRepo:  photoRepo,
	}
}

// CanDelete reports whether the actor may delete the rating: the rater, or
// anyone with moderation rights.
func (s *RatingService) CanDelete(actor *models.User, rating *models.Rating) bool {
	return actor.ID == rating.UserID || actor.Role.IsModerator()
}

// Create records a rating. The photo must exist, the actor must not own it,
// and the composite unique index turns a second rating by the same user into
// a Conflict even when two requests race.
func (s *RatingService) Create(actor *models.User, photoID string, value int) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", apperrors.ErrInvalidArgument)
	}
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("photo %s: %w", photoID, apperrors.ErrNotFound)
	}
	if photo.UserID == actor.ID {
		return nil, fmt.Errorf("cannot rate your own photo: %w", apperrors.ErrForbidden)
	}

	rating := &models.Rating{
		PhotoID: photoID,
		UserID:  actor.ID,
		Value:   value,
	}
	if err := s.ratingRepo.Create(rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// Delete removes the rating when the actor is its rater or holds moderation
// rights; anyone else gets an explicit Forbidden.
func (s *RatingService) Delete(actor *models.User, ratingID string) error {
	rating, err := s.ratingRepo.GetByID(ratingID)
	if err != nil {
		return err
	}
	if rating == nil {
		return fmt.Errorf("rating %s: %w", ratingID, apperrors.ErrNotFound)
	}
	if !s.CanDelete(actor, rating) {
		return fmt.Errorf("rating %s belongs to another user: %w", ratingID, apperrors.ErrForbidden)
	}
	return s.ratingRepo.Delete(ratingID)
}

// List returns ratings matching the filter. The unfiltered form exposes
// every rating in the system and is reserved for moderators and
// administrators.
func (s *RatingService) List(actor *models.User, filter repositories.RatingFilter) ([]models.Rating, error) {
	if filter.PhotoID == "" && filter.UserID == "" && !actor.Role.IsModerator() {
		return nil, fmt.Errorf("listing all ratings requires moderation rights: %w", apperrors.ErrForbidden)
	}
	return s.ratingRepo.List(filter)
}

// AverageForPhoto returns the mean rating for an existing photo, nil when it
// has none.
func (s *RatingService) AverageForPhoto(photoID string) (*float64, error) {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("photo %s: %w", photoID, apperrors.ErrNotFound)
	}
	return s.ratingRepo.AverageForPhoto(photoID)
}
