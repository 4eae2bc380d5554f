package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// Create inserts the rating, translating the composite-index violation to a
// Conflict. The index, not a pre-check, is what makes "one rating per
// (photo, user)" hold under concurrent requests.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if err := r.db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("photo %s already rated by user %s: %w",
				rating.PhotoID, rating.UserID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// GetByID returns the rating with the given ID, or (nil, nil) when absent.
func (r *GORMRatingRepository) GetByID(id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rating by ID %s: %w", id, err)
	}
	return &rating, nil
}

// Delete removes the rating.
func (r *GORMRatingRepository) Delete(id string) error {
	res := r.db.Delete(&models.Rating{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete rating %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("rating %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// List returns ratings matching the filter.
func (r *GORMRatingRepository) List(filter RatingFilter) ([]models.Rating, error) {
	query := r.db.Model(&models.Rating{})
	if filter.PhotoID != "" {
		query = query.Where("photo_id = ?", filter.PhotoID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	var ratings []models.Rating
	if err := query.Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

// AverageForPhoto computes the mean in the engine. No rows means nil, never
// zero and never a division error.
func (r *GORMRatingRepository) AverageForPhoto(photoID string) (*float64, error) {
	var avg sql.NullFloat64
	row := r.db.Model(&models.Rating{}).
		Where("photo_id = ?", photoID).
		Select("AVG(value)").Row()
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to compute average rating for photo %s: %w", photoID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
