package repositories

import "photoshare/internal/models"

// RatingFilter narrows a rating listing. Empty fields are not applied.
type RatingFilter struct {
	PhotoID string
	UserID  string
}

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	// Create inserts the rating. A second rating by the same user for the
	// same photo violates the composite unique index and is reported as a
	// Conflict.
	Create(rating *models.Rating) error
	GetByID(id string) (*models.Rating, error)
	Delete(id string) error
	List(filter RatingFilter) ([]models.Rating, error)
	// AverageForPhoto returns the mean rating, or nil when the photo has no
	// ratings at all.
	AverageForPhoto(photoID string) (*float64, error)
}
