package repositories

import (
	"time"

	"photoshare/internal/models"
)

// PhotoFilter carries the composable search criteria. Nil/empty fields are
// not applied; all supplied filters AND together.
type PhotoFilter struct {
	Keyword        string
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	AvgRatingAbove *float64
	AvgRatingBelow *float64
	OwnerID        string
}

// PhotoRepository defines the interface for photo data access.
type PhotoRepository interface {
	// Create persists the photo together with its tag associations in one
	// transaction: a photo row without its associations must never survive.
	Create(photo *models.Photo) error
	// GetByID returns the photo with tags, comments and the computed average
	// rating, or (nil, nil) when absent.
	GetByID(id string) (*models.Photo, error)
	// UpdateContent overwrites description and replaces the tag set.
	UpdateContent(id string, description string, tags []models.Tag) error
	// UpdateTransformedURL sets only the transformed-image field.
	UpdateTransformedURL(id string, url string) error
	Delete(id string) error
	Search(filter PhotoFilter) ([]models.Photo, error)
}
