package repositories

import "photoshare/internal/models"

// TagRepository defines the interface for tag data access.
type TagRepository interface {
	// GetOrCreate returns the tag with the given name, inserting it first if
	// absent. Safe under concurrent calls for the same name.
	GetOrCreate(name string) (*models.Tag, error)
	GetAll() ([]models.Tag, error)
	GetByID(id string) (*models.Tag, error)
	GetByName(name string) (*models.Tag, error)
	// UpdateName renames the tag. A name already used by another tag is a
	// Conflict.
	UpdateName(id string, name string) (*models.Tag, error)
	// Delete removes the tag and its photo associations; the photos stay.
	Delete(id string) error
}
