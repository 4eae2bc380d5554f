package repositories

import (
	"errors"
	"fmt"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{
		db: db,
	}
}

// GetOrCreate returns the named tag, inserting it when absent. The unique
// index on the name settles concurrent inserts: the loser of the race reads
// back the winner's row, so two requests always end up sharing one tag.
func (r *GORMTagRepository) GetOrCreate(name string) (*models.Tag, error) {
	existing, err := r.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	tag := models.Tag{ID: uuid.New().String(), Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; the winner's row is the tag.
			return r.GetByName(name)
		}
		return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
	}
	return &tag, nil
}

// GetAll returns every tag.
func (r *GORMTagRepository) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get all tags: %w", err)
	}
	return tags, nil
}

// GetByID returns the tag with the given ID, or (nil, nil) when absent.
func (r *GORMTagRepository) GetByID(id string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag by ID %s: %w", id, err)
	}
	return &tag, nil
}

// GetByName returns the tag with the given name, or (nil, nil) when absent.
func (r *GORMTagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag by name %q: %w", name, err)
	}
	return &tag, nil
}

// UpdateName renames the tag. The unique index reports a clash with another
// tag's name as a Conflict.
func (r *GORMTagRepository) UpdateName(id string, name string) (*models.Tag, error) {
	res := r.db.Model(&models.Tag{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("tag name %q already in use: %w", name, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to rename tag %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("tag %s: %w", id, apperrors.ErrNotFound)
	}
	return r.GetByID(id)
}

// Delete removes the tag together with its photo associations. The photos
// themselves are untouched.
func (r *GORMTagRepository) Delete(id string) error {
	res := r.db.Select(clause.Associations).Delete(&models.Tag{ID: id})
	if res.Error != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
