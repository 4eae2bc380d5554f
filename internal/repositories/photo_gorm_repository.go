package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPhotoRepository is a GORM implementation of PhotoRepository.
type GORMPhotoRepository struct {
	db *gorm.DB
}

// NewGORMPhotoRepository creates a new instance of GORMPhotoRepository.
func NewGORMPhotoRepository(db *gorm.DB) *GORMPhotoRepository {
	return &GORMPhotoRepository{
		db: db,
	}
}

// Create persists the photo row and its tag associations atomically. GORM
// writes the row and the join entries inside one transaction, so a client
// disconnect cannot leave a photo without its tags.
func (r *GORMPhotoRepository) Create(photo *models.Photo) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	if err := r.db.Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetByID loads the photo with tags, comments (oldest first) and the
// computed average rating.
func (r *GORMPhotoRepository) GetByID(id string) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&photo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get photo by ID %s: %w", id, err)
	}

	avg, err := r.averageRating(id)
	if err != nil {
		return nil, err
	}
	photo.AverageRating = avg
	return &photo, nil
}

// UpdateContent overwrites the description and replaces the tag set in a
// single transaction.
func (r *GORMPhotoRepository) UpdateContent(id string, description string, tags []models.Tag) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.First(&photo, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to load photo %s: %w", id, err)
		}
		if err := tx.Model(&photo).Update("description", description).Error; err != nil {
			return fmt.Errorf("failed to update photo %s: %w", id, err)
		}
		if err := tx.Model(&photo).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to replace tags on photo %s: %w", id, err)
		}
		return nil
	})
}

// UpdateTransformedURL sets the transformed-image field only.
func (r *GORMPhotoRepository) UpdateTransformedURL(id string, url string) error {
	res := r.db.Model(&models.Photo{}).Where("id = ?", id).Update("transformed_url", url)
	if res.Error != nil {
		return fmt.Errorf("failed to update transformed URL for photo %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes the photo and explicitly requests removal of its dependent
// rows (comments, ratings, tag associations). Tags themselves are global and
// stay.
func (r *GORMPhotoRepository) Delete(id string) error {
	res := r.db.Select(clause.Associations).Delete(&models.Photo{ID: id})
	if res.Error != nil {
		return fmt.Errorf("failed to delete photo %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// Search applies the supplied filters ANDed together. Rating bounds join an
// aggregated subquery so the mean is computed by the engine, and the keyword
// matches description or any tag name case-insensitively.
func (r *GORMPhotoRepository) Search(filter PhotoFilter) ([]models.Photo, error) {
	query := r.db.Model(&models.Photo{}).Distinct("photos.*")

	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.
			Joins("LEFT JOIN photo_tags ON photo_tags.photo_id = photos.id").
			Joins("LEFT JOIN tags ON tags.id = photo_tags.tag_id").
			Where("LOWER(photos.description) LIKE ? OR LOWER(tags.name) LIKE ?", pattern, pattern)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("photos.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("photos.created_at <= ?", *filter.CreatedBefore)
	}
	if filter.OwnerID != "" {
		query = query.Where("photos.user_id = ?", filter.OwnerID)
	}
	if filter.AvgRatingAbove != nil || filter.AvgRatingBelow != nil {
		query = query.Joins(
			"JOIN (SELECT photo_id, AVG(value) AS avg_value FROM ratings GROUP BY photo_id) photo_avgs ON photo_avgs.photo_id = photos.id")
		if filter.AvgRatingAbove != nil {
			query = query.Where("photo_avgs.avg_value >= ?", *filter.AvgRatingAbove)
		}
		if filter.AvgRatingBelow != nil {
			query = query.Where("photo_avgs.avg_value <= ?", *filter.AvgRatingBelow)
		}
	}

	var photos []models.Photo
	if err := query.Preload("Tags").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to search photos: %w", err)
	}
	for i := range photos {
		avg, err := r.averageRating(photos[i].ID)
		if err != nil {
			return nil, err
		}
		photos[i].AverageRating = avg
	}
	return photos, nil
}

func (r *GORMPhotoRepository) averageRating(photoID string) (*float64, error) {
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
