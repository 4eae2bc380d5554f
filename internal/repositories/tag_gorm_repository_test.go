package repositories_test

import (
	"fmt"
	"sync"
	"testing"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTagDB(t *testing.T) (*gorm.DB, *repositories.GORMTagRepository) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Photo{},
		&models.Comment{},
		&models.Rating{},
	)
	assert.NoError(t, err)
	return db, repositories.NewGORMTagRepository(db)
}

func TestGORMTagRepository_GetOrCreateIdempotent(t *testing.T) {
	db, repo := setupTagDB(t)

	first, err := repo.GetOrCreate("sunset")
	assert.NoError(t, err)
	second, err := repo.GetOrCreate("sunset")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	assert.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "sunset").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The unique index, not the lookup, is what ultimately guarantees one
	// row per name.
	err = db.Create(&models.Tag{ID: uuid.New().String(), Name: "sunset"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGORMTagRepository_GetOrCreateLosesInsertRace(t *testing.T) {
	db, repo := setupTagDB(t)

	// A second connection to the same database plays the competing writer.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	winnerConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	// Slip the competing insert in after the existence check but before the
	// repository's own insert, so the insert deterministically loses.
	winnerID := uuid.New().String()
	var race sync.Once
	err = db.Callback().Create().Before("gorm:create").Register("competing_tag_insert", func(tx *gorm.DB) {
		race.Do(func() {
			assert.NoError(t, winnerConn.Create(&models.Tag{ID: winnerID, Name: "beach"}).Error)
		})
	})
	assert.NoError(t, err)

	// The duplicate-key fallback reads the winner's row back; both callers
	// end up sharing it.
	tag, err := repo.GetOrCreate("beach")
	assert.NoError(t, err)
	assert.Equal(t, winnerID, tag.ID)

	var count int64
	assert.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "beach").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGORMTagRepository_UpdateName(t *testing.T) {
	_, repo := setupTagDB(t)

	sunset, err := repo.GetOrCreate("sunset")
	assert.NoError(t, err)
	_, err = repo.GetOrCreate("beach")
	assert.NoError(t, err)

	renamed, err := repo.UpdateName(sunset.ID, "dusk")
	assert.NoError(t, err)
	assert.Equal(t, "dusk", renamed.Name)

	// Renaming onto another tag's name violates the unique index.
	_, err = repo.UpdateName(sunset.ID, "beach")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = repo.UpdateName(uuid.New().String(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMTagRepository_DeleteDetachesFromPhotos(t *testing.T) {
	db, repo := setupTagDB(t)
	photoRepo := repositories.NewGORMPhotoRepository(db)

	sunset, err := repo.GetOrCreate("sunset")
	assert.NoError(t, err)
	beach, err := repo.GetOrCreate("beach")
	assert.NoError(t, err)

	photo := &models.Photo{
		UserID:      uuid.New().String(),
		Description: "the shore",
		ImageURL:    "https://images.test/shore.jpg",
		PublicID:    "shore",
		Tags:        []models.Tag{*sunset, *beach},
	}
	assert.NoError(t, photoRepo.Create(photo))

	assert.NoError(t, repo.Delete(beach.ID))

	// The photo survives with the remaining tag.
	got, err := photoRepo.GetByID(photo.ID)
	assert.NoError(t, err)
	assert.Len(t, got.Tags, 1)
	assert.Equal(t, "sunset", got.Tags[0].Name)

	assert.ErrorIs(t, repo.Delete(beach.ID), apperrors.ErrNotFound)
}
