package services_test

import (
	"fmt"
	"testing"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(id string) (*models.Rating, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRatingRepository) List(filter repositories.RatingFilter) ([]models.Rating, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) AverageForPhoto(photoID string) (*float64, error) {
	args := m.Called(photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func TestRatingService_CreateValidation(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockPhotos := new(MockPhotoRepository)
	service := services.NewRatingService(mockRatings, mockPhotos)

	actor := &models.User{ID: "rater", Role: models.RoleStandard}

	for _, value := range []int{0, 6, -1} {
		rating, err := service.Create(actor, "p1", value)
		assert.Nil(t, rating)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	}
	mockPhotos.AssertNotCalled(t, "GetByID", mock.Anything)

	mockPhotos.On("GetByID", "missing").Return(nil, nil).Once()
	_, err := service.Create(actor, "missing", 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockPhotos.AssertExpectations(t)
}

func TestRatingService_CreateSelfRatingForbidden(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockPhotos := new(MockPhotoRepository)
	service := services.NewRatingService(mockRatings, mockPhotos)

	owner := &models.User{ID: "owner", Role: models.RoleStandard}
	mockPhotos.On("GetByID", "p1").Return(&models.Photo{ID: "p1", UserID: "owner"}, nil).Once()

	rating, err := service.Create(owner, "p1", 5)
	assert.Nil(t, rating)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	mockRatings.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRatingService_CreateAndDuplicate(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockPhotos := new(MockPhotoRepository)
	service := services.NewRatingService(mockRatings, mockPhotos)

	actor := &models.User{ID: "rater", Role: models.RoleStandard}
	mockPhotos.On("GetByID", "p1").Return(&models.Photo{ID: "p1", UserID: "owner"}, nil)

	mockRatings.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil).Once()
	rating, err := service.Create(actor, "p1", 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, rating.Value)
	assert.Equal(t, "rater", rating.UserID)

	// The composite unique index turns the second attempt into a Conflict.
	duplicate := fmt.Errorf("rating for photo p1 by user rater: %w", apperrors.ErrConflict)
	mockRatings.On("Create", mock.AnythingOfType("*models.Rating")).Return(duplicate).Once()
	_, err = service.Create(actor, "p1", 2)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	mockRatings.AssertExpectations(t)
}

func TestRatingService_DeletePermissions(t *testing.T) {
	rating := &models.Rating{ID: "r1", PhotoID: "p1", UserID: "rater", Value: 4}

	cases := []struct {
		name    string
		actor   *models.User
		allowed bool
	}{
		{"rater", &models.User{ID: "rater", Role: models.RoleStandard}, true},
		{"moderator", &models.User{ID: "mod", Role: models.RoleModerator}, true},
		{"unrelated standard user", &models.User{ID: "other", Role: models.RoleStandard}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRatings := new(MockRatingRepository)
			service := services.NewRatingService(mockRatings, new(MockPhotoRepository))

			mockRatings.On("GetByID", "r1").Return(rating, nil).Once()
			if tc.allowed {
				mockRatings.On("Delete", "r1").Return(nil).Once()
			}

			err := service.Delete(tc.actor, "r1")
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
				mockRatings.AssertNotCalled(t, "Delete", mock.Anything)
			}
			mockRatings.AssertExpectations(t)
		})
	}
}

func TestRatingService_ListUnfilteredNeedsModerationRights(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	service := services.NewRatingService(mockRatings, new(MockPhotoRepository))

	standard := &models.User{ID: "u1", Role: models.RoleStandard}
	moderator := &models.User{ID: "mod", Role: models.RoleModerator}

	_, err := service.List(standard, repositories.RatingFilter{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	mockRatings.AssertNotCalled(t, "List", mock.Anything)

	mockRatings.On("List", repositories.RatingFilter{}).Return([]models.Rating{}, nil).Once()
	_, err = service.List(moderator, repositories.RatingFilter{})
	assert.NoError(t, err)

	// Any filter makes the listing available to standard users.
	filter := repositories.RatingFilter{PhotoID: "p1"}
	mockRatings.On("List", filter).Return([]models.Rating{{ID: "r1"}}, nil).Once()
	ratings, err := service.List(standard, filter)
	assert.NoError(t, err)
	assert.Len(t, ratings, 1)
	mockRatings.AssertExpectations(t)
}

func TestRatingService_AverageForPhoto(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockPhotos := new(MockPhotoRepository)
	service := services.NewRatingService(mockRatings, mockPhotos)

	mockPhotos.On("GetByID", "p1").Return(&models.Photo{ID: "p1"}, nil)

	average := 4.0
	mockRatings.On("AverageForPhoto", "p1").Return(&average, nil).Once()
	got, err := service.AverageForPhoto("p1")
	assert.NoError(t, err)
	assert.Equal(t, 4.0, *got)

	// An unrated photo has no average at all, as opposed to zero.
	mockRatings.On("AverageForPhoto", "p1").Return(nil, nil).Once()
	got, err = service.AverageForPhoto("p1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	mockPhotos.On("GetByID", "missing").Return(nil, nil).Once()
	_, err = service.AverageForPhoto("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRatings.AssertExpectations(t)
}
