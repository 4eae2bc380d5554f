package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/pkg/rabbitmq"
)

// PhotoPolicy configures the moderation rules that are deliberately not
// hard-coded. ModeratorDeleteOverride lets moderators and administrators
// delete photos they do not own.
type PhotoPolicy struct {
	ModeratorDeleteOverride bool
}

// PhotoService handles business logic for photos: uploads, tag resolution,
// transformations, search and the deletion rules.
type PhotoService struct {
	photoRepo repositories.PhotoRepository
	tags      *TagService
	images    ImageProvider
	mqClient  *rabbitmq.Client
	policy    PhotoPolicy
}

// NewPhotoService creates a new PhotoService. mqClient may be nil; events
// are then skipped.
func NewPhotoService(photoRepo repositories.PhotoRepository, tags *TagService, images ImageProvider, mqClient *rabbitmq.Client, policy PhotoPolicy) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		tags:      tags,
		images:    images,
		mqClient:  mqClient,
		policy:    policy,
	}
}

// CanEdit reports whether the actor may change the photo's content. Editing
// is owner-only; moderation rights do not extend to rewriting descriptions.
func (s *PhotoService) CanEdit(actor *models.User, photo *models.Photo) bool {
	return actor.ID == photo.UserID
}

// CanDelete reports whether the actor may delete the photo. Owners always
// can; moderators and administrators can when the override policy allows.
func (s *PhotoService) CanDelete(actor *models.User, photo *models.Photo) bool {
	if actor.ID == photo.UserID {
		return true
	}
	return s.policy.ModeratorDeleteOverride && actor.Role.IsModerator()
}

// Create uploads the content to the image host, then persists the photo with
// its resolved tags in one transaction. A brand-new photo has no ratings, so
// its average is nil.
func (s *PhotoService) Create(ctx context.Context, actor *models.User, description string, tagNames []string, content io.Reader) (*models.Photo, error) {
	tags, err := s.tags.ResolveMany(tagNames)
	if err != nil {
		return nil, err
	}

	url, publicID, err := s.images.Upload(ctx, content)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		UserID:      actor.ID,
		Description: description,
		ImageURL:    url,
		PublicID:    publicID,
		Tags:        tags,
	}
	if err := s.photoRepo.Create(photo); err != nil {
		return nil, err
	}

	s.publish("photo.created", map[string]interface{}{
		"photo_id": photo.ID,
		"user_id":  photo.UserID,
	})
	return photo, nil
}

// GetByID returns the photo with tags, comments and average rating.
func (s *PhotoService) GetByID(id string) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
	}
	return photo, nil
}

// Update overwrites description and tags. Ownership is enforced here, not at
// the route.
func (s *PhotoService) Update(actor *models.User, id string, description string, tagNames []string) (*models.Photo, error) {
	photo, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(actor, photo) {
		return nil, fmt.Errorf("photo %s belongs to another user: %w", id, apperrors.ErrForbidden)
	}

	tags, err := s.tags.ResolveMany(tagNames)
	if err != nil {
		return nil, err
	}
	if err := s.photoRepo.UpdateContent(id, description, tags); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Transform asks the image host for a derived rendition and stores its URL.
func (s *PhotoService) Transform(ctx context.Context, actor *models.User, id string, t Transformation) (*models.Photo, error) {
	photo, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(actor, photo) {
		return nil, fmt.Errorf("photo %s belongs to another user: %w", id, apperrors.ErrForbidden)
	}

	url, err := s.images.Transform(ctx, photo.PublicID, t)
	if err != nil {
		return nil, err
	}
	if err := s.photoRepo.UpdateTransformedURL(id, url); err != nil {
		return nil, err
	}
	photo.TransformedURL = url
	return photo, nil
}

// Delete removes the photo row (dependent comments, ratings and tag
// associations go with it) and then the remote asset. The remote delete is
// not transactional with the row delete; if it fails the row stays gone and
// the failure surfaces to the caller.
func (s *PhotoService) Delete(ctx context.Context, actor *models.User, id string) error {
	photo, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !s.CanDelete(actor, photo) {
		return fmt.Errorf("photo %s belongs to another user: %w", id, apperrors.ErrForbidden)
	}

	if err := s.photoRepo.Delete(id); err != nil {
		return err
	}
	s.publish("photo.deleted", map[string]interface{}{
		"photo_id": id,
		"user_id":  photo.UserID,
	})

	if err := s.images.Delete(ctx, photo.PublicID); err != nil {
		log.Printf("remote asset %s not removed after deleting photo %s: %v", photo.PublicID, id, err)
		return err
	}
	return nil
}

// Search returns photos matching all supplied filters; no match is an empty
// list, not an error.
func (s *PhotoService) Search(filter repositories.PhotoFilter) ([]models.Photo, error) {
	return s.photoRepo.Search(filter)
}

func (s *PhotoService) publish(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("failed to publish %s event: %v", routingKey, err)
	}
}
