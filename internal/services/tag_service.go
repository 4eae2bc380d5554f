package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

// TagService handles the global get-or-create tag registry.
type TagService struct {
	tagRepo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repositories.TagRepository) *TagService {
	return &TagService{
		tagRepo: tagRepo,
	}
}

// GetOrCreate returns the named tag, creating it if needed.
func (s *TagService) GetOrCreate(name string) (*models.Tag, error) {
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	return s.tagRepo.GetOrCreate(name)
}

// normalizeTagName trims and bounds a free-text tag name. Length counts
// characters, not bytes, matching the request validator.
func normalizeTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty tag name: %w", apperrors.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(name) > 25 {
		return "", fmt.Errorf("tag name %q exceeds 25 characters: %w", name, apperrors.ErrInvalidArgument)
	}
	return name, nil
}

// ResolveMany maps a bounded list of free-text names to tag rows, creating
// the ones that do not exist yet. Duplicate names collapse to one tag.
func (s *TagService) ResolveMany(names []string) ([]models.Tag, error) {
	if len(names) > models.MaxTagsPerPhoto {
		return nil, fmt.Errorf("at most %d tags per photo: %w", models.MaxTagsPerPhoto, apperrors.ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tag, err := s.GetOrCreate(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// All returns every tag.
func (s *TagService) All() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}

// GetByID returns the tag or NotFound.
func (s *TagService) GetByID(id string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, fmt.Errorf("tag %s: %w", id, apperrors.ErrNotFound)
	}
	return tag, nil
}

// Update renames a tag everywhere it appears. Tags are shared, so renaming is
// a moderation action, not something any user may do.
func (s *TagService) Update(actor *models.User, id string, name string) (*models.Tag, error) {
	if !actor.Role.IsModerator() {
		return nil, fmt.Errorf("renaming tags requires moderation rights: %w", apperrors.ErrForbidden)
	}
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	return s.tagRepo.UpdateName(id, name)
}

// Delete removes a tag from the catalog and detaches it from every photo.
// Moderation rights required.
func (s *TagService) Delete(actor *models.User, id string) error {
	if !actor.Role.IsModerator() {
		return fmt.Errorf("deleting tags requires moderation rights: %w", apperrors.ErrForbidden)
	}
	return s.tagRepo.Delete(id)
}
