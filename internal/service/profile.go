package service

import (
	"context"
	"fmt"
	"time"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/storage"
	"github.com/horizons-app/horizons/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	storage     storage.Storage
	cache       *cache.Cache
	now         func() time.Time
}

func NewProfileService(profileRepo repository.ProfileRepository, storage storage.Storage, cache *cache.Cache) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
		cache:       cache,
		now:         time.Now,
	}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.ByID(ctx, userID)
}

func (s *ProfileService) UpdateDisplayName(ctx context.Context, userID, name string) (*model.Profile, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	err := validation.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	err = s.profileRepo.UpdateDisplayName(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return s.profileRepo.ByID(ctx, userID)
}

// UploadAvatar overwrites profiles/<user>.<ext>. The stored URL carries a
// timestamp so browsers drop their cached copy.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, file FileUpload) (*model.Profile, error) {
	ext, ok := validation.ImageExtension(file.Filename)
	if !ok {
		return nil, ErrInvalidFileType
	}

	path := fmt.Sprintf("profiles/%s.%s", userID, ext)

	err := s.storage.Save(ctx, path, file.Body, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}

	url := fmt.Sprintf("%s?t=%d", s.storage.URL(path), s.now().Unix())
	err = s.profileRepo.UpdateAvatarURL(ctx, userID, &url)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	s.invalidate()
	return s.profileRepo.ByID(ctx, userID)
}

// Profiles are embedded in cached team and goal results.
func (s *ProfileService) invalidate() {
	s.cache.Invalidate("teams")
	s.cache.Invalidate("team")
	s.cache.Invalidate("goals")
	s.cache.Invalidate("goal")
	s.cache.Invalidate("feedback")
}
