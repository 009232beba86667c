package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/storage"
	"github.com/horizons-app/horizons/internal/validation"
)

// FileUpload is an uploaded file already checked for size and content by
// the caller.
type FileUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type AttachmentInput struct {
	Type          model.AttachmentType `json:"type" validate:"required,oneof=url image note milestone"`
	Title         *string              `json:"title" validate:"omitempty,max=200"`
	URL           *string              `json:"url" validate:"omitempty,url,max=2048"`
	Content       *string              `json:"content" validate:"omitempty,max=5000"`
	MilestoneDate *string              `json:"milestone_date" validate:"omitempty,isodate"`
}

type AttachmentService struct {
	goalRepository       repository.GoalRepository
	attachmentRepository repository.AttachmentRepository
	teamRepository       repository.TeamRepository
	storage              storage.Storage
	cache                *cache.Cache
	now                  func() time.Time
}

func NewAttachmentService(
	goalRepository repository.GoalRepository,
	attachmentRepository repository.AttachmentRepository,
	teamRepository repository.TeamRepository,
	storage storage.Storage,
	cache *cache.Cache,
) *AttachmentService {
	return &AttachmentService{
		goalRepository:       goalRepository,
		attachmentRepository: attachmentRepository,
		teamRepository:       teamRepository,
		storage:              storage,
		cache:                cache,
		now:                  time.Now,
	}
}

// Add stores a link, note, milestone or an image referenced by URL.
func (s *AttachmentService) Add(ctx context.Context, userID, goalID string, in AttachmentInput) (*model.Attachment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	switch in.Type {
	case model.AttachmentTypeURL, model.AttachmentTypeImage:
		if in.URL == nil || *in.URL == "" {
			return nil, validation.FieldErrors{"url": "required"}
		}
	case model.AttachmentTypeNote:
		if in.Content == nil || *in.Content == "" {
			return nil, validation.FieldErrors{"content": "required"}
		}
	case model.AttachmentTypeMilestone:
		if in.Title == nil || *in.Title == "" {
			return nil, validation.FieldErrors{"title": "required"}
		}
	}

	if _, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID); err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		ID:            uuid.NewString(),
		GoalID:        goalID,
		Type:          in.Type,
		Title:         in.Title,
		URL:           in.URL,
		Content:       in.Content,
		MilestoneDate: in.MilestoneDate,
		CreatedAt:     s.now().UTC(),
	}

	err := s.attachmentRepository.Create(ctx, attachment)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	s.invalidate(goalID)
	return attachment, nil
}

// Upload stores an image under attachments/<goal>/<uuid>.<ext> and records
// it as an image attachment.
func (s *AttachmentService) Upload(ctx context.Context, userID, goalID string, title *string, file FileUpload) (*model.Attachment, error) {
	if _, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID); err != nil {
		return nil, err
	}

	attachment, err := s.upload(ctx, goalID, title, file)
	if err != nil {
		return nil, err
	}

	s.invalidate(goalID)
	return attachment, nil
}

func (s *AttachmentService) upload(ctx context.Context, goalID string, title *string, file FileUpload) (*model.Attachment, error) {
	ext, ok := validation.ImageExtension(file.Filename)
	if !ok {
		return nil, ErrInvalidFileType
	}

	path := fmt.Sprintf("attachments/%s/%s.%s", goalID, uuid.NewString(), ext)

	err := s.storage.Save(ctx, path, file.Body, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	if title == nil || *title == "" {
		name := file.Filename
		title = &name
	}

	url := s.storage.URL(path)
	attachment := &model.Attachment{
		ID:          uuid.NewString(),
		GoalID:      goalID,
		Type:        model.AttachmentTypeImage,
		Title:       title,
		URL:         &url,
		StoragePath: &path,
		CreatedAt:   s.now().UTC(),
	}

	err = s.attachmentRepository.Create(ctx, attachment)
	if err != nil {
		delErr := s.storage.Delete(ctx, path)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", path)
		}
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	return attachment, nil
}

// Delete removes the attachment and, for uploads, its stored object. A
// missing attachment is not an error.
func (s *AttachmentService) Delete(ctx context.Context, userID, attachmentID string) error {
	attachment, err := s.attachmentRepository.ByID(ctx, attachmentID)
	if errors.Is(err, repository.ErrAttachmentNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get attachment: %w", err)
	}

	if _, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, attachment.GoalID, userID); err != nil {
		return err
	}

	err = s.attachmentRepository.Delete(ctx, attachmentID)
	if err != nil && !errors.Is(err, repository.ErrAttachmentNotFound) {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.removeObject(ctx, attachment)
	s.invalidate(attachment.GoalID)
	return nil
}

func (s *AttachmentService) removeObject(ctx context.Context, a *model.Attachment) {
	if a.StoragePath == nil {
		return
	}

	err := s.storage.Delete(ctx, *a.StoragePath)
	if err != nil {
		slog.Warn("failed to delete attachment object", "error", err, "path", *a.StoragePath)
	}
}

// URL returns a link a browser can load. Private S3 buckets need a
// presigned URL; other stores serve the recorded URL.
func (s *AttachmentService) URL(ctx context.Context, a *model.Attachment) *string {
	if a.StoragePath == nil {
		return a.URL
	}

	s3Storage, ok := s.storage.(*storage.S3Storage)
	if !ok {
		return a.URL
	}

	url := s3Storage.PublicURL(ctx, *a.StoragePath)
	return &url
}

func (s *AttachmentService) invalidate(goalID string) {
	s.cache.Invalidate("goals")
	s.cache.Invalidate("goal", goalID)
}
