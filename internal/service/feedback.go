package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/markdown"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

// ScreenInfo is reported by the client; the server cannot observe it.
type ScreenInfo struct {
	Width          int `json:"width" validate:"min=0"`
	Height         int `json:"height" validate:"min=0"`
	ViewportWidth  int `json:"viewport_width" validate:"min=0"`
	ViewportHeight int `json:"viewport_height" validate:"min=0"`
}

type FeedbackInput struct {
	Type        string      `json:"type" validate:"required,oneof=bug feature question other"`
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"required,max=10000"`
	CurrentURL  *string     `json:"current_url" validate:"omitempty,max=2048"`
	Screen      *ScreenInfo `json:"screen"`
}

type CommentInput struct {
	Comment string `json:"comment" validate:"required,max=5000"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

type browserInfo struct {
	UserAgent    string `json:"userAgent"`
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
	Viewport     struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"viewport"`
}

type FeedbackService struct {
	feedbackRepository repository.FeedbackRepository
	profileRepository  repository.ProfileRepository
	cache              *cache.Cache
	now                func() time.Time
}

func NewFeedbackService(
	feedbackRepository repository.FeedbackRepository,
	profileRepository repository.ProfileRepository,
	cache *cache.Cache,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepository: feedbackRepository,
		profileRepository:  profileRepository,
		cache:              cache,
		now:                time.Now,
	}
}

// Create files a report. Browser details are stored as JSON built from the
// request user agent and the client's screen data.
func (s *FeedbackService) Create(ctx context.Context, userID string, in FeedbackInput, userAgent string) (*model.FeedbackReport, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	info := browserInfo{UserAgent: userAgent}
	if in.Screen != nil {
		info.ScreenWidth = in.Screen.Width
		info.ScreenHeight = in.Screen.Height
		info.Viewport.Width = in.Screen.ViewportWidth
		info.Viewport.Height = in.Screen.ViewportHeight
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode browser info: %w", err)
	}
	browser := string(raw)

	report := &model.FeedbackReport{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		CurrentURL:  in.CurrentURL,
		BrowserInfo: &browser,
		Status:      model.FeedbackStatusOpen,
		CreatedAt:   s.now().UTC(),
	}

	err = s.feedbackRepository.CreateReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback report: %w", err)
	}

	s.cache.Invalidate("feedback")
	return report, nil
}

// List returns the caller's reports, newest first, with comment counts.
func (s *FeedbackService) List(ctx context.Context, userID string) ([]*model.FeedbackReport, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	return cache.Fetch(ctx, s.cache, cache.Key{"feedback", "user", userID}, func(ctx context.Context) ([]*model.FeedbackReport, error) {
		reports, err := s.feedbackRepository.ReportsByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get feedback reports: %w", err)
		}
		if reports == nil {
			reports = []*model.FeedbackReport{}
		}
		return reports, nil
	})
}

// Detail returns one report with its author and comments. Only the author
// and app admins may read it.
func (s *FeedbackService) Detail(ctx context.Context, userID, reportID string) (*model.FeedbackReportWithRelations, error) {
	report, err := cache.Fetch(ctx, s.cache, cache.Key{"feedback", reportID}, func(ctx context.Context) (*model.FeedbackReportWithRelations, error) {
		r, err := s.feedbackRepository.ReportByID(ctx, reportID)
		if err != nil {
			return nil, err
		}

		comments, err := s.comments(ctx, reportID)
		if err != nil {
			return nil, err
		}

		profile, err := s.profileRepository.ByID(ctx, r.UserID)
		if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to get report author: %w", err)
		}

		html, err := markdown.ToHTML(r.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to render description: %w", err)
		}

		return &model.FeedbackReportWithRelations{
			FeedbackReport:  *r,
			DescriptionHTML: html,
			Profile:         profile,
			Comments:        comments,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.canRead(ctx, userID, report.UserID); err != nil {
		return nil, err
	}

	return report, nil
}

// Comments returns the comments of a report in the order they were written.
func (s *FeedbackService) Comments(ctx context.Context, userID, reportID string) ([]*model.FeedbackComment, error) {
	report, err := s.feedbackRepository.ReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := s.canRead(ctx, userID, report.UserID); err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, cache.Key{"feedback-comments", reportID}, func(ctx context.Context) ([]*model.FeedbackComment, error) {
		return s.comments(ctx, reportID)
	})
}

func (s *FeedbackService) comments(ctx context.Context, reportID string) ([]*model.FeedbackComment, error) {
	comments, err := s.feedbackRepository.Comments(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	userIDs := lo.Uniq(lo.Map(comments, func(c *model.FeedbackComment, _ int) string { return c.UserID }))
	profiles, err := s.profileRepository.ByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment authors: %w", err)
	}

	profileByID := lo.KeyBy(profiles, func(p *model.Profile) string { return p.ID })
	for _, c := range comments {
		c.Profile = profileByID[c.UserID]
	}

	if comments == nil {
		comments = []*model.FeedbackComment{}
	}
	return comments, nil
}

// AddComment appends a comment. Comments by app admins are flagged.
func (s *FeedbackService) AddComment(ctx context.Context, userID, reportID string, in CommentInput) (*model.FeedbackComment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	report, err := s.feedbackRepository.ReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := s.canRead(ctx, userID, report.UserID); err != nil {
		return nil, err
	}

	admin, err := s.profileRepository.IsAppAdmin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify admin status: %w", err)
	}

	comment := &model.FeedbackComment{
		ID:             uuid.NewString(),
		ReportID:       reportID,
		UserID:         userID,
		Comment:        in.Comment,
		IsAdminComment: admin,
		CreatedAt:      s.now().UTC(),
	}

	err = s.feedbackRepository.CreateComment(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.invalidate(reportID)
	return comment, nil
}

// AdminList returns every report, newest first.
func (s *FeedbackService) AdminList(ctx context.Context, userID string) ([]*model.FeedbackReport, error) {
	if err := requireAppAdmin(ctx, s.profileRepository, userID); err != nil {
		return nil, err
	}

	reports, err := s.feedbackRepository.AllReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback reports: %w", err)
	}
	if reports == nil {
		reports = []*model.FeedbackReport{}
	}
	return reports, nil
}

func (s *FeedbackService) UpdateStatus(ctx context.Context, userID, reportID string, in StatusInput) error {
	if err := requireAppAdmin(ctx, s.profileRepository, userID); err != nil {
		return err
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	err := s.feedbackRepository.UpdateStatus(ctx, reportID, in.Status)
	if err != nil {
		return err
	}

	s.invalidate(reportID)
	return nil
}

func (s *FeedbackService) canRead(ctx context.Context, userID, authorID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if userID == authorID {
		return nil
	}

	err := requireAppAdmin(ctx, s.profileRepository, userID)
	if errors.Is(err, ErrAdminRequired) {
		return ErrFeedbackForbidden
	}
	return err
}

func (s *FeedbackService) invalidate(reportID string) {
	s.cache.Invalidate("feedback")
	s.cache.Invalidate("feedback-comments", reportID)
}
