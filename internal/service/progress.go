package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/progress"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

type ProgressInput struct {
	EntryDate  string  `json:"entry_date" validate:"required,isodate"`
	WeekNumber *int    `json:"week_number" validate:"omitempty,min=1,max=52"`
	Note       *string `json:"note" validate:"omitempty,max=2000"`
	Achieved   bool    `json:"achieved"`
}

type ProgressUpdate struct {
	EntryDate *string `json:"entry_date" validate:"omitempty,isodate"`
	Note      *string `json:"note" validate:"omitempty,max=2000"`
	Achieved  *bool   `json:"achieved"`
}

type ProgressService struct {
	goalRepository          repository.GoalRepository
	progressEntryRepository repository.ProgressEntryRepository
	teamRepository          repository.TeamRepository
	cache                   *cache.Cache
	now                     func() time.Time
}

func NewProgressService(
	goalRepository repository.GoalRepository,
	progressEntryRepository repository.ProgressEntryRepository,
	teamRepository repository.TeamRepository,
	cache *cache.Cache,
) *ProgressService {
	return &ProgressService{
		goalRepository:          goalRepository,
		progressEntryRepository: progressEntryRepository,
		teamRepository:          teamRepository,
		cache:                   cache,
		now:                     time.Now,
	}
}

func (s *ProgressService) Add(ctx context.Context, userID, goalID string, in ProgressInput) (*model.ProgressEntry, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	goal, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}

	if in.WeekNumber != nil && goal.GoalType != model.GoalTypeWeekly {
		return nil, ErrNotWeeklyGoal
	}

	entry := &model.ProgressEntry{
		ID:         uuid.NewString(),
		GoalID:     goalID,
		EntryDate:  in.EntryDate,
		WeekNumber: in.WeekNumber,
		Note:       in.Note,
		Achieved:   in.Achieved,
		CreatedAt:  s.now().UTC(),
	}

	err = s.progressEntryRepository.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateWeek) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create progress entry: %w", err)
	}

	s.invalidate(goalID)
	return entry, nil
}

func (s *ProgressService) Update(ctx context.Context, userID, entryID string, upd ProgressUpdate) (*model.ProgressEntry, error) {
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}

	entry, err := s.progressEntryRepository.ByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if _, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, entry.GoalID, userID); err != nil {
		return nil, err
	}

	if upd.EntryDate != nil {
		entry.EntryDate = *upd.EntryDate
	}
	if upd.Note != nil {
		entry.Note = upd.Note
	}
	if upd.Achieved != nil {
		entry.Achieved = *upd.Achieved
	}

	err = s.progressEntryRepository.Update(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress entry: %w", err)
	}

	s.invalidate(entry.GoalID)
	return entry, nil
}

// Delete removes an entry. A missing entry is not an error.
func (s *ProgressService) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := s.progressEntryRepository.ByID(ctx, entryID)
	if errors.Is(err, repository.ErrProgressEntryNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get progress entry: %w", err)
	}

	if _, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, entry.GoalID, userID); err != nil {
		return err
	}

	err = s.progressEntryRepository.Delete(ctx, entryID)
	if err != nil && !errors.Is(err, repository.ErrProgressEntryNotFound) {
		return fmt.Errorf("failed to delete progress entry: %w", err)
	}

	s.invalidate(entry.GoalID)
	return nil
}

// ToggleWeek sets the achieved state of one week of a weekly goal. The first
// toggle of a week creates its entry dated today.
func (s *ProgressService) ToggleWeek(ctx context.Context, userID, goalID string, week int, achieved bool) (*model.ProgressEntry, error) {
	if !progress.ValidWeek(week) {
		return nil, ErrInvalidWeek
	}

	goal, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal.GoalType != model.GoalTypeWeekly {
		return nil, ErrNotWeeklyGoal
	}

	now := s.now().UTC()
	entry, err := s.progressEntryRepository.UpsertWeek(ctx, &model.ProgressEntry{
		ID:         uuid.NewString(),
		GoalID:     goalID,
		EntryDate:  now.Format(validation.DateLayout),
		WeekNumber: &week,
		Achieved:   achieved,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle week: %w", err)
	}

	s.invalidate(goalID)
	return entry, nil
}

func (s *ProgressService) invalidate(goalID string) {
	s.cache.Invalidate("goals")
	s.cache.Invalidate("goal", goalID)
}
