package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

type GoalInput struct {
	TeamID       string         `json:"team_id" validate:"required"`
	CategoryID   *string        `json:"category_id"`
	Year         int            `json:"year" validate:"required,min=2000,max=2100"`
	Title        string         `json:"title" validate:"required,max=200"`
	Description  *string        `json:"description" validate:"omitempty,max=5000"`
	GoalType     model.GoalType `json:"goal_type" validate:"required,oneof=single weekly milestone"`
	TargetCount  *int           `json:"target_count" validate:"omitempty,min=1,max=10000"`
	IsShared     bool           `json:"is_shared"`
	DeadlineDate *string        `json:"deadline_date" validate:"omitempty,isodate"`
}

// GoalUpdate holds the fields a client may change. Nil means unchanged; an
// empty CategoryID or DeadlineDate clears the value.
type GoalUpdate struct {
	CategoryID   *string         `json:"category_id"`
	Year         *int            `json:"year" validate:"omitempty,min=2000,max=2100"`
	Title        *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string         `json:"description" validate:"omitempty,max=5000"`
	GoalType     *model.GoalType `json:"goal_type" validate:"omitempty,oneof=single weekly milestone"`
	TargetCount  *int            `json:"target_count" validate:"omitempty,min=1,max=10000"`
	IsShared     *bool           `json:"is_shared"`
	DeadlineDate *string         `json:"deadline_date"`
}

type GoalService struct {
	goalRepository          repository.GoalRepository
	progressEntryRepository repository.ProgressEntryRepository
	attachmentRepository    repository.AttachmentRepository
	categoryRepository      repository.CategoryRepository
	profileRepository       repository.ProfileRepository
	teamRepository          repository.TeamRepository
	attachmentService       *AttachmentService
	cache                   *cache.Cache
	now                     func() time.Time
}

func NewGoalService(
	goalRepository repository.GoalRepository,
	progressEntryRepository repository.ProgressEntryRepository,
	attachmentRepository repository.AttachmentRepository,
	categoryRepository repository.CategoryRepository,
	profileRepository repository.ProfileRepository,
	teamRepository repository.TeamRepository,
	attachmentService *AttachmentService,
	cache *cache.Cache,
) *GoalService {
	return &GoalService{
		goalRepository:          goalRepository,
		progressEntryRepository: progressEntryRepository,
		attachmentRepository:    attachmentRepository,
		categoryRepository:      categoryRepository,
		profileRepository:       profileRepository,
		teamRepository:          teamRepository,
		attachmentService:       attachmentService,
		cache:                   cache,
		now:                     time.Now,
	}
}

// Goals returns the caller's goals and the shared goals of teammates for one
// team and year, newest first.
func (s *GoalService) Goals(ctx context.Context, userID, teamID string, year int) ([]*model.GoalWithRelations, error) {
	err := requireMember(ctx, s.teamRepository, teamID, userID)
	if err != nil {
		return nil, err
	}

	key := cache.Key{"goals", teamID, strconv.Itoa(year), userID}
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]*model.GoalWithRelations, error) {
		goals, err := s.goalRepository.Visible(ctx, teamID, year, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get goals: %w", err)
		}
		return s.withRelations(ctx, goals)
	})
}

// MyGoals returns only the caller's own goals for one team and year.
func (s *GoalService) MyGoals(ctx context.Context, userID, teamID string, year int) ([]*model.GoalWithRelations, error) {
	err := requireMember(ctx, s.teamRepository, teamID, userID)
	if err != nil {
		return nil, err
	}

	key := cache.Key{"goals", "my", teamID, strconv.Itoa(year), userID}
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]*model.GoalWithRelations, error) {
		goals, err := s.goalRepository.Owned(ctx, teamID, year, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get goals: %w", err)
		}
		return s.withRelations(ctx, goals)
	})
}

// Goal returns one goal with relations. Goals the caller may not see are
// reported as not found.
func (s *GoalService) Goal(ctx context.Context, userID, goalID string) (*model.GoalWithRelations, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	goal, err := cache.Fetch(ctx, s.cache, cache.Key{"goal", goalID}, func(ctx context.Context) (*model.GoalWithRelations, error) {
		g, err := s.goalRepository.ByID(ctx, goalID)
		if err != nil {
			return nil, err
		}

		loaded, err := s.withRelations(ctx, []*model.Goal{g})
		if err != nil {
			return nil, err
		}
		return loaded[0], nil
	})
	if err != nil {
		return nil, err
	}

	if goal.UserID == userID {
		return goal, nil
	}
	if !goal.IsShared {
		return nil, repository.ErrGoalNotFound
	}

	err = requireMember(ctx, s.teamRepository, goal.TeamID, userID)
	if errors.Is(err, ErrNotTeamMember) {
		return nil, repository.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// withRelations loads categories, owner profiles, progress entries and
// attachments for goals concurrently and stitches them together.
func (s *GoalService) withRelations(ctx context.Context, goals []*model.Goal) ([]*model.GoalWithRelations, error) {
	if len(goals) == 0 {
		return []*model.GoalWithRelations{}, nil
	}

	goalIDs := lo.Map(goals, func(g *model.Goal, _ int) string { return g.ID })
	userIDs := lo.Uniq(lo.Map(goals, func(g *model.Goal, _ int) string { return g.UserID }))
	categoryIDs := lo.Uniq(lo.FilterMap(goals, func(g *model.Goal, _ int) (string, bool) {
		if g.CategoryID == nil {
			return "", false
		}
		return *g.CategoryID, true
	}))

	var (
		categories  []*model.Category
		profiles    []*model.Profile
		entries     []*model.ProgressEntry
		attachments []*model.Attachment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepository.ByIDs(gctx, categoryIDs)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profileRepository.ByIDs(gctx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.progressEntryRepository.ByGoalIDs(gctx, goalIDs)
		return err
	})
	g.Go(func() error {
		var err error
		attachments, err = s.attachmentRepository.ByGoalIDs(gctx, goalIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load goal relations: %w", err)
	}

	categoryByID := lo.KeyBy(categories, func(c *model.Category) string { return c.ID })
	profileByID := lo.KeyBy(profiles, func(p *model.Profile) string { return p.ID })
	entriesByGoal := lo.GroupBy(entries, func(e *model.ProgressEntry) string { return e.GoalID })
	attachmentsByGoal := lo.GroupBy(attachments, func(a *model.Attachment) string { return a.GoalID })

	for _, a := range attachments {
		a.URL = s.attachmentService.URL(ctx, a)
	}

	result := make([]*model.GoalWithRelations, 0, len(goals))
	for _, goal := range goals {
		gw := &model.GoalWithRelations{
			Goal:            *goal,
			Profile:         profileByID[goal.UserID],
			ProgressEntries: entriesByGoal[goal.ID],
			Attachments:     attachmentsByGoal[goal.ID],
		}
		if goal.CategoryID != nil {
			gw.Category = categoryByID[*goal.CategoryID]
		}
		if gw.ProgressEntries == nil {
			gw.ProgressEntries = []*model.ProgressEntry{}
		}
		if gw.Attachments == nil {
			gw.Attachments = []*model.Attachment{}
		}
		result = append(result, gw)
	}

	return result, nil
}

// Create stores a new goal owned by the caller. An optional image is
// uploaded afterwards; its failure is logged and does not undo the goal.
func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput, file *FileUpload) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	in.Title = validation.NormalizeName(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	err := requireMember(ctx, s.teamRepository, in.TeamID, userID)
	if err != nil {
		return nil, err
	}

	err = s.checkCategory(ctx, in.CategoryID, in.TeamID)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:           uuid.NewString(),
		UserID:       userID,
		TeamID:       in.TeamID,
		CategoryID:   in.CategoryID,
		Year:         in.Year,
		Title:        in.Title,
		Description:  in.Description,
		GoalType:     in.GoalType,
		TargetCount:  in.TargetCount,
		IsShared:     in.IsShared,
		DeadlineDate: in.DeadlineDate,
		CreatedAt:    s.now().UTC(),
	}
	normalizeGoal(goal)

	err = s.goalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGoalCreateFailed, err)
	}

	s.attachFile(ctx, goal.ID, file)
	s.invalidate(goal.ID)
	return goal, nil
}

// Update applies the changed fields. Owner, team and creation time cannot be
// changed here.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, upd GoalUpdate, file *FileUpload) (*model.Goal, error) {
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}

	goal, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}

	if upd.CategoryID != nil {
		goal.CategoryID = upd.CategoryID
		if *upd.CategoryID == "" {
			goal.CategoryID = nil
		}
		if err := s.checkCategory(ctx, goal.CategoryID, goal.TeamID); err != nil {
			return nil, err
		}
	}
	if upd.Year != nil {
		goal.Year = *upd.Year
	}
	if upd.Title != nil {
		title := validation.NormalizeName(*upd.Title)
		if title == "" {
			return nil, validation.FieldErrors{"title": "required"}
		}
		goal.Title = title
	}
	if upd.Description != nil {
		goal.Description = upd.Description
	}
	if upd.GoalType != nil {
		goal.GoalType = *upd.GoalType
	}
	if upd.TargetCount != nil {
		goal.TargetCount = upd.TargetCount
	}
	if upd.IsShared != nil {
		goal.IsShared = *upd.IsShared
	}
	if upd.DeadlineDate != nil {
		goal.DeadlineDate = nil
		if *upd.DeadlineDate != "" {
			if !validation.ValidDate(*upd.DeadlineDate) {
				return nil, validation.FieldErrors{"deadline_date": "isodate"}
			}
			goal.DeadlineDate = upd.DeadlineDate
		}
	}
	normalizeGoal(goal)

	err = s.save(ctx, goal)
	if err != nil {
		return nil, err
	}

	s.attachFile(ctx, goal.ID, file)
	return goal, nil
}

// Delete removes the goal; progress and attachments cascade. Uploaded
// objects are removed best-effort.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	_, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return err
	}

	attachments, err := s.attachmentRepository.ByGoalIDs(ctx, []string{goalID})
	if err != nil {
		slog.Warn("failed to list attachments before goal delete", "error", err, "goal_id", goalID)
	}

	err = s.goalRepository.Delete(ctx, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	for _, a := range attachments {
		s.attachmentService.removeObject(ctx, a)
	}

	s.invalidate(goalID)
	return nil
}

// SetCompleted completes the goal at the given time, or now when at is nil.
// Reopening clears the completion time.
func (s *GoalService) SetCompleted(ctx context.Context, userID, goalID string, completed bool, at *time.Time) (*model.Goal, error) {
	goal, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}

	if completed {
		when := s.now().UTC()
		if at != nil {
			when = at.UTC()
		}
		goal.Complete(when)
	} else {
		goal.Reopen()
	}

	return goal, s.save(ctx, goal)
}

func (s *GoalService) MarkNotCompleted(ctx context.Context, userID, goalID string, reason *string) (*model.Goal, error) {
	goal, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}

	if reason != nil && *reason == "" {
		reason = nil
	}
	goal.Abandon(reason, s.now().UTC())

	return goal, s.save(ctx, goal)
}

func (s *GoalService) UnmarkNotCompleted(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}

	goal.Unabandon()

	return goal, s.save(ctx, goal)
}

// CopyToNextYear creates a fresh copy of the goal for the following year.
// Progress, attachments and completion state are not copied.
func (s *GoalService) CopyToNextYear(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	source, err := ownedGoal(ctx, s.goalRepository, s.teamRepository, goalID, userID)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:           uuid.NewString(),
		UserID:       source.UserID,
		TeamID:       source.TeamID,
		CategoryID:   source.CategoryID,
		Year:         source.Year + 1,
		Title:        source.Title,
		Description:  source.Description,
		GoalType:     source.GoalType,
		TargetCount:  source.TargetCount,
		IsShared:     source.IsShared,
		DeadlineDate: source.DeadlineDate,
		CreatedAt:    s.now().UTC(),
	}

	err = s.goalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGoalCreateFailed, err)
	}

	s.invalidate(goal.ID)
	return goal, nil
}

func (s *GoalService) save(ctx context.Context, goal *model.Goal) error {
	err := s.goalRepository.Update(ctx, goal)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	s.invalidate(goal.ID)
	return nil
}

func (s *GoalService) attachFile(ctx context.Context, goalID string, file *FileUpload) {
	if file == nil {
		return
	}

	_, err := s.attachmentService.upload(ctx, goalID, nil, *file)
	if err != nil {
		slog.Error("failed to upload goal attachment", "error", err, "goal_id", goalID)
	}
}

// checkCategory accepts a global category or one scoped to teamID.
func (s *GoalService) checkCategory(ctx context.Context, categoryID *string, teamID string) error {
	if categoryID == nil {
		return nil
	}

	category, err := s.categoryRepository.ByID(ctx, *categoryID)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}

	if !category.IsGlobal() && *category.TeamID != teamID {
		return ErrCategoryNotFound
	}

	return nil
}

func (s *GoalService) invalidate(goalID string) {
	s.cache.Invalidate("goals")
	s.cache.Invalidate("goal", goalID)
}

// normalizeGoal keeps target_count on milestone goals only.
func normalizeGoal(g *model.Goal) {
	if g.GoalType != model.GoalTypeMilestone {
		g.TargetCount = nil
	}
}

// ownedGoal loads a goal the caller may change. Callers who cannot see the
// goal get ErrGoalNotFound, the same answer a read would give.
func ownedGoal(ctx context.Context, goals repository.GoalRepository, teams repository.TeamRepository, goalID, userID string) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	goal, err := goals.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.UserID == userID {
		return goal, nil
	}
	if !goal.IsShared {
		return nil, repository.ErrGoalNotFound
	}

	err = requireMember(ctx, teams, goal.TeamID, userID)
	if errors.Is(err, ErrNotTeamMember) {
		return nil, repository.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return nil, ErrNotGoalOwner
}
