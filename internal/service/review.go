package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/progress"
	"github.com/horizons-app/horizons/internal/repository"
)

type TeamReview struct {
	TeamID   string           `json:"team_id"`
	TeamName string           `json:"team_name"`
	Summary  progress.Summary `json:"summary"`
}

type YearReview struct {
	Year    int              `json:"year"`
	Overall progress.Summary `json:"overall"`
	Teams   []TeamReview     `json:"teams"`
}

// ReviewService builds the admin year overview across all teams.
type ReviewService struct {
	goalRepository          repository.GoalRepository
	progressEntryRepository repository.ProgressEntryRepository
	teamRepository          repository.TeamRepository
	profileRepository       repository.ProfileRepository
}

func NewReviewService(
	goalRepository repository.GoalRepository,
	progressEntryRepository repository.ProgressEntryRepository,
	teamRepository repository.TeamRepository,
	profileRepository repository.ProfileRepository,
) *ReviewService {
	return &ReviewService{
		goalRepository:          goalRepository,
		progressEntryRepository: progressEntryRepository,
		teamRepository:          teamRepository,
		profileRepository:       profileRepository,
	}
}

func (s *ReviewService) YearReview(ctx context.Context, userID string, year int) (*YearReview, error) {
	if err := requireAppAdmin(ctx, s.profileRepository, userID); err != nil {
		return nil, err
	}

	goals, err := s.goalRepository.ByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}

	goalIDs := lo.Map(goals, func(g *model.Goal, _ int) string { return g.ID })
	entries, err := s.progressEntryRepository.ByGoalIDs(ctx, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress entries: %w", err)
	}
	entriesByGoal := lo.GroupBy(entries, func(e *model.ProgressEntry) string { return e.GoalID })

	withEntries := lo.Map(goals, func(g *model.Goal, _ int) *model.GoalWithRelations {
		return &model.GoalWithRelations{Goal: *g, ProgressEntries: entriesByGoal[g.ID]}
	})

	teamIDs := lo.Uniq(lo.Map(goals, func(g *model.Goal, _ int) string { return g.TeamID }))
	teams, err := s.teamRepository.ByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	byTeam := lo.GroupBy(withEntries, func(g *model.GoalWithRelations) string { return g.TeamID })
	review := &YearReview{
		Year:    year,
		Overall: progress.Summarize(withEntries),
		Teams:   make([]TeamReview, 0, len(teams)),
	}
	for _, t := range teams {
		review.Teams = append(review.Teams, TeamReview{
			TeamID:   t.ID,
			TeamName: t.Name,
			Summary:  progress.Summarize(byTeam[t.ID]),
		})
	}

	return review, nil
}
