package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/progress"
	"github.com/horizons-app/horizons/internal/repository"
)

func TestToggleWeekKeepsOneEntry(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)
	goal := e.goal(t, owner, team, model.GoalTypeWeekly, false)

	first, err := e.progress.ToggleWeek(ctx, owner.ID, goal.ID, 10, true)
	require.NoError(t, err)
	assert.True(t, first.Achieved)

	second, err := e.progress.ToggleWeek(ctx, owner.ID, goal.ID, 10, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Achieved)

	_, err = e.progress.ToggleWeek(ctx, owner.ID, goal.ID, 11, true)
	require.NoError(t, err)

	loaded, err := e.goals.Goal(ctx, owner.ID, goal.ID)
	require.NoError(t, err)
	require.Len(t, loaded.ProgressEntries, 2)
	assert.Equal(t, 2, progress.Calculate(loaded))
}

func TestToggleWeekConcurrent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)
	goal := e.goal(t, owner, team, model.GoalTypeWeekly, false)

	var g errgroup.Group
	for i := range 20 {
		g.Go(func() error {
			_, err := e.progress.ToggleWeek(ctx, owner.ID, goal.ID, 7, i%2 == 0)
			return err
		})
	}
	require.NoError(t, g.Wait())

	var rows int
	err := e.db.GetContext(ctx, &rows, e.db.Rebind(
		"SELECT COUNT(*) FROM progress_entries WHERE goal_id = ? AND week_number = ?"), goal.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestToggleWeekRejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	mate := e.register(t, "mate@example.com")
	team := e.team(t, owner, mate)
	weekly := e.goal(t, owner, team, model.GoalTypeWeekly, true)
	single := e.goal(t, owner, team, model.GoalTypeSingle, true)

	tests := []struct {
		name   string
		userID string
		goalID string
		week   int
		want   error
	}{
		{"week zero", owner.ID, weekly.ID, 0, ErrInvalidWeek},
		{"week 53", owner.ID, weekly.ID, 53, ErrInvalidWeek},
		{"not weekly", owner.ID, single.ID, 1, ErrNotWeeklyGoal},
		{"not owner", mate.ID, weekly.ID, 1, ErrNotGoalOwner},
		{"anonymous", "", weekly.ID, 1, ErrNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.progress.ToggleWeek(ctx, tt.userID, tt.goalID, tt.week, true)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProgressEntries(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)
	weekly := e.goal(t, owner, team, model.GoalTypeWeekly, false)
	single := e.goal(t, owner, team, model.GoalTypeSingle, false)

	entry, err := e.progress.Add(ctx, owner.ID, weekly.ID, ProgressInput{
		EntryDate: "2025-01-06", WeekNumber: ptr(2), Note: ptr("ran 5k"), Achieved: true,
	})
	require.NoError(t, err)

	_, err = e.progress.Add(ctx, owner.ID, weekly.ID, ProgressInput{EntryDate: "2025-01-07", WeekNumber: ptr(2)})
	assert.ErrorIs(t, err, repository.ErrDuplicateWeek)

	_, err = e.progress.Add(ctx, owner.ID, single.ID, ProgressInput{EntryDate: "2025-01-07", WeekNumber: ptr(2)})
	assert.ErrorIs(t, err, ErrNotWeeklyGoal)

	updated, err := e.progress.Update(ctx, owner.ID, entry.ID, ProgressUpdate{Achieved: ptr(false), Note: ptr("rained")})
	require.NoError(t, err)
	assert.False(t, updated.Achieved)
	assert.Equal(t, ptr("rained"), updated.Note)
	assert.Equal(t, "2025-01-06", updated.EntryDate)

	require.NoError(t, e.progress.Delete(ctx, owner.ID, entry.ID))
	require.NoError(t, e.progress.Delete(ctx, owner.ID, entry.ID), "deleting a missing entry is a no-op")

	loaded, err := e.goals.Goal(ctx, owner.ID, weekly.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.ProgressEntries)
}
