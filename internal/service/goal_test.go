package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func TestCreateGoal(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	outsider := e.register(t, "outsider@example.com")
	team := e.team(t, owner)

	goal, err := e.goals.Create(ctx, owner.ID, GoalInput{
		TeamID:      team.ID,
		Year:        2025,
		Title:       " Read books ",
		GoalType:    model.GoalTypeWeekly,
		TargetCount: ptr(12),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Read books", goal.Title)
	assert.Equal(t, owner.ID, goal.UserID)
	assert.Nil(t, goal.TargetCount, "target count only applies to milestone goals")
	assert.False(t, goal.IsCompleted)

	_, err = e.goals.Create(ctx, outsider.ID, GoalInput{
		TeamID: team.ID, Year: 2025, Title: "x", GoalType: model.GoalTypeSingle,
	}, nil)
	assert.ErrorIs(t, err, ErrNotTeamMember)

	_, err = e.goals.Create(ctx, owner.ID, GoalInput{TeamID: team.ID, Year: 2025, GoalType: "daily"}, nil)
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "required", fields["title"])
	assert.Equal(t, "oneof", fields["goal_type"])
}

func TestCreateGoalCategoryScope(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	other := e.register(t, "other@example.com")
	team := e.team(t, owner)
	otherTeam := e.team(t, other)

	foreign, err := e.categories.Create(ctx, other.ID, CategoryInput{TeamID: &otherTeam.ID, Name: "Foreign"})
	require.NoError(t, err)
	own, err := e.categories.Create(ctx, owner.ID, CategoryInput{TeamID: &team.ID, Name: "Own"})
	require.NoError(t, err)

	_, err = e.goals.Create(ctx, owner.ID, GoalInput{
		TeamID: team.ID, Year: 2025, Title: "x", GoalType: model.GoalTypeSingle, CategoryID: &foreign.ID,
	}, nil)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	goal, err := e.goals.Create(ctx, owner.ID, GoalInput{
		TeamID: team.ID, Year: 2025, Title: "x", GoalType: model.GoalTypeSingle, CategoryID: &own.ID,
	}, nil)
	require.NoError(t, err)

	loaded, err := e.goals.Goal(ctx, owner.ID, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Category)
	assert.Equal(t, "Own", loaded.Category.Name)
}

func TestCreateGoalWithImage(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)

	goal, err := e.goals.Create(ctx, owner.ID, GoalInput{
		TeamID: team.ID, Year: 2025, Title: "Paint", GoalType: model.GoalTypeSingle,
	}, pngUpload("canvas.PNG"))
	require.NoError(t, err)

	loaded, err := e.goals.Goal(ctx, owner.ID, goal.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Attachments, 1)

	a := loaded.Attachments[0]
	assert.Equal(t, model.AttachmentTypeImage, a.Type)
	require.NotNil(t, a.StoragePath)
	assert.True(t, strings.HasPrefix(*a.StoragePath, "attachments/"+goal.ID+"/"))
	assert.True(t, strings.HasSuffix(*a.StoragePath, ".png"))
	assert.True(t, e.storage.Has(*a.StoragePath))

	// A rejected upload does not undo the goal.
	other, err := e.goals.Create(ctx, owner.ID, GoalInput{
		TeamID: team.ID, Year: 2025, Title: "Script", GoalType: model.GoalTypeSingle,
	}, &FileUpload{Filename: "run.sh", Body: strings.NewReader("#!/bin/sh")})
	require.NoError(t, err)

	loaded, err = e.goals.Goal(ctx, owner.ID, other.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Attachments)

	require.NoError(t, e.goals.Delete(ctx, owner.ID, goal.ID))
	assert.False(t, e.storage.Has(*a.StoragePath))
}

func TestGoalVisibility(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	mate := e.register(t, "mate@example.com")
	outsider := e.register(t, "outsider@example.com")
	team := e.team(t, owner, mate)

	shared := e.goal(t, owner, team, model.GoalTypeSingle, true)
	private := e.goal(t, owner, team, model.GoalTypeSingle, false)

	goals, err := e.goals.Goals(ctx, mate.ID, team.ID, 2025)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, shared.ID, goals[0].ID)
	assert.NotNil(t, goals[0].Profile)

	goals, err = e.goals.Goals(ctx, owner.ID, team.ID, 2025)
	require.NoError(t, err)
	assert.Len(t, goals, 2)

	mine, err := e.goals.MyGoals(ctx, mate.ID, team.ID, 2025)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = e.goals.Goal(ctx, mate.ID, shared.ID)
	assert.NoError(t, err)

	_, err = e.goals.Goal(ctx, mate.ID, private.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = e.goals.Goal(ctx, outsider.ID, shared.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = e.goals.Goals(ctx, outsider.ID, team.ID, 2025)
	assert.ErrorIs(t, err, ErrNotTeamMember)

	_, err = e.goals.Update(ctx, mate.ID, shared.ID, GoalUpdate{Title: ptr("mine now")}, nil)
	assert.ErrorIs(t, err, ErrNotGoalOwner)

	assert.ErrorIs(t, e.goals.Delete(ctx, mate.ID, shared.ID), ErrNotGoalOwner)
}

func TestGoalMutationsHideInvisibleGoals(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	mate := e.register(t, "mate@example.com")
	outsider := e.register(t, "outsider@example.com")
	team := e.team(t, owner, mate)

	private := e.goal(t, owner, team, model.GoalTypeWeekly, false)
	shared := e.goal(t, owner, team, model.GoalTypeWeekly, true)

	tests := []struct {
		name   string
		userID string
		goalID string
		want   error
	}{
		{"outsider private", outsider.ID, private.ID, repository.ErrGoalNotFound},
		{"outsider shared", outsider.ID, shared.ID, repository.ErrGoalNotFound},
		{"mate private", mate.ID, private.ID, repository.ErrGoalNotFound},
		{"mate shared", mate.ID, shared.ID, ErrNotGoalOwner},
		{"missing", outsider.ID, "no-such-goal", repository.ErrGoalNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.goals.Update(ctx, tt.userID, tt.goalID, GoalUpdate{Title: ptr("taken")}, nil)
			assert.ErrorIs(t, err, tt.want)

			_, err = e.progress.ToggleWeek(ctx, tt.userID, tt.goalID, 1, true)
			assert.ErrorIs(t, err, tt.want)

			_, err = e.attachments.Add(ctx, tt.userID, tt.goalID, AttachmentInput{Type: model.AttachmentTypeNote, Content: ptr("hi")})
			assert.ErrorIs(t, err, tt.want)

			assert.ErrorIs(t, e.goals.Delete(ctx, tt.userID, tt.goalID), tt.want)
		})
	}

	loaded, err := e.goals.Goal(ctx, owner.ID, private.ID)
	require.NoError(t, err)
	assert.Equal(t, private.Title, loaded.Title)
	assert.Empty(t, loaded.ProgressEntries)
}

func TestGoalListInvalidatedByMutation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)

	first := e.goal(t, owner, team, model.GoalTypeSingle, false)
	goals, err := e.goals.Goals(ctx, owner.ID, team.ID, 2025)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	e.goal(t, owner, team, model.GoalTypeWeekly, false)
	goals, err = e.goals.Goals(ctx, owner.ID, team.ID, 2025)
	require.NoError(t, err)
	assert.Len(t, goals, 2)

	_, err = e.goals.Update(ctx, owner.ID, first.ID, GoalUpdate{Title: ptr("Renamed")}, nil)
	require.NoError(t, err)

	loaded, err := e.goals.Goal(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Title)
}

func TestUpdateGoal(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)
	goal := e.goal(t, owner, team, model.GoalTypeSingle, false)

	updated, err := e.goals.Update(ctx, owner.ID, goal.ID, GoalUpdate{
		GoalType:     ptr(model.GoalTypeMilestone),
		TargetCount:  ptr(5),
		IsShared:     ptr(true),
		DeadlineDate: ptr("2025-06-30"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.GoalTypeMilestone, updated.GoalType)
	assert.Equal(t, ptr(5), updated.TargetCount)
	assert.True(t, updated.IsShared)
	assert.Equal(t, ptr("2025-06-30"), updated.DeadlineDate)
	assert.Equal(t, owner.ID, updated.UserID)

	updated, err = e.goals.Update(ctx, owner.ID, goal.ID, GoalUpdate{DeadlineDate: ptr("")}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.DeadlineDate)

	_, err = e.goals.Update(ctx, owner.ID, goal.ID, GoalUpdate{DeadlineDate: ptr("30-06-2025")}, nil)
	var fields validation.FieldErrors
	assert.ErrorAs(t, err, &fields)

	stored, err := e.goalRepo.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DeadlineDate)
}

func TestCompletionAndAbandonmentExclusive(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)
	goal := e.goal(t, owner, team, model.GoalTypeSingle, false)

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := e.goals.SetCompleted(ctx, owner.ID, goal.ID, true, &at)
	require.NoError(t, err)

	stored, err := e.goalRepo.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, at.Equal(*stored.CompletedAt))

	_, err = e.goals.MarkNotCompleted(ctx, owner.ID, goal.ID, ptr("no time"))
	require.NoError(t, err)

	stored, err = e.goalRepo.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)
	assert.Nil(t, stored.CompletedAt)
	assert.True(t, stored.IsNotCompleted)
	assert.Equal(t, ptr("no time"), stored.NotCompletedReason)

	_, err = e.goals.SetCompleted(ctx, owner.ID, goal.ID, true, nil)
	require.NoError(t, err)

	stored, err = e.goalRepo.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	assert.False(t, stored.IsNotCompleted)
	assert.Nil(t, stored.NotCompletedReason)

	_, err = e.goals.SetCompleted(ctx, owner.ID, goal.ID, false, nil)
	require.NoError(t, err)

	stored, err = e.goalRepo.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)
	assert.Nil(t, stored.CompletedAt)

	_, err = e.goals.MarkNotCompleted(ctx, owner.ID, goal.ID, nil)
	require.NoError(t, err)
	_, err = e.goals.UnmarkNotCompleted(ctx, owner.ID, goal.ID)
	require.NoError(t, err)

	stored, err = e.goalRepo.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsNotCompleted)
	assert.Nil(t, stored.NotCompletedAt)
}

func TestCopyToNextYear(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	team := e.team(t, owner)
	goal := e.goal(t, owner, team, model.GoalTypeWeekly, true)

	_, err := e.progress.ToggleWeek(ctx, owner.ID, goal.ID, 3, true)
	require.NoError(t, err)
	_, err = e.goals.SetCompleted(ctx, owner.ID, goal.ID, true, nil)
	require.NoError(t, err)

	copied, err := e.goals.CopyToNextYear(ctx, owner.ID, goal.ID)
	require.NoError(t, err)
	assert.NotEqual(t, goal.ID, copied.ID)
	assert.Equal(t, 2026, copied.Year)
	assert.Equal(t, goal.Title, copied.Title)
	assert.True(t, copied.IsShared)
	assert.False(t, copied.IsCompleted)

	loaded, err := e.goals.Goal(ctx, owner.ID, copied.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.ProgressEntries)

	next, err := e.goals.Goals(ctx, owner.ID, team.ID, 2026)
	require.NoError(t, err)
	assert.Len(t, next, 1)
}
