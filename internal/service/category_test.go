package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizons-app/horizons/internal/model"
)

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.register(t, "user@example.com")

	created, err := e.categories.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultCategories), created)

	created, err = e.categories.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)

	global, err := e.categories.List(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Len(t, global, len(model.DefaultCategories))
}

func TestCategoryPermissions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin@example.com")
	member := e.register(t, "member@example.com")
	outsider := e.register(t, "outsider@example.com")
	e.promote(t, admin)
	team := e.team(t, member)

	_, err := e.categories.Create(ctx, member.ID, CategoryInput{Name: "Global"})
	assert.ErrorIs(t, err, ErrAdminRequired)

	global, err := e.categories.Create(ctx, admin.ID, CategoryInput{Name: "Global", Color: "#123456"})
	require.NoError(t, err)
	assert.True(t, global.IsGlobal())

	scoped, err := e.categories.Create(ctx, member.ID, CategoryInput{TeamID: &team.ID, Name: "Team only"})
	require.NoError(t, err)
	assert.Equal(t, defaultCategoryColor, scoped.Color)

	_, err = e.categories.Create(ctx, outsider.ID, CategoryInput{TeamID: &team.ID, Name: "Intruder"})
	assert.ErrorIs(t, err, ErrNotTeamMember)

	_, err = e.categories.Update(ctx, member.ID, global.ID, CategoryUpdate{Name: ptr("Mine")})
	assert.ErrorIs(t, err, ErrAdminRequired)

	renamed, err := e.categories.Update(ctx, member.ID, scoped.ID, CategoryUpdate{Name: ptr("Renamed"), SortOrder: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.Equal(t, 3, renamed.SortOrder)

	_, err = e.categories.Update(ctx, member.ID, scoped.ID, CategoryUpdate{Color: ptr("red")})
	assert.Error(t, err)

	forTeam, err := e.categories.List(ctx, member.ID, team.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Global", "Renamed"}, lo.Map(forTeam, func(c *model.Category, _ int) string { return c.Name }))

	onlyGlobal, err := e.categories.List(ctx, outsider.ID, "")
	require.NoError(t, err)
	require.Len(t, onlyGlobal, 1)

	_, err = e.categories.List(ctx, outsider.ID, team.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)

	assert.ErrorIs(t, e.categories.Delete(ctx, outsider.ID, scoped.ID), ErrNotTeamMember)
	require.NoError(t, e.categories.Delete(ctx, member.ID, scoped.ID))
	assert.ErrorIs(t, e.categories.Delete(ctx, member.ID, scoped.ID), ErrCategoryNotFound)

	// Revoking admin takes effect without a new session.
	require.NoError(t, e.profileRepo.SetAppAdmin(ctx, admin.ID, false))
	assert.ErrorIs(t, e.categories.Delete(ctx, admin.ID, global.ID), ErrAdminRequired)
}
