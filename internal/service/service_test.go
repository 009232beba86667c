package service

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/db"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/storage"
)

const testPassword = "correct-battery-staple"

var pngBytes = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

type testEnv struct {
	db          *sqlx.DB
	storage     *storage.Memory
	cache       *cache.Cache
	profileRepo repository.ProfileRepository
	goalRepo    repository.GoalRepository
	auth        *AuthService
	profiles    *ProfileService
	teams       *TeamService
	categories  *CategoryService
	goals       *GoalService
	progress    *ProgressService
	attachments *AttachmentService
	feedback    *FeedbackService
	review      *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	users := repository.NewUserRepository(database)
	profiles := repository.NewProfileRepository(database)
	teams := repository.NewTeamRepository(database)
	categories := repository.NewCategoryRepository(database)
	goals := repository.NewGoalRepository(database)
	entries := repository.NewProgressEntryRepository(database)
	attachments := repository.NewAttachmentRepository(database)
	feedback := repository.NewFeedbackRepository(database)

	store := storage.NewMemory("http://localhost/uploads")
	c := cache.New(time.Minute)

	attachmentService := NewAttachmentService(goals, attachments, teams, store, c)

	return &testEnv{
		db:          database,
		storage:     store,
		cache:       c,
		profileRepo: profiles,
		goalRepo:    goals,
		auth:        NewAuthService(database, users, profiles, "test-secret-test-secret-test-secret", false, time.Hour),
		profiles:    NewProfileService(profiles, store, c),
		teams:       NewTeamService(database, teams, profiles, c),
		categories:  NewCategoryService(categories, teams, profiles, c),
		goals:       NewGoalService(goals, entries, attachments, categories, profiles, teams, attachmentService, c),
		progress:    NewProgressService(goals, entries, teams, c),
		attachments: attachmentService,
		feedback:    NewFeedbackService(feedback, profiles, c),
		review:      NewReviewService(goals, entries, teams, profiles),
	}
}

func (e *testEnv) register(t *testing.T, email string) *model.User {
	t.Helper()

	user, err := e.auth.Register(context.Background(), email, testPassword, "User "+email)
	require.NoError(t, err)
	return user
}

func (e *testEnv) promote(t *testing.T, user *model.User) {
	t.Helper()
	require.NoError(t, e.profileRepo.SetAppAdmin(context.Background(), user.ID, true))
}

// team creates a team owned by the first user and joins the others.
func (e *testEnv) team(t *testing.T, owner *model.User, members ...*model.User) *model.Team {
	t.Helper()
	ctx := context.Background()

	team, err := e.teams.Create(ctx, owner.ID, TeamInput{Name: "Familie"})
	require.NoError(t, err)
	for _, m := range members {
		_, err := e.teams.Join(ctx, m.ID, team.InviteCode)
		require.NoError(t, err)
	}
	return team
}

func (e *testEnv) goal(t *testing.T, owner *model.User, team *model.Team, goalType model.GoalType, shared bool) *model.Goal {
	t.Helper()

	goal, err := e.goals.Create(context.Background(), owner.ID, GoalInput{
		TeamID:   team.ID,
		Year:     2025,
		Title:    "Goal " + string(goalType),
		GoalType: goalType,
		IsShared: shared,
	}, nil)
	require.NoError(t, err)
	return goal
}

func pngUpload(name string) *FileUpload {
	return &FileUpload{Filename: name, ContentType: "image/png", Body: bytes.NewReader(pngBytes)}
}
