package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/config"
	"github.com/horizons-app/horizons/internal/db"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Storage           storage.Storage
	Cache             *cache.Cache
	AuthService       *service.AuthService
	ProfileService    *service.ProfileService
	TeamService       *service.TeamService
	CategoryService   *service.CategoryService
	GoalService       *service.GoalService
	ProgressService   *service.ProgressService
	AttachmentService *service.AttachmentService
	FeedbackService   *service.FeedbackService
	ReviewService     *service.ReviewService
}

// New connects to the database, applies migrations and wires every service
// against S3 storage.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, fileStorage), nil
}

// Wire builds repositories and services on an open, migrated database.
func Wire(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	teamRepository := repository.NewTeamRepository(database)
	categoryRepository := repository.NewCategoryRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	progressEntryRepository := repository.NewProgressEntryRepository(database)
	attachmentRepository := repository.NewAttachmentRepository(database)
	feedbackRepository := repository.NewFeedbackRepository(database)

	queryCache := cache.New(cfg.CacheTTL)

	// Services
	authService := service.NewAuthService(
		database,
		userRepository,
		profileRepository,
		cfg.JWTSecret,
		cfg.CookieSecure,
		cfg.JWTExpiry,
	)
	attachmentService := service.NewAttachmentService(goalRepository, attachmentRepository, teamRepository, fileStorage, queryCache)
	goalService := service.NewGoalService(
		goalRepository,
		progressEntryRepository,
		attachmentRepository,
		categoryRepository,
		profileRepository,
		teamRepository,
		attachmentService,
		queryCache,
	)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Storage:           fileStorage,
		Cache:             queryCache,
		AuthService:       authService,
		ProfileService:    service.NewProfileService(profileRepository, fileStorage, queryCache),
		TeamService:       service.NewTeamService(database, teamRepository, profileRepository, queryCache),
		CategoryService:   service.NewCategoryService(categoryRepository, teamRepository, profileRepository, queryCache),
		GoalService:       goalService,
		ProgressService:   service.NewProgressService(goalRepository, progressEntryRepository, teamRepository, queryCache),
		AttachmentService: attachmentService,
		FeedbackService:   service.NewFeedbackService(feedbackRepository, profileRepository, queryCache),
		ReviewService:     service.NewReviewService(goalRepository, progressEntryRepository, teamRepository, profileRepository),
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
