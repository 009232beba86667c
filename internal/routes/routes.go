package routes

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/app"
	"github.com/horizons-app/horizons/internal/handler"
	"github.com/horizons-app/horizons/internal/middleware"
	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	cfg := app.Cfg

	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.ProfileService, cfg.UploadMaxBytes)
	team := handler.NewTeamHandler(app.TeamService)
	dashboard := handler.NewDashboardHandler(app.GoalService, app.CategoryService, cfg.CookieSecure)
	goal := handler.NewGoalHandler(app.GoalService, cfg.UploadMaxBytes)
	progress := handler.NewProgressHandler(app.ProgressService)
	attachment := handler.NewAttachmentHandler(app.AttachmentService, cfg.UploadMaxBytes)
	category := handler.NewCategoryHandler(app.CategoryService)
	feedback := handler.NewFeedbackHandler(app.FeedbackService)
	admin := handler.NewAdminHandler(app.ReviewService)

	requireAuth := middleware.RequireAuth
	requireAdmin := middleware.RequireAdmin

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Check)

	// Local uploads when running without S3
	if mem, ok := app.Storage.(*storage.Memory); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", mem))
	}

	// Auth (rate limited)
	rateLimit := middleware.RateLimit(middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow))

	mux.HandleFunc("POST /api/auth/register", rateLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimit(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/csrf", auth.CSRF)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", requireAuth(auth.Me))

	// Profile
	mux.HandleFunc("PATCH /api/profile", requireAuth(profile.Update))
	mux.HandleFunc("POST /api/profile/avatar", requireAuth(profile.UploadAvatar))

	// Teams
	mux.HandleFunc("GET /api/teams", requireAuth(team.List))
	mux.HandleFunc("POST /api/teams", requireAuth(team.Create))
	mux.HandleFunc("POST /api/teams/join", requireAuth(team.Join))
	mux.HandleFunc("GET /api/teams/{id}", requireAuth(team.Get))
	mux.HandleFunc("DELETE /api/teams/{id}", requireAuth(team.Delete))
	mux.HandleFunc("DELETE /api/teams/{id}/membership", requireAuth(team.Leave))
	mux.HandleFunc("GET /api/teams/{id}/dashboard", requireAuth(dashboard.Dashboard))
	mux.HandleFunc("GET /api/teams/{id}/goals", requireAuth(dashboard.Goals))

	// Goals
	mux.HandleFunc("POST /api/goals", requireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", requireAuth(goal.Get))
	mux.HandleFunc("PATCH /api/goals/{id}", requireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", requireAuth(goal.Delete))
	mux.HandleFunc("POST /api/goals/{id}/complete", requireAuth(goal.Complete))
	mux.HandleFunc("DELETE /api/goals/{id}/complete", requireAuth(goal.Reopen))
	mux.HandleFunc("POST /api/goals/{id}/not-completed", requireAuth(goal.MarkNotCompleted))
	mux.HandleFunc("DELETE /api/goals/{id}/not-completed", requireAuth(goal.UnmarkNotCompleted))
	mux.HandleFunc("POST /api/goals/{id}/copy", requireAuth(goal.Copy))

	// Progress
	mux.HandleFunc("POST /api/goals/{id}/progress", requireAuth(progress.Add))
	mux.HandleFunc("PUT /api/goals/{id}/weeks/{week}", requireAuth(progress.ToggleWeek))
	mux.HandleFunc("PATCH /api/progress/{id}", requireAuth(progress.Update))
	mux.HandleFunc("DELETE /api/progress/{id}", requireAuth(progress.Delete))

	// Attachments
	mux.HandleFunc("POST /api/goals/{id}/attachments", requireAuth(attachment.Add))
	mux.HandleFunc("DELETE /api/attachments/{id}", requireAuth(attachment.Delete))

	// Categories
	mux.HandleFunc("GET /api/categories", requireAuth(category.List))
	mux.HandleFunc("POST /api/categories", requireAuth(category.Create))
	mux.HandleFunc("PATCH /api/categories/{id}", requireAuth(category.Update))
	mux.HandleFunc("DELETE /api/categories/{id}", requireAuth(category.Delete))

	// Feedback
	mux.HandleFunc("GET /api/feedback", requireAuth(feedback.List))
	mux.HandleFunc("POST /api/feedback", requireAuth(feedback.Create))
	mux.HandleFunc("GET /api/feedback/{id}", requireAuth(feedback.Get))
	mux.HandleFunc("GET /api/feedback/{id}/comments", requireAuth(feedback.Comments))
	mux.HandleFunc("POST /api/feedback/{id}/comments", requireAuth(feedback.AddComment))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/admin/feedback", requireAdmin(feedback.AdminList))
	mux.HandleFunc("PATCH /api/admin/feedback/{id}", requireAdmin(feedback.UpdateStatus))
	mux.HandleFunc("GET /api/admin/year-review", requireAdmin(admin.YearReview))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, http.StatusNotFound, "not found")
	})

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Auth(app.AuthService),
		middleware.CSRFProtection(cfg.CookieSecure),
	)
}
