package handler

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/horizons-app/horizons/internal/dashboard"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/progress"
	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type dashboardGoal struct {
	*model.GoalWithRelations
	Progress  int  `json:"progress"`
	IsOverdue bool `json:"is_overdue"`
}

type dashboardResponse struct {
	Year        int                   `json:"year"`
	Preferences dashboard.Preferences `json:"preferences"`
	CategoryID  string                `json:"category_id,omitempty"`
	Goals       []dashboardGoal       `json:"goals"`
	Categories  []*model.Category     `json:"categories"`
	Summary     progress.Summary      `json:"summary"`
	CurrentWeek int                   `json:"current_week"`
}

type DashboardHandler struct {
	goalService     *service.GoalService
	categoryService *service.CategoryService
	secureCookies   bool
	now             func() time.Time
}

func NewDashboardHandler(goalService *service.GoalService, categoryService *service.CategoryService, secureCookies bool) *DashboardHandler {
	return &DashboardHandler{
		goalService:     goalService,
		categoryService: categoryService,
		secureCookies:   secureCookies,
		now:             time.Now,
	}
}

// Dashboard returns a team's goals for one year, filtered and sorted by the
// caller's saved preferences, with progress and the team's categories.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := session.UserID(ctx)
	teamID := r.PathValue("id")
	now := h.now().UTC()

	year, ok := yearParam(w, r, now)
	if !ok {
		return
	}
	prefs := dashboard.ResolvePreferences(w, r, h.secureCookies)
	categoryID := r.URL.Query().Get("category")

	var (
		goals      []*model.GoalWithRelations
		categories []*model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = h.goalService.Goals(gctx, userID, teamID, year)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = h.categoryService.List(gctx, userID, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err, "load dashboard")
		return
	}

	today := now.Format(dashboard.DateLayout)
	derived := dashboard.Derive(goals, dashboard.Options{
		Filter:     prefs.Filter,
		Sort:       prefs.Sort,
		CategoryID: categoryID,
		UserID:     userID,
		Today:      today,
	})

	items := make([]dashboardGoal, 0, len(derived))
	for _, goal := range derived {
		items = append(items, dashboardGoal{
			GoalWithRelations: goal,
			Progress:          progress.Calculate(goal),
			IsOverdue:         dashboard.IsOverdue(&goal.Goal, today),
		})
	}

	render.Data(w, http.StatusOK, dashboardResponse{
		Year:        year,
		Preferences: prefs,
		CategoryID:  categoryID,
		Goals:       items,
		Categories:  categories,
		Summary:     progress.Summarize(derived),
		CurrentWeek: progress.CurrentWeekNumber(now),
	})
}

// Goals lists a team's goals for one year without derivation. mine=1
// restricts the list to the caller's own goals.
func (h *DashboardHandler) Goals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := session.UserID(ctx)
	teamID := r.PathValue("id")

	year, ok := yearParam(w, r, h.now().UTC())
	if !ok {
		return
	}

	var (
		goals []*model.GoalWithRelations
		err   error
	)
	if mine, _ := strconv.ParseBool(r.URL.Query().Get("mine")); mine {
		goals, err = h.goalService.MyGoals(ctx, userID, teamID, year)
	} else {
		goals, err = h.goalService.Goals(ctx, userID, teamID, year)
	}
	if err != nil {
		writeError(w, r, err, "list goals")
		return
	}

	render.Data(w, http.StatusOK, goals)
}

// yearParam reads ?year=, defaulting to the current year.
func yearParam(w http.ResponseWriter, r *http.Request, now time.Time) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return now.Year(), true
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		render.Validation(w, map[string]string{"year": "invalid"})
		return 0, false
	}
	return year, true
}
