// Package dashboard derives the ordered goal list shown on the team dashboard.
package dashboard

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/horizons-app/horizons/internal/model"
)

// DateLayout is the ISO date format used for deadlines and "today".
const DateLayout = "2006-01-02"

type Filter string

const (
	FilterAll          Filter = "all"
	FilterMine         Filter = "mine"
	FilterShared       Filter = "shared"
	FilterCompleted    Filter = "completed"
	FilterNotCompleted Filter = "not_completed"
	FilterOverdue      Filter = "overdue"
)

type Sort string

const (
	SortCreated   Sort = "created"
	SortCompleted Sort = "completed"
	SortDeadline  Sort = "deadline"
)

// Options selects which goals are kept and how they are ordered.
type Options struct {
	Filter     Filter
	Sort       Sort
	CategoryID string // empty means no category constraint
	UserID     string
	Today      string // YYYY-MM-DD, defaults to the current UTC date
}

// Derive filters and sorts goals. The input slice is left untouched; the
// result is always a new, non-nil slice.
func Derive(goals []*model.GoalWithRelations, opts Options) []*model.GoalWithRelations {
	if len(goals) == 0 {
		return []*model.GoalWithRelations{}
	}

	today := opts.Today
	if today == "" {
		today = time.Now().UTC().Format(DateLayout)
	}

	result := applyFilter(goals, opts.Filter, opts.UserID, today)

	if opts.CategoryID != "" {
		result = lo.Filter(result, func(g *model.GoalWithRelations, _ int) bool {
			return g.CategoryID != nil && *g.CategoryID == opts.CategoryID
		})
	}

	return applySort(result, opts.Sort)
}

func applyFilter(goals []*model.GoalWithRelations, filter Filter, userID, today string) []*model.GoalWithRelations {
	var keep func(g *model.GoalWithRelations) bool

	switch filter {
	case FilterMine:
		keep = func(g *model.GoalWithRelations) bool { return g.UserID == userID }
	case FilterShared:
		keep = func(g *model.GoalWithRelations) bool { return g.IsShared && g.UserID != userID }
	case FilterCompleted:
		keep = func(g *model.GoalWithRelations) bool { return g.IsCompleted }
	case FilterNotCompleted:
		keep = func(g *model.GoalWithRelations) bool { return g.IsNotCompleted }
	case FilterOverdue:
		keep = func(g *model.GoalWithRelations) bool { return IsOverdue(&g.Goal, today) }
	default:
		keep = func(*model.GoalWithRelations) bool { return true }
	}

	return lo.Filter(goals, func(g *model.GoalWithRelations, _ int) bool {
		return g != nil && keep(g)
	})
}

// IsOverdue reports whether an open goal has a deadline strictly before today.
// Dates compare lexically, which is chronological for YYYY-MM-DD.
func IsOverdue(g *model.Goal, today string) bool {
	if g.DeadlineDate == nil || *g.DeadlineDate == "" || g.IsCompleted || g.IsNotCompleted {
		return false
	}
	return *g.DeadlineDate < today
}

func applySort(goals []*model.GoalWithRelations, sort Sort) []*model.GoalWithRelations {
	sorted := slices.Clone(goals)

	switch sort {
	case SortCreated:
		slices.SortStableFunc(sorted, func(a, b *model.GoalWithRelations) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortCompleted:
		slices.SortStableFunc(sorted, func(a, b *model.GoalWithRelations) int {
			switch {
			case a.CompletedAt == nil && b.CompletedAt == nil:
				return 0
			case a.CompletedAt == nil:
				return 1
			case b.CompletedAt == nil:
				return -1
			}
			return b.CompletedAt.Compare(*a.CompletedAt)
		})
	case SortDeadline:
		slices.SortStableFunc(sorted, func(a, b *model.GoalWithRelations) int {
			ad, bd := deadline(a), deadline(b)
			switch {
			case ad == "" && bd == "":
				return 0
			case ad == "":
				return 1
			case bd == "":
				return -1
			}
			return strings.Compare(ad, bd)
		})
	}

	return sorted
}

func deadline(g *model.GoalWithRelations) string {
	if g.DeadlineDate == nil {
		return ""
	}
	return *g.DeadlineDate
}
