// Package progress computes goal completion percentages from progress entries.
package progress

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/horizons-app/horizons/internal/model"
)

// Abandoned is returned for goals explicitly marked as not completed.
// It is distinct from 0, which means not started.
const Abandoned = -1

// Calculate returns the completion percentage of a goal, or Abandoned.
// Values above 100 are possible and intentional: a weekly goal with more
// than 52 achieved entries, or a milestone goal past its target.
func Calculate(goal *model.GoalWithRelations) int {
	if goal == nil {
		return 0
	}

	if goal.IsNotCompleted {
		return Abandoned
	}

	switch goal.GoalType {
	case model.GoalTypeSingle:
		if goal.IsCompleted {
			return 100
		}
		return 0

	case model.GoalTypeWeekly:
		// Entries are sparse, only weeks the user touched are recorded.
		return percent(achieved(goal.ProgressEntries), model.WeeksPerYear)

	case model.GoalTypeMilestone:
		target := 1
		if goal.TargetCount != nil && *goal.TargetCount > 0 {
			target = *goal.TargetCount
		}
		return percent(achieved(goal.ProgressEntries), target)

	default:
		return 0
	}
}

func achieved(entries []*model.ProgressEntry) int {
	return lo.CountBy(entries, func(e *model.ProgressEntry) bool {
		return e != nil && e.Achieved
	})
}

// percent rounds half up to the nearest integer.
func percent(count, total int) int {
	return int(math.Floor(float64(count)*100/float64(total) + 0.5))
}

// CurrentWeekNumber returns the week of the year for now, counted in whole
// seven day blocks from January 1st and clamped to 1..52.
func CurrentWeekNumber(now time.Time) int {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	week := int(math.Ceil(float64(now.Sub(start)) / float64(7*24*time.Hour)))
	return min(max(week, 1), model.WeeksPerYear)
}

// ValidWeek reports whether week is a trackable week number.
func ValidWeek(week int) bool {
	return week >= 1 && week <= model.WeeksPerYear
}
