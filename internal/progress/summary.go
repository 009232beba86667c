package progress

import (
	"math"

	"github.com/horizons-app/horizons/internal/model"
)

// Summary aggregates progress over a set of goals, used by the year review.
type Summary struct {
	Total           int `json:"total"`
	Completed       int `json:"completed"`
	NotCompleted    int `json:"not_completed"`
	InProgress      int `json:"in_progress"`
	AverageProgress int `json:"average_progress"` // abandoned goals excluded
}

func Summarize(goals []*model.GoalWithRelations) Summary {
	var s Summary
	var sum, counted int

	for _, g := range goals {
		if g == nil {
			continue
		}
		s.Total++

		p := Calculate(g)
		switch {
		case p == Abandoned:
			s.NotCompleted++
			continue
		case g.IsCompleted:
			s.Completed++
		default:
			s.InProgress++
		}

		sum += min(p, 100)
		counted++
	}

	if counted > 0 {
		s.AverageProgress = int(math.Floor(float64(sum)/float64(counted) + 0.5))
	}

	return s
}
