package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/horizons-app/horizons/internal/model"
)

func entries(achieved, missed int) []*model.ProgressEntry {
	var out []*model.ProgressEntry
	for i := 0; i < achieved; i++ {
		out = append(out, &model.ProgressEntry{Achieved: true})
	}
	for i := 0; i < missed; i++ {
		out = append(out, &model.ProgressEntry{Achieved: false})
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		goal     model.GoalWithRelations
		expected int
	}{
		{
			name:     "single open",
			goal:     model.GoalWithRelations{Goal: model.Goal{GoalType: model.GoalTypeSingle}},
			expected: 0,
		},
		{
			name:     "single completed",
			goal:     model.GoalWithRelations{Goal: model.Goal{GoalType: model.GoalTypeSingle, IsCompleted: true}},
			expected: 100,
		},
		{
			name: "weekly half the year",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeWeekly},
				ProgressEntries: entries(26, 10),
			},
			expected: 50,
		},
		{
			name: "weekly one week rounds down",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeWeekly},
				ProgressEntries: entries(1, 0),
			},
			expected: 2,
		},
		{
			name: "weekly beyond 52 is not clamped",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeWeekly},
				ProgressEntries: entries(53, 0),
			},
			expected: 102,
		},
		{
			name: "milestone three of four",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeMilestone, TargetCount: intPtr(4)},
				ProgressEntries: entries(3, 2),
			},
			expected: 75,
		},
		{
			name: "milestone rounds half up",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeMilestone, TargetCount: intPtr(8)},
				ProgressEntries: entries(1, 0),
			},
			expected: 13,
		},
		{
			name: "milestone without target counts as one step",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeMilestone},
				ProgressEntries: entries(1, 0),
			},
			expected: 100,
		},
		{
			name: "milestone zero target counts as one step",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeMilestone, TargetCount: intPtr(0)},
				ProgressEntries: entries(2, 0),
			},
			expected: 200,
		},
		{
			name:     "unknown type",
			goal:     model.GoalWithRelations{Goal: model.Goal{GoalType: "habit"}, ProgressEntries: entries(5, 0)},
			expected: 0,
		},
		{
			name: "abandoned weekly",
			goal: model.GoalWithRelations{
				Goal:            model.Goal{GoalType: model.GoalTypeWeekly, IsNotCompleted: true},
				ProgressEntries: entries(40, 0),
			},
			expected: Abandoned,
		},
		{
			name:     "abandoned single",
			goal:     model.GoalWithRelations{Goal: model.Goal{GoalType: model.GoalTypeSingle, IsNotCompleted: true}},
			expected: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Calculate(&tt.goal))
		})
	}
}

func TestCalculateNil(t *testing.T) {
	assert.Equal(t, 0, Calculate(nil))
}

func TestCurrentWeekNumber(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"new year midnight", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"first day", time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), 1},
		{"day eight", time.Date(2025, 1, 8, 0, 0, 1, 0, time.UTC), 2},
		{"mid year", time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC), 26},
		{"new years eve", time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CurrentWeekNumber(tt.now))
		})
	}
}

func TestValidWeek(t *testing.T) {
	assert.False(t, ValidWeek(0))
	assert.True(t, ValidWeek(1))
	assert.True(t, ValidWeek(52))
	assert.False(t, ValidWeek(53))
}

func TestSummarize(t *testing.T) {
	goals := []*model.GoalWithRelations{
		{Goal: model.Goal{GoalType: model.GoalTypeSingle, IsCompleted: true}},
		{Goal: model.Goal{GoalType: model.GoalTypeSingle, IsNotCompleted: true}},
		{Goal: model.Goal{GoalType: model.GoalTypeWeekly}, ProgressEntries: entries(26, 0)},
		{Goal: model.Goal{GoalType: model.GoalTypeMilestone, TargetCount: intPtr(2)}, ProgressEntries: entries(4, 0)},
	}

	s := Summarize(goals)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.NotCompleted)
	assert.Equal(t, 2, s.InProgress)
	// (100 + 50 + min(200,100)) / 3
	assert.Equal(t, 83, s.AverageProgress)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
