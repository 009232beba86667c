package model

import (
	"time"
)

const WeeksPerYear = 52

type ProgressEntry struct {
	ID         string    `db:"id" json:"id"`
	GoalID     string    `db:"goal_id" json:"goal_id"`
	EntryDate  string    `db:"entry_date" json:"entry_date"`   // YYYY-MM-DD
	WeekNumber *int      `db:"week_number" json:"week_number"` // weekly goals only
	Note       *string   `db:"note" json:"note"`
	Achieved   bool      `db:"achieved" json:"achieved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
