package model

import (
	"time"
)

type GoalType string

const (
	GoalTypeSingle    GoalType = "single"
	GoalTypeWeekly    GoalType = "weekly"
	GoalTypeMilestone GoalType = "milestone"
)

type Goal struct {
	ID                 string     `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"user_id"`
	TeamID             string     `db:"team_id" json:"team_id"`
	CategoryID         *string    `db:"category_id" json:"category_id"`
	Year               int        `db:"year" json:"year"`
	Title              string     `db:"title" json:"title"`
	Description        *string    `db:"description" json:"description"`
	GoalType           GoalType   `db:"goal_type" json:"goal_type"`
	TargetCount        *int       `db:"target_count" json:"target_count"` // milestone goals only
	IsShared           bool       `db:"is_shared" json:"is_shared"`
	IsCompleted        bool       `db:"is_completed" json:"is_completed"`
	CompletedAt        *time.Time `db:"completed_at" json:"completed_at"`
	IsNotCompleted     bool       `db:"is_not_completed" json:"is_not_completed"`
	NotCompletedReason *string    `db:"not_completed_reason" json:"not_completed_reason"`
	NotCompletedAt     *time.Time `db:"not_completed_at" json:"not_completed_at"`
	DeadlineDate       *string    `db:"deadline_date" json:"deadline_date"` // YYYY-MM-DD
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// Complete marks the goal completed at the given time and clears abandonment.
func (g *Goal) Complete(at time.Time) {
	g.IsCompleted = true
	g.CompletedAt = &at
	g.IsNotCompleted = false
	g.NotCompletedReason = nil
	g.NotCompletedAt = nil
}

func (g *Goal) Reopen() {
	g.IsCompleted = false
	g.CompletedAt = nil
}

// Abandon marks the goal as not completed and clears completion.
func (g *Goal) Abandon(reason *string, at time.Time) {
	g.IsNotCompleted = true
	g.NotCompletedReason = reason
	g.NotCompletedAt = &at
	g.IsCompleted = false
	g.CompletedAt = nil
}

func (g *Goal) Unabandon() {
	g.IsNotCompleted = false
	g.NotCompletedReason = nil
	g.NotCompletedAt = nil
}

// GoalWithRelations is a goal joined with its category, owner profile,
// progress entries and attachments.
type GoalWithRelations struct {
	Goal
	Category        *Category        `json:"category,omitempty"`
	Profile         *Profile         `json:"profile,omitempty"`
	ProgressEntries []*ProgressEntry `json:"progress_entries"`
	Attachments     []*Attachment    `json:"attachments"`
}
