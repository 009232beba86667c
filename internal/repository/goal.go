package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, id string) (*model.Goal, error)
	// Visible returns the team's goals for a year that userID owns or that
	// are shared, newest first.
	Visible(ctx context.Context, teamID string, year int, userID string) ([]*model.Goal, error)
	// Owned returns only userID's goals in the team for a year, newest first.
	Owned(ctx context.Context, teamID string, year int, userID string) ([]*model.Goal, error)
	ByYear(ctx context.Context, year int) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, id string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, g *model.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (
			id, user_id, team_id, category_id, year, title, description, goal_type,
			target_count, is_shared, is_completed, completed_at, is_not_completed,
			not_completed_reason, not_completed_at, deadline_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		g.ID, g.UserID, g.TeamID, g.CategoryID, g.Year, g.Title, g.Description, g.GoalType,
		g.TargetCount, g.IsShared, g.IsCompleted, g.CompletedAt, g.IsNotCompleted,
		g.NotCompletedReason, g.NotCompletedAt, g.DeadlineDate, g.CreatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, id string) (*model.Goal, error) {
	var goal model.Goal
	err := r.db.GetContext(ctx, &goal, `SELECT * FROM goals WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

func (r *goalRepository) Visible(ctx context.Context, teamID string, year int, userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	err := r.db.SelectContext(ctx, &goals, `
		SELECT * FROM goals
		WHERE team_id = $1 AND year = $2 AND (user_id = $3 OR is_shared = TRUE)
		ORDER BY created_at DESC
	`, teamID, year, userID)

	return goals, err
}

func (r *goalRepository) Owned(ctx context.Context, teamID string, year int, userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	err := r.db.SelectContext(ctx, &goals, `
		SELECT * FROM goals
		WHERE team_id = $1 AND year = $2 AND user_id = $3
		ORDER BY created_at DESC
	`, teamID, year, userID)

	return goals, err
}

func (r *goalRepository) ByYear(ctx context.Context, year int) ([]*model.Goal, error) {
	var goals []*model.Goal
	err := r.db.SelectContext(ctx, &goals, `SELECT * FROM goals WHERE year = $1 ORDER BY created_at DESC`, year)
	return goals, err
}

// Update writes every mutable column. Owner, team and creation time are
// never changed.
func (r *goalRepository) Update(ctx context.Context, g *model.Goal) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE goals SET
			category_id = $1, year = $2, title = $3, description = $4, goal_type = $5,
			target_count = $6, is_shared = $7, is_completed = $8, completed_at = $9,
			is_not_completed = $10, not_completed_reason = $11, not_completed_at = $12,
			deadline_date = $13
		WHERE id = $14
	`,
		g.CategoryID, g.Year, g.Title, g.Description, g.GoalType,
		g.TargetCount, g.IsShared, g.IsCompleted, g.CompletedAt,
		g.IsNotCompleted, g.NotCompletedReason, g.NotCompletedAt,
		g.DeadlineDate, g.ID,
	)
	if err != nil {
		return err
	}

	return affected(result, ErrGoalNotFound)
}

// Delete removes the goal; progress entries and attachments cascade.
func (r *goalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrGoalNotFound)
}
