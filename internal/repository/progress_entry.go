package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var (
	ErrProgressEntryNotFound = errors.New("progress entry not found")
	ErrDuplicateWeek         = errors.New("an entry for this week already exists")
)

type ProgressEntryRepository interface {
	Create(ctx context.Context, entry *model.ProgressEntry) error
	ByID(ctx context.Context, id string) (*model.ProgressEntry, error)
	ByGoalIDs(ctx context.Context, goalIDs []string) ([]*model.ProgressEntry, error)
	// UpsertWeek inserts the entry or, when one already exists for the same
	// goal and week, overwrites its achieved flag. The stored row is returned.
	UpsertWeek(ctx context.Context, entry *model.ProgressEntry) (*model.ProgressEntry, error)
	Update(ctx context.Context, entry *model.ProgressEntry) error
	Delete(ctx context.Context, id string) error
}

type progressEntryRepository struct {
	db *sqlx.DB
}

func NewProgressEntryRepository(db *sqlx.DB) ProgressEntryRepository {
	return &progressEntryRepository{db: db}
}

func (r *progressEntryRepository) Create(ctx context.Context, e *model.ProgressEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO progress_entries (id, goal_id, entry_date, week_number, note, achieved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.GoalID, e.EntryDate, e.WeekNumber, e.Note, e.Achieved, e.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateWeek
	}

	return err
}

func (r *progressEntryRepository) ByID(ctx context.Context, id string) (*model.ProgressEntry, error) {
	var entry model.ProgressEntry
	err := r.db.GetContext(ctx, &entry, `SELECT * FROM progress_entries WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrProgressEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *progressEntryRepository) ByGoalIDs(ctx context.Context, goalIDs []string) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	err := selectIn(ctx, r.db, &entries, `
		SELECT * FROM progress_entries WHERE goal_id IN (?) ORDER BY entry_date, created_at
	`, goalIDs)

	return entries, err
}

func (r *progressEntryRepository) UpsertWeek(ctx context.Context, e *model.ProgressEntry) (*model.ProgressEntry, error) {
	var stored model.ProgressEntry
	err := r.db.GetContext(ctx, &stored, `
		INSERT INTO progress_entries (id, goal_id, entry_date, week_number, note, achieved, created_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6)
		ON CONFLICT (goal_id, week_number) DO UPDATE SET achieved = excluded.achieved
		RETURNING *
	`, e.ID, e.GoalID, e.EntryDate, e.WeekNumber, e.Achieved, e.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *progressEntryRepository) Update(ctx context.Context, e *model.ProgressEntry) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE progress_entries SET entry_date = $1, note = $2, achieved = $3 WHERE id = $4
	`, e.EntryDate, e.Note, e.Achieved, e.ID)
	if err != nil {
		return err
	}

	return affected(result, ErrProgressEntryNotFound)
}

func (r *progressEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM progress_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrProgressEntryNotFound)
}
