package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	ByID(ctx context.Context, id string) (*model.Attachment, error)
	ByGoalIDs(ctx context.Context, goalIDs []string) ([]*model.Attachment, error)
	Delete(ctx context.Context, id string) error
}

type attachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attachments (id, goal_id, type, title, url, content, milestone_date, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.GoalID, a.Type, a.Title, a.URL, a.Content, a.MilestoneDate, a.StoragePath, a.CreatedAt)

	return err
}

func (r *attachmentRepository) ByID(ctx context.Context, id string) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.db.GetContext(ctx, &attachment, `SELECT * FROM attachments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &attachment, nil
}

func (r *attachmentRepository) ByGoalIDs(ctx context.Context, goalIDs []string) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	err := selectIn(ctx, r.db, &attachments, `
		SELECT * FROM attachments WHERE goal_id IN (?) ORDER BY created_at
	`, goalIDs)

	return attachments, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrAttachmentNotFound)
}
