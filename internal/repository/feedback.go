package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var ErrFeedbackNotFound = errors.New("feedback report not found")

type FeedbackRepository interface {
	CreateReport(ctx context.Context, report *model.FeedbackReport) error
	ReportByID(ctx context.Context, id string) (*model.FeedbackReport, error)
	// ReportsByUser returns the user's reports newest first, with comment counts.
	ReportsByUser(ctx context.Context, userID string) ([]*model.FeedbackReport, error)
	AllReports(ctx context.Context) ([]*model.FeedbackReport, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CreateComment(ctx context.Context, comment *model.FeedbackComment) error
	// Comments returns a report's comments oldest first.
	Comments(ctx context.Context, reportID string) ([]*model.FeedbackComment, error)
}

type feedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

const reportWithCount = `
	SELECT r.*, (SELECT COUNT(*) FROM feedback_comments c WHERE c.report_id = r.id) AS comments_count
	FROM feedback_reports r
`

func (r *feedbackRepository) CreateReport(ctx context.Context, f *model.FeedbackReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback_reports (
			id, user_id, type, title, description, current_url, browser_info,
			screenshot_url, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, f.ID, f.UserID, f.Type, f.Title, f.Description, f.CurrentURL, f.BrowserInfo,
		f.ScreenshotURL, f.Status, f.CreatedAt)

	return err
}

func (r *feedbackRepository) ReportByID(ctx context.Context, id string) (*model.FeedbackReport, error) {
	var report model.FeedbackReport
	err := r.db.GetContext(ctx, &report, reportWithCount+` WHERE r.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *feedbackRepository) ReportsByUser(ctx context.Context, userID string) ([]*model.FeedbackReport, error) {
	var reports []*model.FeedbackReport
	err := r.db.SelectContext(ctx, &reports, reportWithCount+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	return reports, err
}

func (r *feedbackRepository) AllReports(ctx context.Context) ([]*model.FeedbackReport, error) {
	var reports []*model.FeedbackReport
	err := r.db.SelectContext(ctx, &reports, reportWithCount+` ORDER BY r.created_at DESC`)
	return reports, err
}

func (r *feedbackRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE feedback_reports SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	return affected(result, ErrFeedbackNotFound)
}

func (r *feedbackRepository) CreateComment(ctx context.Context, c *model.FeedbackComment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback_comments (id, report_id, user_id, comment, is_admin_comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.ReportID, c.UserID, c.Comment, c.IsAdminComment, c.CreatedAt)

	return err
}

func (r *feedbackRepository) Comments(ctx context.Context, reportID string) ([]*model.FeedbackComment, error) {
	var comments []*model.FeedbackComment
	err := r.db.SelectContext(ctx, &comments, `
		SELECT * FROM feedback_comments WHERE report_id = $1 ORDER BY created_at ASC
	`, reportID)

	return comments, err
}
