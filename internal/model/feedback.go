package model

import "time"

const (
	FeedbackTypeBug      = "bug"
	FeedbackTypeFeature  = "feature"
	FeedbackTypeQuestion = "question"
	FeedbackTypeOther    = "other"
)

const (
	FeedbackStatusOpen       = "open"
	FeedbackStatusInProgress = "in_progress"
	FeedbackStatusResolved   = "resolved"
	FeedbackStatusClosed     = "closed"
)

type FeedbackReport struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Type          string    `db:"type" json:"type"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	CurrentURL    *string   `db:"current_url" json:"current_url"`
	BrowserInfo   *string   `db:"browser_info" json:"browser_info"`
	ScreenshotURL *string   `db:"screenshot_url" json:"screenshot_url"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	CommentsCount int `db:"comments_count" json:"comments_count"`
}

type FeedbackComment struct {
	ID             string    `db:"id" json:"id"`
	ReportID       string    `db:"report_id" json:"report_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Comment        string    `db:"comment" json:"comment"`
	IsAdminComment bool      `db:"is_admin_comment" json:"is_admin_comment"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	Profile *Profile `db:"-" json:"profile,omitempty"`
}

type FeedbackReportWithRelations struct {
	FeedbackReport
	DescriptionHTML string             `json:"description_html"`
	Profile         *Profile           `json:"profile,omitempty"`
	Comments        []*FeedbackComment `json:"comments"`
}
