package model

import (
	"time"
)

type AttachmentType string

const (
	AttachmentTypeURL       AttachmentType = "url"
	AttachmentTypeImage     AttachmentType = "image"
	AttachmentTypeNote      AttachmentType = "note"
	AttachmentTypeMilestone AttachmentType = "milestone"
)

type Attachment struct {
	ID            string         `db:"id" json:"id"`
	GoalID        string         `db:"goal_id" json:"goal_id"`
	Type          AttachmentType `db:"type" json:"type"`
	Title         *string        `db:"title" json:"title"`
	URL           *string        `db:"url" json:"url"`
	Content       *string        `db:"content" json:"content"`
	MilestoneDate *string        `db:"milestone_date" json:"milestone_date"`
	StoragePath   *string        `db:"storage_path" json:"-"` // object key for uploaded images
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
