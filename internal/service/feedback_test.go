package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/validation"
)

func TestFeedbackFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	reporter := e.register(t, "reporter@example.com")
	other := e.register(t, "other@example.com")
	admin := e.register(t, "admin@example.com")
	e.promote(t, admin)

	report, err := e.feedback.Create(ctx, reporter.ID, FeedbackInput{
		Type:        model.FeedbackTypeBug,
		Title:       "Toggle broken",
		Description: "Week 3 does not stick",
		CurrentURL:  ptr("https://horizons.test/dashboard"),
		Screen:      &ScreenInfo{Width: 1920, Height: 1080, ViewportWidth: 1280, ViewportHeight: 720},
	}, "Mozilla/5.0 test")
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackStatusOpen, report.Status)
	assert.Nil(t, report.ScreenshotURL)

	require.NotNil(t, report.BrowserInfo)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(*report.BrowserInfo), &info))
	assert.Equal(t, "Mozilla/5.0 test", info["userAgent"])
	assert.EqualValues(t, 1920, info["screenWidth"])
	assert.Equal(t, map[string]any{"width": float64(1280), "height": float64(720)}, info["viewport"])

	list, err := e.feedback.List(ctx, reporter.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].CommentsCount)

	detail, err := e.feedback.Detail(ctx, reporter.ID, report.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, "<p>Week 3 does not stick</p>\n", detail.DescriptionHTML)

	_, err = e.feedback.Detail(ctx, other.ID, report.ID)
	assert.ErrorIs(t, err, ErrFeedbackForbidden)

	_, err = e.feedback.AddComment(ctx, other.ID, report.ID, CommentInput{Comment: "me too"})
	assert.ErrorIs(t, err, ErrFeedbackForbidden)

	mine, err := e.feedback.AddComment(ctx, reporter.ID, report.ID, CommentInput{Comment: "still broken"})
	require.NoError(t, err)
	assert.False(t, mine.IsAdminComment)

	reply, err := e.feedback.AddComment(ctx, admin.ID, report.ID, CommentInput{Comment: "looking into it"})
	require.NoError(t, err)
	assert.True(t, reply.IsAdminComment)

	detail, err = e.feedback.Detail(ctx, admin.ID, report.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "still broken", detail.Comments[0].Comment)
	assert.NotNil(t, detail.Comments[1].Profile)

	comments, err := e.feedback.Comments(ctx, reporter.ID, report.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	list, err = e.feedback.List(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list[0].CommentsCount)
}

func TestFeedbackAdminOperations(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	reporter := e.register(t, "reporter@example.com")
	admin := e.register(t, "admin@example.com")
	e.promote(t, admin)

	report, err := e.feedback.Create(ctx, reporter.ID, FeedbackInput{
		Type: model.FeedbackTypeFeature, Title: "Dark mode", Description: "Please",
	}, "")
	require.NoError(t, err)

	_, err = e.feedback.AdminList(ctx, reporter.ID)
	assert.ErrorIs(t, err, ErrAdminRequired)

	all, err := e.feedback.AdminList(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = e.feedback.UpdateStatus(ctx, reporter.ID, report.ID, StatusInput{Status: model.FeedbackStatusClosed})
	assert.ErrorIs(t, err, ErrAdminRequired)

	err = e.feedback.UpdateStatus(ctx, admin.ID, report.ID, StatusInput{Status: "archived"})
	var fields validation.FieldErrors
	assert.ErrorAs(t, err, &fields)

	require.NoError(t, e.feedback.UpdateStatus(ctx, admin.ID, report.ID, StatusInput{Status: model.FeedbackStatusResolved}))

	detail, err := e.feedback.Detail(ctx, reporter.ID, report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackStatusResolved, detail.Status)
}

func TestFeedbackValidation(t *testing.T) {
	e := newTestEnv(t)
	reporter := e.register(t, "reporter@example.com")

	_, err := e.feedback.Create(context.Background(), reporter.ID, FeedbackInput{Type: "rant"}, "")
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "oneof", fields["type"])
	assert.Equal(t, "required", fields["title"])
	assert.Equal(t, "required", fields["description"])
}
