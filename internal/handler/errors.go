package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
	"github.com/horizons-app/horizons/internal/validation"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrNotAuthenticated, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},

	{repository.ErrGoalNotFound, http.StatusNotFound},
	{repository.ErrTeamNotFound, http.StatusNotFound},
	{repository.ErrCategoryNotFound, http.StatusNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound},
	{repository.ErrProgressEntryNotFound, http.StatusNotFound},
	{repository.ErrAttachmentNotFound, http.StatusNotFound},
	{repository.ErrFeedbackNotFound, http.StatusNotFound},
	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrProfileNotFound, http.StatusNotFound},

	{service.ErrNotTeamMember, http.StatusForbidden},
	{service.ErrNotTeamAdmin, http.StatusForbidden},
	{service.ErrAdminRequired, http.StatusForbidden},
	{service.ErrNotGoalOwner, http.StatusForbidden},
	{service.ErrFeedbackForbidden, http.StatusForbidden},

	{service.ErrAlreadyMember, http.StatusConflict},
	{service.ErrEmailAlreadyExists, http.StatusConflict},
	{repository.ErrDuplicateWeek, http.StatusConflict},

	{service.ErrInvalidInviteCode, http.StatusBadRequest},
	{service.ErrInvalidWeek, http.StatusBadRequest},
	{service.ErrNotWeeklyGoal, http.StatusBadRequest},
	{service.ErrInvalidFileType, http.StatusBadRequest},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrInvalidEmail, http.StatusBadRequest},
	{service.ErrNameRequired, http.StatusBadRequest},
}

// writeError maps err to a status and writes the error envelope. Anything
// unrecognized is logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		render.Validation(w, fields)
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			render.Message(w, e.status, err.Error())
			return
		}
	}

	slog.Error("failed to "+action, "error", err, "user_id", session.UserID(r.Context()), "path", r.URL.Path)
	render.Message(w, http.StatusInternalServerError, "internal server error")
}
