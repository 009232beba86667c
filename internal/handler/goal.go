package handler

import (
	"net/http"
	"time"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
	"github.com/horizons-app/horizons/internal/validation"
)

type completeRequest struct {
	CompletedAt *string `json:"completed_at"` // YYYY-MM-DD or RFC 3339
}

type notCompletedRequest struct {
	Reason *string `json:"reason"`
}

type GoalHandler struct {
	goalService *service.GoalService
	maxUpload   int64
}

func NewGoalHandler(goalService *service.GoalService, maxUpload int64) *GoalHandler {
	return &GoalHandler{goalService: goalService, maxUpload: maxUpload}
}

// Create accepts a JSON goal, or a multipart form with the goal as JSON in
// "data" and an optional image in "file".
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	var file *service.FileUpload

	if isMultipart(r) {
		f, closeFile, err := decodeMultipart(w, r, h.maxUpload, &in)
		if err != nil {
			return
		}
		defer closeFile()
		file = f
	} else if render.Decode(w, r, &in) != nil {
		return
	}

	goal, err := h.goalService.Create(r.Context(), session.UserID(r.Context()), in, file)
	if err != nil {
		writeError(w, r, err, "create goal")
		return
	}

	render.Data(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Goal(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "get goal")
		return
	}

	render.Data(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd service.GoalUpdate
	var file *service.FileUpload

	if isMultipart(r) {
		f, closeFile, err := decodeMultipart(w, r, h.maxUpload, &upd)
		if err != nil {
			return
		}
		defer closeFile()
		file = f
	} else if render.Decode(w, r, &upd) != nil {
		return
	}

	goal, err := h.goalService.Update(r.Context(), session.UserID(r.Context()), r.PathValue("id"), upd, file)
	if err != nil {
		writeError(w, r, err, "update goal")
		return
	}

	render.Data(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.Delete(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "delete goal")
		return
	}

	render.NoContent(w)
}

// Complete marks the goal done. An empty body completes it now.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if render.DecodeOptional(w, r, &req) != nil {
		return
	}

	var at *time.Time
	if req.CompletedAt != nil && *req.CompletedAt != "" {
		t, ok := parseTimestamp(*req.CompletedAt)
		if !ok {
			render.Validation(w, map[string]string{"completed_at": "datetime"})
			return
		}
		at = &t
	}

	goal, err := h.goalService.SetCompleted(r.Context(), session.UserID(r.Context()), r.PathValue("id"), true, at)
	if err != nil {
		writeError(w, r, err, "complete goal")
		return
	}

	render.Data(w, http.StatusOK, goal)
}

func (h *GoalHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.SetCompleted(r.Context(), session.UserID(r.Context()), r.PathValue("id"), false, nil)
	if err != nil {
		writeError(w, r, err, "reopen goal")
		return
	}

	render.Data(w, http.StatusOK, goal)
}

func (h *GoalHandler) MarkNotCompleted(w http.ResponseWriter, r *http.Request) {
	var req notCompletedRequest
	if render.DecodeOptional(w, r, &req) != nil {
		return
	}

	goal, err := h.goalService.MarkNotCompleted(r.Context(), session.UserID(r.Context()), r.PathValue("id"), req.Reason)
	if err != nil {
		writeError(w, r, err, "mark goal not completed")
		return
	}

	render.Data(w, http.StatusOK, goal)
}

func (h *GoalHandler) UnmarkNotCompleted(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.UnmarkNotCompleted(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "unmark goal not completed")
		return
	}

	render.Data(w, http.StatusOK, goal)
}

func (h *GoalHandler) Copy(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.CopyToNextYear(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "copy goal")
		return
	}

	render.Data(w, http.StatusCreated, goal)
}

func parseTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(validation.DateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
