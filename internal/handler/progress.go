package handler

import (
	"net/http"
	"strconv"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type weekRequest struct {
	Achieved bool `json:"achieved"`
}

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in service.ProgressInput
	if render.Decode(w, r, &in) != nil {
		return
	}

	entry, err := h.progressService.Add(r.Context(), session.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err, "add progress entry")
		return
	}

	render.Data(w, http.StatusCreated, entry)
}

func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd service.ProgressUpdate
	if render.Decode(w, r, &upd) != nil {
		return
	}

	entry, err := h.progressService.Update(r.Context(), session.UserID(r.Context()), r.PathValue("id"), upd)
	if err != nil {
		writeError(w, r, err, "update progress entry")
		return
	}

	render.Data(w, http.StatusOK, entry)
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.progressService.Delete(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "delete progress entry")
		return
	}

	render.NoContent(w)
}

// ToggleWeek sets the achieved flag for one week of a weekly goal, creating
// the entry when it does not exist yet.
func (h *ProgressHandler) ToggleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		render.Validation(w, map[string]string{"week": "numeric"})
		return
	}

	var req weekRequest
	if render.Decode(w, r, &req) != nil {
		return
	}

	entry, err := h.progressService.ToggleWeek(r.Context(), session.UserID(r.Context()), r.PathValue("id"), week, req.Achieved)
	if err != nil {
		writeError(w, r, err, "toggle week")
		return
	}

	render.Data(w, http.StatusOK, entry)
}
