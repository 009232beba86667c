package handler

import (
	"net/http"
	"time"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type AdminHandler struct {
	reviewService *service.ReviewService
	now           func() time.Time
}

func NewAdminHandler(reviewService *service.ReviewService) *AdminHandler {
	return &AdminHandler{reviewService: reviewService, now: time.Now}
}

func (h *AdminHandler) YearReview(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, h.now())
	if !ok {
		return
	}

	review, err := h.reviewService.YearReview(r.Context(), session.UserID(r.Context()), year)
	if err != nil {
		writeError(w, r, err, "build year review")
		return
	}

	render.Data(w, http.StatusOK, review)
}
