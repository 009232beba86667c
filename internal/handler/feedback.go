package handler

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.feedbackService.List(r.Context(), session.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err, "list feedback")
		return
	}

	render.Data(w, http.StatusOK, reports)
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.FeedbackInput
	if render.Decode(w, r, &in) != nil {
		return
	}

	report, err := h.feedbackService.Create(r.Context(), session.UserID(r.Context()), in, r.UserAgent())
	if err != nil {
		writeError(w, r, err, "create feedback")
		return
	}

	render.DataMessage(w, http.StatusCreated, "feedback submitted", report)
}

func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.feedbackService.Detail(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "get feedback")
		return
	}

	render.Data(w, http.StatusOK, report)
}

func (h *FeedbackHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.feedbackService.Comments(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "list feedback comments")
		return
	}

	render.Data(w, http.StatusOK, comments)
}

func (h *FeedbackHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in service.CommentInput
	if render.Decode(w, r, &in) != nil {
		return
	}

	comment, err := h.feedbackService.AddComment(r.Context(), session.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err, "add feedback comment")
		return
	}

	render.Data(w, http.StatusCreated, comment)
}

func (h *FeedbackHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	reports, err := h.feedbackService.AdminList(r.Context(), session.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err, "list all feedback")
		return
	}

	render.Data(w, http.StatusOK, reports)
}

func (h *FeedbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in service.StatusInput
	if render.Decode(w, r, &in) != nil {
		return
	}

	err := h.feedbackService.UpdateStatus(r.Context(), session.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err, "update feedback status")
		return
	}

	render.Message(w, http.StatusOK, "status updated")
}
