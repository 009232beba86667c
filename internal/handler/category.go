package handler

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns global categories plus the team's own when ?team= is given.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context(), session.UserID(r.Context()), r.URL.Query().Get("team"))
	if err != nil {
		writeError(w, r, err, "list categories")
		return
	}

	render.Data(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if render.Decode(w, r, &in) != nil {
		return
	}

	category, err := h.categoryService.Create(r.Context(), session.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err, "create category")
		return
	}

	render.Data(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd service.CategoryUpdate
	if render.Decode(w, r, &upd) != nil {
		return
	}

	category, err := h.categoryService.Update(r.Context(), session.UserID(r.Context()), r.PathValue("id"), upd)
	if err != nil {
		writeError(w, r, err, "update category")
		return
	}

	render.Data(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.categoryService.Delete(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "delete category")
		return
	}

	render.NoContent(w)
}
