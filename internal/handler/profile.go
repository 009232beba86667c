package handler

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type ProfileHandler struct {
	profileService *service.ProfileService
	maxUpload      int64
}

func NewProfileHandler(profileService *service.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, maxUpload: maxUpload}
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if render.Decode(w, r, &req) != nil {
		return
	}

	profile, err := h.profileService.UpdateDisplayName(r.Context(), session.UserID(r.Context()), req.DisplayName)
	if err != nil {
		writeError(w, r, err, "update profile")
		return
	}

	render.Data(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	var ignored struct{}
	file, closeFile, err := decodeMultipart(w, r, h.maxUpload, &ignored)
	if err != nil {
		return
	}
	defer closeFile()

	if file == nil {
		render.Validation(w, map[string]string{"file": "required"})
		return
	}

	profile, err := h.profileService.UploadAvatar(r.Context(), session.UserID(r.Context()), *file)
	if err != nil {
		writeError(w, r, err, "upload avatar")
		return
	}

	render.Data(w, http.StatusOK, profile)
}
