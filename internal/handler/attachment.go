package handler

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	maxUpload         int64
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, maxUpload int64) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService, maxUpload: maxUpload}
}

// Add records a url, note or milestone attachment from JSON. A multipart
// request with a "file" part uploads an image instead; its "data" field may
// carry a title.
func (h *AttachmentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	goalID := r.PathValue("id")

	if !isMultipart(r) {
		var in service.AttachmentInput
		if render.Decode(w, r, &in) != nil {
			return
		}

		attachment, err := h.attachmentService.Add(ctx, session.UserID(ctx), goalID, in)
		if err != nil {
			writeError(w, r, err, "add attachment")
			return
		}

		render.Data(w, http.StatusCreated, attachment)
		return
	}

	var in service.AttachmentInput
	file, closeFile, err := decodeMultipart(w, r, h.maxUpload, &in)
	if err != nil {
		return
	}
	defer closeFile()

	if file == nil {
		render.Validation(w, map[string]string{"file": "required"})
		return
	}

	attachment, err := h.attachmentService.Upload(ctx, session.UserID(ctx), goalID, in.Title, *file)
	if err != nil {
		writeError(w, r, err, "upload attachment")
		return
	}

	render.Data(w, http.StatusCreated, attachment)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.attachmentService.Delete(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "delete attachment")
		return
	}

	render.NoContent(w)
}
