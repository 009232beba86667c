package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/validation"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 1 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeMultipart parses a form carrying a JSON "data" field and an
// optional image in "file". The returned close func releases the upload and
// must be called once the file has been consumed. On failure the response
// has already been written.
func decodeMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) (*service.FileUpload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)

	err := r.ParseMultipartForm(maxBytes)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Message(w, http.StatusRequestEntityTooLarge, "upload too large")
		} else {
			render.Message(w, http.StatusBadRequest, "invalid multipart form")
		}
		return nil, noop, err
	}

	if data := r.FormValue("data"); data != "" {
		err := json.Unmarshal([]byte(data), v)
		if err != nil {
			render.Message(w, http.StatusBadRequest, fmt.Sprintf("invalid data field: %v", err))
			return nil, noop, err
		}
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid file")
		return nil, noop, err
	}

	err = validation.ValidateFile(header, validation.ImageConstraints, maxBytes)
	if err != nil {
		_ = file.Close()
		render.Message(w, http.StatusBadRequest, fmt.Sprintf("%v: %v", service.ErrInvalidFileType, err))
		return nil, noop, err
	}

	return upload(file, header), func() { _ = file.Close() }, nil
}

func upload(file multipart.File, header *multipart.FileHeader) *service.FileUpload {
	return &service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
}
