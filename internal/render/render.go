// Package render writes the JSON envelopes every API response uses:
//
//	{"status": 404, "message": "goal not found"}
//	{"status": 400, "errors": {"title": "required"}}
//	{"status": 200, "message": "ok", "data": {...}}
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

type MessageResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type ValidationResponse struct {
	Status int `json:"status"`
	Errors any `json:"errors"`
}

type DataResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, MessageResponse{Status: status, Message: message})
}

func Validation(w http.ResponseWriter, fields any) {
	write(w, http.StatusBadRequest, ValidationResponse{Status: http.StatusBadRequest, Errors: fields})
}

func Data(w http.ResponseWriter, status int, data any) {
	write(w, status, DataResponse{Status: status, Data: data})
}

func DataMessage(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, DataResponse{Status: status, Message: message, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON body into v. Unknown fields are ignored so clients may
// send whole objects, read-only fields included. On failure a 400 response
// has already been written.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, false)
}

// DecodeOptional is Decode for endpoints whose body may be omitted. An empty
// body, chunked or not, leaves v untouched.
func DecodeOptional(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			Message(w, http.StatusRequestEntityTooLarge, "request body too large")
		default:
			Message(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		}
		return err
	}

	return nil
}
