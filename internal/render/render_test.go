package render

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusNotFound, "goal not found")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"status": float64(404), "message": "goal not found"}, decodeBody(t, rec))

	rec = httptest.NewRecorder()
	Validation(rec, map[string]string{"title": "required"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"title": "required"}, decodeBody(t, rec)["errors"])

	rec = httptest.NewRecorder()
	Data(rec, http.StatusCreated, map[string]int{"id": 7})
	body := decodeBody(t, rec)
	assert.Equal(t, float64(201), body["status"])
	assert.NotContains(t, body, "message")
	assert.Equal(t, map[string]any{"id": float64(7)}, body["data"])
}

func TestDecode(t *testing.T) {
	type input struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","user_id":"ignored"}`))
	var in input
	require.NoError(t, Decode(httptest.NewRecorder(), r, &in))
	assert.Equal(t, "x", in.Title)

	rec := httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	assert.Error(t, Decode(rec, r, &in))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	big := `{"title":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	assert.Error(t, Decode(rec, r, &in))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDecodeOptional(t *testing.T) {
	type input struct {
		Reason *string `json:"reason"`
	}

	tests := []struct {
		name    string
		body    io.Reader
		chunked bool
		want    *string
		code    int
	}{
		{"no body", nil, false, nil, http.StatusOK},
		{"chunked empty body", strings.NewReader(""), true, nil, http.StatusOK},
		{"body", strings.NewReader(`{"reason":"injury"}`), false, ptr("injury"), http.StatusOK},
		{"malformed", strings.NewReader(`{"reason":`), true, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", tt.body)
			if tt.chunked {
				r.ContentLength = -1
			}

			rec := httptest.NewRecorder()
			var in input
			err := DecodeOptional(rec, r, &in)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.code != http.StatusOK, err != nil)
			assert.Equal(t, tt.want, in.Reason)
		})
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	r.ContentLength = -1
	var in input
	assert.Error(t, Decode(rec, r, &in), "a required body stays required")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func ptr[T any](v T) *T { return &v }
