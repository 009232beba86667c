package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizons-app/horizons/internal/session"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(ok), mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, 15*time.Minute)
	rl.now = func() time.Time { return now }

	for i := range 5 {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "other clients have their own bucket")

	now = now.Add(3 * time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"), "one token refills every window/limit")
	assert.False(t, rl.Allow("1.2.3.4"))

	now = now.Add(time.Hour)
	rl.Allow("9.9.9.9")
	rl.mu.Lock()
	_, kept := rl.clients["5.6.7.8"]
	rl.mu.Unlock()
	assert.False(t, kept, "idle clients are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(NewRateLimiter(1, time.Minute))(ok)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")

	rec := httptest.NewRecorder()
	h(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":429`)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(r))
}

func TestCSRFProtection(t *testing.T) {
	var seen string
	h := CSRFProtection(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.CSRFToken(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value
	assert.Equal(t, token, seen)

	post := func(header string, bearer bool) int {
		r := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")
		if bearer {
			r.Header.Set("Authorization", "Bearer abc")
		} else {
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
			r.AddCookie(&http.Cookie{Name: "auth_token", Value: "jwt"})
		}
		if header != "" {
			r.Header.Set(CSRFHeader, header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, post("", false))
	assert.Equal(t, http.StatusForbidden, post("wrong", false))
	assert.Equal(t, http.StatusOK, post(token, false))
	assert.Equal(t, http.StatusOK, post("", true), "bearer requests carry no ambient credentials")
}

func TestRequireAuthAndAdmin(t *testing.T) {
	anon := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	RequireAuth(ok)(rec, anon)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(ok)(rec, anon)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := anon.WithContext(session.With(anon.Context(), &session.Session{UserID: "u1"}))
	rec = httptest.NewRecorder()
	RequireAuth(ok)(rec, user)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(ok)(rec, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := anon.WithContext(session.With(anon.Context(), &session.Session{UserID: "u2", IsAdmin: true}))
	rec = httptest.NewRecorder()
	RequireAdmin(ok)(rec, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 16)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "from-proxy")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "from-proxy", seen)
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/teams", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
