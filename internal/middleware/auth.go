package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

// Auth builds the request session from the auth cookie or a bearer token.
// Requests without a valid token continue anonymously.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := authToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.VerifyJWT(token)
			if err != nil {
				if fromCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			s, err := authService.Session(r.Context(), userID)
			if err != nil {
				slog.Warn("failed to load session", "error", err, "user_id", userID)
				if fromCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			reportSession(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(session.With(r.Context(), s)))
		})
	}
}

// authToken prefers the cookie; API clients send a bearer token instead.
func authToken(r *http.Request) (token string, fromCookie bool) {
	cookie, err := r.Cookie(service.AuthCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	return bearerToken(r), false
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session.From(r.Context()) == nil {
			render.Message(w, http.StatusUnauthorized, service.ErrNotAuthenticated.Error())
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects callers whose profile is not flagged as app admin.
// The flag was read from the database when the session was built.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !session.From(r.Context()).IsAdmin {
			render.Message(w, http.StatusForbidden, service.ErrAdminRequired.Error())
			return
		}
		next(w, r)
	})
}
