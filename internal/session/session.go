// Package session carries the authenticated caller through a request.
//
// A Session is built once per request by the auth middleware and stored in
// the request context. Nothing here is global: handlers and services only
// see the session they are handed.
package session

import (
	"context"

	"github.com/horizons-app/horizons/internal/model"
)

type contextKey string

const (
	sessionKey   contextKey = "session"
	csrfTokenKey contextKey = "csrf_token"
)

type Session struct {
	UserID  string         `json:"user_id"`
	Email   string         `json:"email"`
	Profile *model.Profile `json:"profile"`
	// IsAdmin is read from the profiles table when the session is built,
	// never from token claims.
	IsAdmin bool `json:"is_admin"`
}

func New(user *model.User, profile *model.Profile) *Session {
	return &Session{
		UserID:  user.ID,
		Email:   user.Email,
		Profile: profile,
		IsAdmin: profile != nil && profile.IsAppAdmin,
	}
}

func From(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}

func With(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// UserID returns the caller's id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if s := From(ctx); s != nil {
		return s.UserID
	}
	return ""
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey, token)
}
