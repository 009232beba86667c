package handler

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string           `json:"token"`
	ExpiresAt int64            `json:"expires_at"`
	Session   *session.Session `json:"session"`
}

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if render.Decode(w, r, &req) != nil {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, r, err, "register")
		return
	}

	h.signIn(w, r, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if render.Decode(w, r, &req) != nil {
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "log in")
		return
	}

	h.signIn(w, r, user, http.StatusOK)
}

// signIn issues the JWT as a cookie and in the body for bearer clients.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *model.User, status int) {
	token, expires, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeError(w, r, err, "generate token")
		return
	}

	s, err := h.authService.Session(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "load session")
		return
	}

	h.authService.SetJWTCookie(w, token, expires)
	render.Data(w, status, authResponse{Token: token, ExpiresAt: expires.Unix(), Session: s})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	render.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	render.Data(w, http.StatusOK, session.From(r.Context()))
}

// CSRF hands the double-submit token to clients that cannot read cookies.
func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	render.Data(w, http.StatusOK, map[string]string{"csrf_token": session.CSRFToken(r.Context())})
}
