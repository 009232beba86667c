package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
	csrfFormField  = "csrf_token"
	csrfTokenLen   = 32
)

// CSRFProtection enforces a double-submit token on state-changing requests
// that ride on the auth cookie. Requests without the cookie, bearer clients
// and first-time logins included, carry no ambient credentials and are not
// checked.
func CSRFProtection(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := getOrGenerateCSRFToken(w, r, secure)
			ctx := session.WithCSRFToken(r.Context(), token)

			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if _, err := r.Cookie(service.AuthCookieName); err != nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			submittedToken := r.Header.Get(CSRFHeader)
			if submittedToken == "" && isForm(r) {
				submittedToken = r.PostFormValue(csrfFormField)
			}

			if !validCSRFToken(token, submittedToken) {
				slog.Warn("csrf validation failed",
					"path", r.URL.Path,
					"method", r.Method,
					"ip", getClientIP(r),
				)
				render.Message(w, http.StatusForbidden, "invalid CSRF token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request, secure bool) string {
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	// Readable by the SPA, which echoes it in the X-CSRF-Token header.
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})

	return token
}

func generateCSRFToken() string {
	bytes := make([]byte, csrfTokenLen)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
