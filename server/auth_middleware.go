package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aionx/connect-dashboard/server/loginsession"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the authenticated login session
	ContextKeySession ContextKey = "login_session"
)

const sessionCookieName = "session_id"

// RequireSessionAuth validates the session cookie on protected HTML routes
// and redirects to the login screen when it is missing, unknown or expired.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}

			sess, err := s.loginSessions.Get(cookie.Value)
			if err != nil {
				http.Redirect(w, r, RouteLogin+"?error=Invalid+session", http.StatusSeeOther)
				return
			}

			if sess.Expired(time.Now()) {
				_ = s.loginSessions.Delete(cookie.Value)
				s.unmountControllers(cookie.Value)
				http.Redirect(w, r, RouteLogin+"?error=Session+expired", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next(w, r.WithContext(ctx))
		}
	}
}

// sessionFromContext returns the login session injected by RequireSessionAuth.
func sessionFromContext(ctx context.Context) (loginsession.Session, bool) {
	sess, ok := ctx.Value(ContextKeySession).(loginsession.Session)
	return sess, ok
}

// setSessionCookie sets the HTTP-only session cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.env == "PROD",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
