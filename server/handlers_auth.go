package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/server/loginsession"
	"github.com/aionx/connect-dashboard/session"
)

// AuthPageData is the template model for the login and register pages
type AuthPageData struct {
	AppName string
	Error   string
	Notice  string
	Email   string // Preserve email on error
}

// IndexHandler routes the root path from the Session Store state: a loading
// splash while the initial session is undetermined, otherwise the protected
// or public entry screen.
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("loading.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if s.store.Current().Loading {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = tmpl.Execute(w, AuthPageData{AppName: s.config.GetAppName()})
			return
		}

		if s.hasValidLoginSession(r) {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// LoginPageHandler serves the login page
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if s.hasValidLoginSession(r) {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}

		data := AuthPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Notice:  r.URL.Query().Get("notice"),
			Email:   r.URL.Query().Get("email"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		if email == "" || password == "" {
			redirectWithErrorAndEmail(w, r, RouteLogin, "Email and password are required", email)
			return
		}

		if err := s.store.SignIn(r.Context(), email, password); err != nil {
			s.log.Warn().Err(err).Msg("sign in failed")
			redirectWithErrorAndEmail(w, r, RouteLogin, signInErrorMessage(err), email)
			return
		}

		identity := s.store.Current().Identity
		if identity == nil {
			redirectWithErrorAndEmail(w, r, RouteLogin, "Login failed", email)
			return
		}

		s.createLoginSession(w, *identity)
		redirectSuccess(w, r, RouteDashboard)
	}
}

// RegisterPageHandler serves the registration page
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := AuthPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}

// RegisterSubmissionHandler processes the registration form
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		confirm := r.FormValue("confirm_password")

		if email == "" || password == "" {
			redirectWithErrorAndEmail(w, r, RouteRegister, "Email and password are required", email)
			return
		}
		if password != confirm {
			redirectWithErrorAndEmail(w, r, RouteRegister, "Passwords do not match", email)
			return
		}
		if err := session.ValidatePasswordStrength(password); err != nil {
			redirectWithErrorAndEmail(w, r, RouteRegister, strings.TrimPrefix(err.Error(), interrors.ErrValidation.Error()+": "), email)
			return
		}

		if err := s.store.SignUp(r.Context(), email, password); err != nil {
			s.log.Warn().Err(err).Msg("sign up failed")
			redirectWithErrorAndEmail(w, r, RouteRegister, signUpErrorMessage(err), email)
			return
		}

		// Backends with email confirmation return no session yet.
		identity := s.store.Current().Identity
		if identity == nil {
			http.Redirect(w, r, RouteLogin+"?notice="+url.QueryEscape("Account created. Check your email to confirm it."), http.StatusSeeOther)
			return
		}

		s.createLoginSession(w, *identity)
		redirectSuccess(w, r, RouteDashboard)
	}
}

// LogoutHandler ends the login session and signs out of the backend
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			_ = s.loginSessions.Delete(cookie.Value)
			s.unmountControllers(cookie.Value)
		}
		s.clearSessionCookie(w)

		if err := s.store.SignOut(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("backend sign out failed")
		}

		http.Redirect(w, r, RouteLogin+"?notice="+url.QueryEscape("Signed out."), http.StatusSeeOther)
	}
}

func (s *Server) createLoginSession(w http.ResponseWriter, identity session.Identity) {
	sessionID := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.config.GetSessionTTLHours()) * time.Hour)

	_ = s.loginSessions.Upsert(sessionID, loginsession.Session{
		ID:          sessionID,
		UserID:      identity.ID,
		Email:       identity.Email,
		Theme:       "dark",
		EmailAlerts: true,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	})

	s.setSessionCookie(w, sessionID, expiresAt)
}

func (s *Server) hasValidLoginSession(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	sess, err := s.loginSessions.Get(cookie.Value)
	if err != nil {
		return false
	}
	return !sess.Expired(time.Now())
}

func signInErrorMessage(err error) string {
	switch {
	case interrors.Is(err, interrors.ErrInvalidCredentials):
		return "Invalid email or password"
	case interrors.Is(err, interrors.ErrNotConfigured):
		return "The backend is not configured"
	default:
		return "Login failed"
	}
}

func signUpErrorMessage(err error) string {
	switch {
	case interrors.Is(err, interrors.ErrEmailTaken):
		return "An account with this email already exists"
	case interrors.Is(err, interrors.ErrNotConfigured):
		return "The backend is not configured"
	default:
		return "Registration failed"
	}
}

// redirectWithErrorAndEmail redirects with an error message, preserving the
// entered email.
func redirectWithErrorAndEmail(w http.ResponseWriter, r *http.Request, path, errorMsg, email string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		fullPath += "&email=" + url.QueryEscape(email)
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
