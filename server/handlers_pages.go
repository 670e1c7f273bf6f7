package server

import (
	"net/http"

	"github.com/aionx/connect-dashboard/server/loginsession"
)

// DashboardPageData is the template model for the dashboard overview
type DashboardPageData struct {
	AppName     string
	Email       string
	Active      string
	Theme       string
	Flashes     []Flash
	TotalCount  int
	ActiveCount int
	LoadFailed  bool
}

// DashboardHandler renders the overview with connection counts
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		data := DashboardPageData{
			AppName: s.config.GetAppName(),
			Email:   sess.Email,
			Active:  "dashboard",
			Theme:   sess.Theme,
		}

		rows, err := s.repo.List(r.Context(), sess.UserID)
		if err != nil {
			s.log.Warn().Err(err).Msg("loading dashboard counts")
			data.LoadFailed = true
		} else {
			data.TotalCount = len(rows)
			for _, conn := range rows {
				if conn.Active {
					data.ActiveCount++
				}
			}
		}

		if ctrl, ctrlErr := s.controllersFor(sess.ID); ctrlErr == nil {
			data.Flashes = ctrl.flash.Pop()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering dashboard")
		}
	}
}

// SettingsPageData is the template model for the settings form
type SettingsPageData struct {
	AppName string
	Email   string
	Active  string
	Theme   string
	Flashes []Flash
	Profile loginsession.Session
	Notice  string
}

// SettingsPageHandler renders the profile settings form
func (s *Server) SettingsPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("settings.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		data := SettingsPageData{
			AppName: s.config.GetAppName(),
			Email:   sess.Email,
			Active:  "settings",
			Theme:   sess.Theme,
			Profile: sess,
			Notice:  r.URL.Query().Get("notice"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering settings")
		}
	}
}

// SettingsSubmissionHandler saves the settings form onto the login session
func (s *Server) SettingsSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		sess.DisplayName = r.FormValue("display_name")
		if theme := r.FormValue("theme"); theme == "dark" || theme == "light" {
			sess.Theme = theme
		}
		sess.EmailAlerts = r.FormValue("email_alerts") == "on"

		if err := s.loginSessions.Upsert(sess.ID, sess); err != nil {
			s.log.Error().Err(err).Msg("saving settings")
			http.Redirect(w, r, RouteSettings+"?notice=Could+not+save+settings", http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, RouteSettings+"?notice=Settings+saved", http.StatusSeeOther)
	}
}

// StatPoint is one mock data point on the statistics page
type StatPoint struct {
	Name         string
	Users        int
	Messages     int
	Interactions int
}

// StatisticsPageData is the template model for the statistics placeholder
type StatisticsPageData struct {
	AppName string
	Email   string
	Active  string
	Theme   string
	Weekly  []StatPoint
	Monthly []StatPoint
}

// StatisticsHandler renders the analytics placeholder with mock data
func (s *Server) StatisticsHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("statistics.html")

	// Placeholder numbers until real analytics land.
	weekly := []StatPoint{
		{Name: "Mon", Users: 40, Messages: 24, Interactions: 60},
		{Name: "Tue", Users: 30, Messages: 13, Interactions: 40},
		{Name: "Wed", Users: 20, Messages: 28, Interactions: 45},
		{Name: "Thu", Users: 27, Messages: 39, Interactions: 50},
		{Name: "Fri", Users: 18, Messages: 48, Interactions: 65},
		{Name: "Sat", Users: 23, Messages: 38, Interactions: 70},
		{Name: "Sun", Users: 34, Messages: 43, Interactions: 72},
	}
	monthly := []StatPoint{
		{Name: "Jan", Users: 200, Messages: 240, Interactions: 600},
		{Name: "Feb", Users: 250, Messages: 398, Interactions: 720},
		{Name: "Mar", Users: 280, Messages: 470, Interactions: 850},
		{Name: "Apr", Users: 320, Messages: 540, Interactions: 940},
		{Name: "May", Users: 400, Messages: 650, Interactions: 1200},
		{Name: "Jun", Users: 450, Messages: 700, Interactions: 1380},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		data := StatisticsPageData{
			AppName: s.config.GetAppName(),
			Email:   sess.Email,
			Active:  "statistics",
			Theme:   sess.Theme,
			Weekly:  weekly,
			Monthly: monthly,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering statistics")
		}
	}
}

// Notification is one mock entry on the notifications page
type Notification struct {
	Title   string
	Message string
	Level   string // success, warning, error, info
	When    string
}

// NotificationsPageData is the template model for the notifications placeholder
type NotificationsPageData struct {
	AppName       string
	Email         string
	Active        string
	Theme         string
	Notifications []Notification
}

// NotificationsHandler renders the notifications placeholder with mock data
func (s *Server) NotificationsHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("notifications.html")

	notifications := []Notification{
		{Title: "New connection added", Message: "The connection 'Main Bot' was added successfully.", Level: "success", When: "5 minutes ago"},
		{Title: "System notice", Message: "The upstream API is experiencing instability. Some features may be affected.", Level: "warning", When: "1 hour ago"},
		{Title: "Usage limit reached", Message: "Your account is close to the monthly limit. Consider upgrading to the Pro plan.", Level: "error", When: "3 hours ago"},
		{Title: "Welcome", Message: "Welcome to the platform! Start by exploring the features.", Level: "info", When: "1 day ago"},
		{Title: "Scheduled maintenance", Message: "Maintenance is scheduled for Sunday between 02:00 and 04:00. The system may be unavailable.", Level: "info", When: "2 days ago"},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		data := NotificationsPageData{
			AppName:       s.config.GetAppName(),
			Email:         sess.Email,
			Active:        "notifications",
			Theme:         sess.Theme,
			Notifications: notifications,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering notifications")
		}
	}
}

// MockUser is one mock entry on the user management page
type MockUser struct {
	Name       string
	Email      string
	Role       string // Admin, Moderator, User
	Active     bool
	LastActive string
}

// UsersPageData is the template model for the user management placeholder
type UsersPageData struct {
	AppName string
	Email   string
	Active  string
	Theme   string
	Users   []MockUser
}

// UsersHandler renders the user management placeholder with mock data
func (s *Server) UsersHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("users.html")

	users := []MockUser{
		{Name: "Alex Silva", Email: "alex.silva@example.com", Role: "Admin", Active: true, LastActive: "Now"},
		{Name: "Bianca Mendes", Email: "bianca.m@example.com", Role: "Moderator", Active: true, LastActive: "5 minutes ago"},
		{Name: "Carlos Lima", Email: "carlos.lima@example.com", Role: "User", Active: false, LastActive: "3 days ago"},
		{Name: "Daniela Costa", Email: "dani.costa@example.com", Role: "User", Active: true, LastActive: "1 hour ago"},
		{Name: "Eduardo Santos", Email: "edu.santos@example.com", Role: "Moderator", Active: true, LastActive: "20 minutes ago"},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		data := UsersPageData{
			AppName: s.config.GetAppName(),
			Email:   sess.Email,
			Active:  "users",
			Theme:   sess.Theme,
			Users:   users,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering users")
		}
	}
}

// renderErrorPage serves the global fallback with a way back to the start.
func (s *Server) renderErrorPage(w http.ResponseWriter) {
	tmpl, err := ParseTemplate("error.html")
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = tmpl.Execute(w, map[string]string{"AppName": s.config.GetAppName()})
}
