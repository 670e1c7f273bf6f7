package server

import (
	"net/http"

	"github.com/aionx/connect-dashboard/connections"
	"github.com/aionx/connect-dashboard/dashboard"
)

// ConnectionsPageData is the template model for the connections screen
type ConnectionsPageData struct {
	AppName     string
	Email       string
	Active      string // active nav item
	Theme       string
	Flashes     []Flash
	List        dashboard.ListSnapshot
	Form        dashboard.FormSnapshot
	ListLoading bool
	ListFailed  bool
	ListEmpty   bool
}

// ConnectionsPageHandler renders the connections list and creation form
func (s *Server) ConnectionsPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("connections.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		ctrl, err := s.controllersFor(sess.ID)
		if err != nil {
			s.renderErrorPage(w)
			return
		}

		ctrl.list.Refresh(r.Context(), sess.UserID)

		listSnap := ctrl.list.Snapshot()
		data := ConnectionsPageData{
			AppName:     s.config.GetAppName(),
			Email:       sess.Email,
			Active:      "connections",
			Theme:       sess.Theme,
			Flashes:     ctrl.flash.Pop(),
			List:        listSnap,
			Form:        ctrl.form.Snapshot(),
			ListLoading: listSnap.State == dashboard.ListLoading,
			ListFailed:  listSnap.State == dashboard.ListFailed,
			ListEmpty:   listSnap.State == dashboard.ListLoaded && len(listSnap.Connections) == 0,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering connections page")
		}
	}
}

// ConnectionCreateHandler submits the creation form
func (s *Server) ConnectionCreateHandler() http.HandlerFunc {
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

		ctrl, err := s.controllersFor(sess.ID)
		if err != nil {
			s.renderErrorPage(w)
			return
		}

		ctrl.form.SetValues(dashboard.FormValues{
			Name:      r.FormValue("name"),
			ServerID:  r.FormValue("server_id"),
			ChannelID: r.FormValue("channel_id"),
			Token:     r.FormValue("token"),
		})

		// Validation failures stay in the form snapshot; backend failures
		// land in the flash buffer. Either way the page re-renders with the
		// entered values preserved.
		_ = ctrl.form.Submit(r.Context(), sess.UserID)

		http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
	}
}

// ConnectionToggleHandler flips one connection's active flag
func (s *Server) ConnectionToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		ctrl, err := s.controllersFor(sess.ID)
		if err != nil {
			s.renderErrorPage(w)
			return
		}

		if conn, ok := s.findConnection(ctrl, r.PathValue("id")); ok {
			ctrl.list.ToggleActive(r.Context(), conn)
		} else {
			ctrl.flash.Error("Connection not found", "The connection no longer exists.")
		}

		http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
	}
}

// ConfirmDeletePageData is the template model for the delete confirmation
type ConfirmDeletePageData struct {
	AppName    string
	Email      string
	Connection connections.Connection
}

// ConnectionDeleteConfirmHandler renders the explicit confirmation step
// required before a destructive delete.
func (s *Server) ConnectionDeleteConfirmHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("confirm_delete.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		ctrl, err := s.controllersFor(sess.ID)
		if err != nil {
			s.renderErrorPage(w)
			return
		}

		conn, ok := s.findConnection(ctrl, r.PathValue("id"))
		if !ok {
			ctrl.flash.Error("Connection not found", "The connection no longer exists.")
			http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
			return
		}

		data := ConfirmDeletePageData{
			AppName:    s.config.GetAppName(),
			Email:      sess.Email,
			Connection: conn,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("rendering delete confirmation")
		}
	}
}

// ConnectionDeleteHandler performs the confirmed delete
func (s *Server) ConnectionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		ctrl, err := s.controllersFor(sess.ID)
		if err != nil {
			s.renderErrorPage(w)
			return
		}

		ctrl.list.Remove(r.Context(), r.PathValue("id"))
		http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
	}
}

// findConnection looks a connection up by id in the session's current list
// state.
func (s *Server) findConnection(ctrl *sessionControllers, id string) (connections.Connection, bool) {
	for _, conn := range ctrl.list.Snapshot().Connections {
		if conn.ID == id {
			return conn, true
		}
	}
	return connections.Connection{}, false
}
