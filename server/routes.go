package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// Public screens
	s.RegisterRouteFunc("GET "+RouteLogin, s.LoginPageHandler())
	s.RegisterRouteFunc("POST "+RouteLogin, s.LoginSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteRegister, s.RegisterPageHandler())
	s.RegisterRouteFunc("POST "+RouteRegister, s.RegisterSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())
	s.RegisterRouteFunc("POST "+RouteLogout, s.LogoutHandler())

	// Protected screens (cookie session auth)
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteConnections, ChainMiddleware(s.ConnectionsPageHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteConnections, ChainMiddleware(s.ConnectionCreateHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteConnToggle, ChainMiddleware(s.ConnectionToggleHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteConnDelete, ChainMiddleware(s.ConnectionDeleteConfirmHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteConnDelete, ChainMiddleware(s.ConnectionDeleteHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteSettings, ChainMiddleware(s.SettingsPageHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteSettings, ChainMiddleware(s.SettingsSubmissionHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteStatistics, ChainMiddleware(s.StatisticsHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteNotifications, ChainMiddleware(s.NotificationsHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.UsersHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))

	// Static assets
	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	fileServer := http.FileServer(http.FS(StaticFilesFS()))
	return func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	}
}
