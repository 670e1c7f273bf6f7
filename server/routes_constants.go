package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public routes
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"

	// Protected routes
	RouteDashboard     = "/dashboard"
	RouteConnections   = "/connections"
	RouteConnToggle    = "/connections/{id}/toggle"
	RouteConnDelete    = "/connections/{id}/delete"
	RouteSettings      = "/settings"
	RouteStatistics    = "/statistics"
	RouteNotifications = "/notifications"
	RouteUsers         = "/users"

	// Static asset routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
