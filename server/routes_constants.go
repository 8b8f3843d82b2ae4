package server

import "github.com/jrsteele09/go-session-gateway/guard"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteRoot = "/"

	// Pages
	RouteLogin     = guard.EntryPath
	RouteSignup    = "/signup"
	RouteDashboard = guard.LandingPath
	RouteLogout    = "/logout"

	// JSON actions
	RouteAPISignIn = "/api/auth/sign-in"
	RouteAPISignUp = "/api/auth/sign-up"
	RouteAPIMe     = "/api/auth/me"

	RouteHealth = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
