package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteRoot+"{$}", ChainMiddleware(s.RootHandler(), s.HTMLMiddleWare()...))

	// LOGIN / SIGNUP
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare(s.RequirePublic)...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare(s.RequirePublic)...))
	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupGetHandler(), s.HTMLMiddleWare(s.RequirePublic)...))
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupPostHandler(), s.HTMLMiddleWare(s.RequirePublic)...))

	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.RequireSession(s.DashboardHandler()), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// API routes
	s.RegisterRouteHandler("POST "+RouteAPISignIn, ChainMiddleware(s.APISignInHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISignUp, ChainMiddleware(s.APISignUpHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIMe, ChainMiddleware(s.APIMeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS /api/auth/{action}", ChainMiddleware(http.NotFound, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", filePath).Msg("static file not served")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
