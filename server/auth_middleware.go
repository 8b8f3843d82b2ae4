package server

import (
	"net/http"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/sessions"
)

// ProtectedHandler serves a view that needs a signed-in caller. The identity
// is resolved for this request only.
type ProtectedHandler func(w http.ResponseWriter, r *http.Request, id identity.Identity)

// RequirePublic is middleware for public-only views: a signed-in caller is
// redirected to the landing view.
func (s *Server) RequirePublic(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.guard.Public(r.Context(), sessions.NewHTTPChannel(w, r))
		if d.IsRedirect() {
			performRedirect(w, r, d)
			return
		}
		next(w, r)
	}
}

// RequireSession resolves the session and hands the identity to next, or
// redirects to the entry view.
func (s *Server) RequireSession(next ProtectedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.guard.Protected(r.Context(), sessions.NewHTTPChannel(w, r))
		if d.IsRedirect() {
			performRedirect(w, r, d)
			return
		}
		next(w, r, *d.Identity())
	}
}

// RootHandler sends the caller to the dashboard or the login page.
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		performRedirect(w, r, s.guard.Root(r.Context(), sessions.NewHTTPChannel(w, r)))
	}
}

// LogoutHandler clears both session cookies and returns to the login page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		performRedirect(w, r, s.guard.Logout(sessions.NewHTTPChannel(w, r)))
	}
}
