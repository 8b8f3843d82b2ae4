package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/sessions"
	"github.com/rs/zerolog"
)

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tag := s.language(w, r)
		data := s.newPageData(tag, "page.login.title")
		data.Email = s.takeFlashEmail(w, r, RouteLogin)
		data.Error = errorMessage(tag, r.URL.Query().Get("error"))
		renderPage(w, r, tmpl, data)
	}
}

// LoginSubmissionHandler processes the login form submission (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return s.credentialSubmission(RouteLogin, "signIn", s.auth.SignIn)
}

// credentialSubmission handles a login or signup form: on failure it returns
// to page with the reason code, on success it persists the session and sends
// the caller to the dashboard.
func (s *Server) credentialSubmission(page, op string, submit func(ctx context.Context, cred identity.Credential) identity.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.redirectWithError(w, r, page, errCodeRequired, email)
			return
		}

		outcome := submit(r.Context(), identity.Credential{Email: email, Password: password})
		if !outcome.OK() {
			zerolog.Ctx(r.Context()).Info().Str("op", op).Str("reason", outcome.Reason().String()).Msg("credential submission failed")
			s.redirectWithError(w, r, page, outcome.Reason().String(), email)
			return
		}

		s.sessions.Persist(sessions.NewHTTPChannel(w, r), outcome.Token())
		redirectSuccess(w, r, s.guard.LandingPath())
	}
}
