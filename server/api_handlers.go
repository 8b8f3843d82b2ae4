package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/internal/i18n"
	"github.com/jrsteele09/go-session-gateway/sessions"
	"github.com/rs/zerolog"
)

const (
	contentTypeJSON = "application/json"
	maxAPIBodyBytes = 64 << 10
)

// AuthResult is the JSON answer of the sign-in and sign-up actions.
type AuthResult struct {
	Success bool               `json:"success"`
	Code    string             `json:"code,omitempty"`
	Error   string             `json:"error,omitempty"`
	User    *identity.Identity `json:"user,omitempty"`
}

// APISignInHandler is the JSON counterpart of the login form.
func (s *Server) APISignInHandler() http.HandlerFunc {
	return s.credentialAction("signIn", http.StatusUnauthorized, s.auth.SignIn)
}

// APISignUpHandler is the JSON counterpart of the signup form.
func (s *Server) APISignUpHandler() http.HandlerFunc {
	return s.credentialAction("signUp", http.StatusBadRequest, s.auth.SignUp)
}

func (s *Server) credentialAction(op string, failureStatus int, submit func(ctx context.Context, cred identity.Credential) identity.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := s.language(w, r)

		var cred identity.Credential
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAPIBodyBytes)).Decode(&cred); err != nil {
			writeJSON(w, r, http.StatusBadRequest, AuthResult{Code: "invalid_request", Error: http.StatusText(http.StatusBadRequest)})
			return
		}
		cred.Email = strings.TrimSpace(cred.Email)
		if cred.Email == "" || cred.Password == "" {
			writeJSON(w, r, http.StatusBadRequest, AuthResult{Code: errCodeRequired, Error: i18n.T(tag, "form.required")})
			return
		}

		outcome := submit(r.Context(), cred)
		if !outcome.OK() {
			reason := outcome.Reason()
			status := failureStatus
			if reason == identity.ReasonServerError {
				status = http.StatusBadGateway
			}
			zerolog.Ctx(r.Context()).Info().Str("op", op).Str("reason", reason.String()).Msg("credential action failed")
			writeJSON(w, r, status, AuthResult{Code: reason.String(), Error: reason.Message(tag)})
			return
		}

		s.sessions.Persist(sessions.NewHTTPChannel(w, r), outcome.Token())
		writeJSON(w, r, http.StatusOK, AuthResult{Success: true, User: outcome.Identity()})
	}
}

// APIMeHandler returns the identity behind the session cookie.
func (s *Server) APIMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.guard.Protected(r.Context(), sessions.NewHTTPChannel(w, r))
		if d.IsRedirect() {
			writeJSON(w, r, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			return
		}
		writeJSON(w, r, http.StatusOK, d.Identity())
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Msg("failed to write json response")
	}
}
