package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-session-gateway/guard"
)

// errCodeRequired is the form-level error for an empty email or password.
const errCodeRequired = "required"

const (
	flashEmailCookieName = "flash_email"
	flashMaxAge          = 60 // seconds
)

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects. The error travels
// as a machine code; the page localises it. email is handed to the page in a
// short-lived flash cookie so it stays out of the URL.
func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, path, errorCode, email string) {
	if email != "" {
		http.SetCookie(w, s.flashCookie(path, url.QueryEscape(email), flashMaxAge))
	}
	redirectSuccess(w, r, path+"?"+url.Values{"error": {errorCode}}.Encode())
}

// takeFlashEmail returns the email left by redirectWithError and expires the
// flash cookie, so the value is shown at most once.
func (s *Server) takeFlashEmail(w http.ResponseWriter, r *http.Request, path string) string {
	c, err := r.Cookie(flashEmailCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, s.flashCookie(path, "", -1))
	email, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return email
}

func (s *Server) flashCookie(path, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashEmailCookieName,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.config.GetSecureCookies(),
		SameSite: http.SameSiteStrictMode,
	}
}

// performRedirect carries out a redirect decision.
func performRedirect(w http.ResponseWriter, r *http.Request, d guard.Decision) {
	redirectSuccess(w, r, d.Location())
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
