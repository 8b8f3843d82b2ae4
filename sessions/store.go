// Package sessions owns the session cookies: it persists the provider-issued
// token pair on the transport channel, clears it on logout, and resolves the
// current identity from it.
package sessions

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	// TokenCookieName holds the bearer (ID) token.
	TokenCookieName = "session-token"
	// RefreshTokenCookieName holds the refresh token.
	RefreshTokenCookieName = "session-refresh-token"

	// DefaultRefreshTokenMaxAge is the fixed lifetime of the refresh cookie.
	DefaultRefreshTokenMaxAge = 30 * 24 * time.Hour
)

// Store writes and removes the session cookie pair.
type Store struct {
	secure        bool
	refreshMaxAge time.Duration
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithSecure sets the Secure attribute on every session cookie (production).
func WithSecure(secure bool) StoreOption {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithRefreshMaxAge overrides the refresh cookie lifetime.
func WithRefreshMaxAge(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.refreshMaxAge = d
		}
	}
}

// NewStore creates a Store.
func NewStore(options ...StoreOption) *Store {
	s := &Store{refreshMaxAge: DefaultRefreshTokenMaxAge}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Persist stores tok on ch, replacing any earlier token. The bearer cookie
// lives for the provider-supplied TTL; a zero TTL leaves no bearer cookie. The
// refresh cookie is written only when the provider issued a refresh token.
func (s *Store) Persist(ch Channel, tok *oauth2.Token) {
	if tok == nil || tok.AccessToken == "" {
		return
	}

	if tok.ExpiresIn > 0 {
		ch.SetCookie(s.cookie(TokenCookieName, tok.AccessToken, int(tok.ExpiresIn)))
	} else {
		ch.SetCookie(s.cookie(TokenCookieName, "", -1))
	}

	if tok.RefreshToken != "" {
		ch.SetCookie(s.cookie(RefreshTokenCookieName, tok.RefreshToken, int(s.refreshMaxAge.Seconds())))
	}
}

// Clear expires both session cookies. Clearing an absent session is a no-op
// from the caller's point of view.
func (s *Store) Clear(ch Channel) {
	ch.SetCookie(s.cookie(TokenCookieName, "", -1))
	ch.SetCookie(s.cookie(RefreshTokenCookieName, "", -1))
}

// BearerToken returns the bearer token currently on ch.
func (s *Store) BearerToken(ch Channel) (string, bool) {
	return ch.Cookie(TokenCookieName)
}

func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
}
