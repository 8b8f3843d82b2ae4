package identity

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Provider endpoint paths, relative to the configured base URL.
const (
	EndpointSignIn = "/accounts:signInWithPassword"
	EndpointSignUp = "/accounts:signUp"
	EndpointLookup = "/accounts:lookup"
)

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

// authResponse is the body of a successful sign-in or sign-up.
type authResponse struct {
	Kind         string `json:"kind,omitempty"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Registered   bool   `json:"registered,omitempty"`
}

type lookupUser struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type lookupResponse struct {
	Kind  string       `json:"kind,omitempty"`
	Users []lookupUser `json:"users"`
}

// errorBody is the provider's error envelope: {"error":{"code":400,"message":"EMAIL_NOT_FOUND"}}.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// expiresInSeconds parses the decimal expiresIn string. Anything unparsable or
// negative is treated as zero.
func (r authResponse) expiresInSeconds() int64 {
	secs, err := strconv.ParseInt(strings.TrimSpace(r.ExpiresIn), 10, 64)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

func (r authResponse) token(now time.Time) *oauth2.Token {
	secs := r.expiresInSeconds()
	tok := &oauth2.Token{
		AccessToken:  r.IDToken,
		TokenType:    "Bearer",
		RefreshToken: r.RefreshToken,
		ExpiresIn:    secs,
	}
	if secs > 0 {
		tok.Expiry = now.Add(time.Duration(secs) * time.Second)
	}
	return tok
}
