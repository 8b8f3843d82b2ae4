// Package identity talks to the hosted identity provider. Every operation
// returns an Outcome (or a nil Identity for lookups); expected provider
// failures are reported as a Reason, never as a Go error.
package identity

import (
	"golang.org/x/oauth2"
)

// Credential is the sign-in / sign-up payload. It is never stored or logged.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the provider's view of the signed-in user. It is rebuilt from a
// live lookup on every request.
type Identity struct {
	SubjectID string `json:"uid"`
	Email     string `json:"email"`
}

// Outcome is the result of SignIn and SignUp: either a success carrying the
// identity and the issued session token, or a failure carrying a Reason.
type Outcome struct {
	identity *Identity
	token    *oauth2.Token
	reason   Reason
}

// Success builds a successful outcome.
func Success(id Identity, token *oauth2.Token) Outcome {
	return Outcome{identity: &id, token: token}
}

// Failure builds a failed outcome. A zero reason is coerced to ReasonServerError
// so that a failure can never be mistaken for a success.
func Failure(reason Reason) Outcome {
	if reason == ReasonNone {
		reason = ReasonServerError
	}
	return Outcome{reason: reason}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.identity != nil && o.reason == ReasonNone
}

// Identity returns the signed-in identity; nil on failure.
func (o Outcome) Identity() *Identity {
	return o.identity
}

// Token returns the issued session token; nil on failure.
func (o Outcome) Token() *oauth2.Token {
	return o.token
}

// Reason returns the failure reason; ReasonNone on success.
func (o Outcome) Reason() Reason {
	return o.reason
}
