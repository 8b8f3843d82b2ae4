package identity

import (
	"strings"

	"github.com/jrsteele09/go-session-gateway/internal/i18n"
	"golang.org/x/text/language"
)

// Reason is the closed set of user-facing failure reasons.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmailNotFound
	ReasonWrongPassword
	ReasonInvalidCredentials
	ReasonTooManyAttempts
	ReasonInvalidEmail
	ReasonAccountDisabled
	ReasonSignInFailed
	ReasonEmailInUse
	ReasonWeakPassword
	ReasonSignUpFailed
	ReasonServerError
)

var reasonCodes = map[Reason]string{
	ReasonNone:               "",
	ReasonEmailNotFound:      "email_not_found",
	ReasonWrongPassword:      "wrong_password",
	ReasonInvalidCredentials: "invalid_credentials",
	ReasonTooManyAttempts:    "too_many_attempts",
	ReasonInvalidEmail:       "invalid_email",
	ReasonAccountDisabled:    "account_disabled",
	ReasonSignInFailed:       "sign_in_failed",
	ReasonEmailInUse:         "email_in_use",
	ReasonWeakPassword:       "weak_password",
	ReasonSignUpFailed:       "sign_up_failed",
	ReasonServerError:        "server_error",
}

// String returns the stable machine code, e.g. "email_not_found".
func (r Reason) String() string {
	if code, ok := reasonCodes[r]; ok {
		return code
	}
	return reasonCodes[ReasonServerError]
}

// Message returns the localised text shown to the user.
func (r Reason) Message(tag language.Tag) string {
	if r == ReasonNone {
		return ""
	}
	return i18n.T(tag, "reason."+r.String())
}

// ParseReason maps a machine code back to a Reason. Unknown or empty codes
// return ReasonNone and false.
func ParseReason(code string) (Reason, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ReasonNone, false
	}
	for r, c := range reasonCodes {
		if c == code {
			return r, true
		}
	}
	return ReasonNone, false
}

// Provider error codes.
const (
	codeEmailNotFound           = "EMAIL_NOT_FOUND"
	codeInvalidPassword         = "INVALID_PASSWORD"
	codeInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
	codeTooManyAttempts         = "TOO_MANY_ATTEMPTS_TRY_LATER"
	codeInvalidEmail            = "INVALID_EMAIL"
	codeUserDisabled            = "USER_DISABLED"
	codeEmailExists             = "EMAIL_EXISTS"
	codeWeakPassword            = "WEAK_PASSWORD"
)

// normalizeCode strips the human readable suffix the provider appends to some
// codes ("WEAK_PASSWORD : Password should be at least 6 characters").
func normalizeCode(message string) string {
	code, _, _ := strings.Cut(message, ":")
	return strings.ToUpper(strings.TrimSpace(code))
}

// SignInReason maps a provider error message from the password sign-in
// endpoint to a Reason.
func SignInReason(message string) Reason {
	switch normalizeCode(message) {
	case codeEmailNotFound:
		return ReasonEmailNotFound
	case codeInvalidPassword:
		return ReasonWrongPassword
	case codeInvalidLoginCredentials:
		return ReasonInvalidCredentials
	case codeTooManyAttempts:
		return ReasonTooManyAttempts
	case codeInvalidEmail:
		return ReasonInvalidEmail
	case codeUserDisabled:
		return ReasonAccountDisabled
	default:
		return ReasonSignInFailed
	}
}

// SignUpReason maps a provider error message from the account creation
// endpoint to a Reason.
func SignUpReason(message string) Reason {
	switch normalizeCode(message) {
	case codeEmailExists:
		return ReasonEmailInUse
	case codeWeakPassword:
		return ReasonWeakPassword
	case codeInvalidEmail:
		return ReasonInvalidEmail
	default:
		return ReasonSignUpFailed
	}
}
