package identity_test

import (
	"testing"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/internal/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestReasonCodesRoundTrip(t *testing.T) {
	all := []identity.Reason{
		identity.ReasonEmailNotFound,
		identity.ReasonWrongPassword,
		identity.ReasonInvalidCredentials,
		identity.ReasonTooManyAttempts,
		identity.ReasonInvalidEmail,
		identity.ReasonAccountDisabled,
		identity.ReasonSignInFailed,
		identity.ReasonEmailInUse,
		identity.ReasonWeakPassword,
		identity.ReasonSignUpFailed,
		identity.ReasonServerError,
	}
	for _, r := range all {
		got, ok := identity.ParseReason(r.String())
		require.True(t, ok, r.String())
		require.Equal(t, r, got)
		require.NotEmpty(t, r.Message(language.Korean))
		require.NotEmpty(t, r.Message(language.English))
	}

	_, ok := identity.ParseReason("nope")
	require.False(t, ok)
	_, ok = identity.ParseReason("")
	require.False(t, ok)
}

func TestReasonMessage(t *testing.T) {
	require.Equal(t, "등록되지 않은 이메일입니다.", identity.ReasonEmailNotFound.Message(i18n.MustTag("ko")))
	require.Equal(t, "This email is not registered.", identity.ReasonEmailNotFound.Message(language.English))
	require.Empty(t, identity.ReasonNone.Message(language.English))
}

func TestSignInReason(t *testing.T) {
	require.Equal(t, identity.ReasonTooManyAttempts, identity.SignInReason("TOO_MANY_ATTEMPTS_TRY_LATER : Try again later."))
	require.Equal(t, identity.ReasonEmailNotFound, identity.SignInReason(" email_not_found "))
	require.Equal(t, identity.ReasonSignInFailed, identity.SignInReason(""))
	require.Equal(t, identity.ReasonSignInFailed, identity.SignInReason("EMAIL_EXISTS"))
}

func TestSignUpReason(t *testing.T) {
	require.Equal(t, identity.ReasonWeakPassword, identity.SignUpReason("WEAK_PASSWORD : Password should be at least 6 characters"))
	require.Equal(t, identity.ReasonSignUpFailed, identity.SignUpReason("EMAIL_NOT_FOUND"))
}

func TestFailureNeverSucceeds(t *testing.T) {
	out := identity.Failure(identity.ReasonNone)
	require.False(t, out.OK())
	require.Equal(t, identity.ReasonServerError, out.Reason())
}
