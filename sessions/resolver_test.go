package sessions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeVerifier records calls and accepts a single token.
type fakeVerifier struct {
	validToken string
	identity   identity.Identity
	calls      []string
}

func (f *fakeVerifier) Verify(_ context.Context, bearerToken string) *identity.Identity {
	f.calls = append(f.calls, bearerToken)
	if bearerToken != f.validToken {
		return nil
	}
	id := f.identity
	return &id
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{
		validToken: "valid-token",
		identity:   identity.Identity{SubjectID: "uid-1", Email: "john.doe@example.com"},
	}
}

func TestResolver_CurrentIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("no cookie means no remote call", func(t *testing.T) {
		verifier := newFakeVerifier()
		resolver := sessions.NewResolver(sessions.NewStore(), verifier)
		ch := sessions.NewHTTPChannel(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Nil(t, resolver.CurrentIdentity(ctx, ch))
		require.Empty(t, verifier.calls)
	})

	t.Run("valid cookie resolves", func(t *testing.T) {
		verifier := newFakeVerifier()
		resolver := sessions.NewResolver(sessions.NewStore(), verifier)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: sessions.TokenCookieName, Value: "valid-token"})

		id := resolver.CurrentIdentity(ctx, sessions.NewHTTPChannel(httptest.NewRecorder(), req))
		require.NotNil(t, id)
		require.Equal(t, "uid-1", id.SubjectID)
		require.Equal(t, []string{"valid-token"}, verifier.calls)
	})

	t.Run("rejected token resolves to nil", func(t *testing.T) {
		verifier := newFakeVerifier()
		resolver := sessions.NewResolver(sessions.NewStore(), verifier)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: sessions.TokenCookieName, Value: "expired-token"})

		require.Nil(t, resolver.CurrentIdentity(ctx, sessions.NewHTTPChannel(httptest.NewRecorder(), req)))
		require.Len(t, verifier.calls, 1)
	})

	t.Run("every call verifies again", func(t *testing.T) {
		verifier := newFakeVerifier()
		resolver := sessions.NewResolver(sessions.NewStore(), verifier)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: sessions.TokenCookieName, Value: "valid-token"})
		ch := sessions.NewHTTPChannel(httptest.NewRecorder(), req)

		resolver.CurrentIdentity(ctx, ch)
		resolver.CurrentIdentity(ctx, ch)
		require.Len(t, verifier.calls, 2)
	})

	t.Run("after clear", func(t *testing.T) {
		verifier := newFakeVerifier()
		store := sessions.NewStore()
		resolver := sessions.NewResolver(store, verifier)

		rec := httptest.NewRecorder()
		store.Persist(sessions.NewHTTPChannel(rec, nil), &oauth2.Token{AccessToken: "valid-token", ExpiresIn: 3600})

		// Next request carries the cookie from the sign-in response.
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		logoutRec := httptest.NewRecorder()
		ch := sessions.NewHTTPChannel(logoutRec, req)
		require.NotNil(t, resolver.CurrentIdentity(ctx, ch))

		store.Clear(ch)
		require.Nil(t, resolver.CurrentIdentity(ctx, ch))

		// A follow-up request without a new cookie has no session either.
		follow := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		for _, c := range logoutRec.Result().Cookies() {
			if c.MaxAge >= 0 && c.Value != "" {
				follow.AddCookie(c)
			}
		}
		require.Nil(t, resolver.CurrentIdentity(ctx, sessions.NewHTTPChannel(httptest.NewRecorder(), follow)))
		require.Len(t, verifier.calls, 1)
	})
}
