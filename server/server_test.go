package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/go-session-gateway/emulator"
	"github.com/jrsteele09/go-session-gateway/guard"
	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/server"
	"github.com/jrsteele09/go-session-gateway/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testAPIKey    = "test-api-key"
	testProjectID = "demo-project"
	testEmail     = "john@example.com"
	testPassword  = "password123"
)

type fixture struct {
	emu    *emulator.Emulator
	srv    *httptest.Server
	client *http.Client
}

// newFixture wires the gateway against an in-process provider emulator and
// returns a browser-like client that keeps cookies and does not follow
// redirects.
func newFixture(t *testing.T, locale string) fixture {
	t.Helper()
	emu, err := emulator.New(emulator.Options{APIKey: testAPIKey, ProjectID: testProjectID})
	require.NoError(t, err)
	_, err = emu.Seed(testEmail, testPassword)
	require.NoError(t, err)
	idp := httptest.NewServer(emu)
	t.Cleanup(idp.Close)

	cfg := config.EnvVars{
		Env:             "DEV",
		AppName:         "Session Gateway",
		DefaultLocale:   locale,
		APIKey:          testAPIKey,
		IdentityBaseURL: idp.URL + "/v1",
	}
	idClient, err := identity.NewClient(cfg)
	require.NoError(t, err)
	store := sessions.NewStore(sessions.WithSecure(cfg.GetSecureCookies()))
	g := guard.New(sessions.NewResolver(store, idClient), store)

	s, err := server.New(cfg, idClient, store, g)
	require.NoError(t, err)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return fixture{emu: emu, srv: srv, client: client}
}

func (f fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (f fixture) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := f.client.PostForm(f.srv.URL+path, form)
	require.NoError(t, err)
	readBody(t, resp)
	return resp
}

func (f fixture) postJSON(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := f.client.Post(f.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &out))
	return resp, out
}

func (f fixture) login(t *testing.T) {
	t.Helper()
	resp := f.postForm(t, server.RouteLogin, url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func requireRedirect(t *testing.T, resp *http.Response, path string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, path, loc.Path)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAnonymousRedirects(t *testing.T) {
	f := newFixture(t, "en")

	resp, _ := f.get(t, "/")
	requireRedirect(t, resp, server.RouteLogin)

	resp, _ = f.get(t, server.RouteDashboard)
	requireRedirect(t, resp, server.RouteLogin)

	resp, body := f.get(t, server.RouteLogin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `action="/login"`)
	require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = f.get(t, server.RouteSignup)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `action="/signup"`)
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t, "en")

	resp := f.postForm(t, server.RouteLogin, url.Values{"email": {testEmail}, "password": {testPassword}})
	requireRedirect(t, resp, server.RouteDashboard)

	token := findCookie(resp, sessions.TokenCookieName)
	require.NotNil(t, token)
	require.NotEmpty(t, token.Value)
	require.True(t, token.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, token.SameSite)
	require.Equal(t, 3600, token.MaxAge)
	require.Equal(t, "/", token.Path)
	require.False(t, token.Secure)

	refresh := findCookie(resp, sessions.RefreshTokenCookieName)
	require.NotNil(t, refresh)
	require.Equal(t, int(sessions.DefaultRefreshTokenMaxAge.Seconds()), refresh.MaxAge)

	resp, body := f.get(t, server.RouteDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Hello, john@example.com!")
	require.Contains(t, body, `action="/logout"`)

	resp, _ = f.get(t, server.RouteLogin)
	requireRedirect(t, resp, server.RouteDashboard)
	resp, _ = f.get(t, "/")
	requireRedirect(t, resp, server.RouteDashboard)

	resp = f.postForm(t, server.RouteLogout, nil)
	requireRedirect(t, resp, server.RouteLogin)
	cleared := findCookie(resp, sessions.TokenCookieName)
	require.NotNil(t, cleared)
	require.Less(t, cleared.MaxAge, 0)

	resp, _ = f.get(t, server.RouteDashboard)
	requireRedirect(t, resp, server.RouteLogin)

	// logging out twice is harmless
	resp = f.postForm(t, server.RouteLogout, nil)
	requireRedirect(t, resp, server.RouteLogin)
}

// fixedAuth answers every credential submission with the same token and
// accepts exactly that token as a session.
type fixedAuth struct {
	id  identity.Identity
	tok *oauth2.Token
}

func (a fixedAuth) SignIn(context.Context, identity.Credential) identity.Outcome {
	return identity.Success(a.id, a.tok)
}

func (a fixedAuth) SignUp(context.Context, identity.Credential) identity.Outcome {
	return identity.Success(a.id, a.tok)
}

func (a fixedAuth) Verify(_ context.Context, bearerToken string) *identity.Identity {
	if bearerToken != a.tok.AccessToken {
		return nil
	}
	id := a.id
	return &id
}

func TestLoginStoresIssuedToken(t *testing.T) {
	auth := fixedAuth{
		id:  identity.Identity{SubjectID: "uid-7", Email: testEmail},
		tok: &oauth2.Token{AccessToken: "issued-id-token", RefreshToken: "issued-refresh-token", ExpiresIn: 1800},
	}
	cfg := config.EnvVars{Env: "DEV", AppName: "Session Gateway", DefaultLocale: "en", APIKey: testAPIKey}
	store := sessions.NewStore()
	s, err := server.New(cfg, auth, store, guard.New(sessions.NewResolver(store, auth), store))
	require.NoError(t, err)

	for _, path := range []string{server.RouteLogin, server.RouteSignup} {
		t.Run(path, func(t *testing.T) {
			form := url.Values{"email": {testEmail}, "password": {testPassword}}
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			resp := rec.Result()

			requireRedirect(t, resp, server.RouteDashboard)
			token := findCookie(resp, sessions.TokenCookieName)
			require.NotNil(t, token)
			require.Equal(t, "issued-id-token", token.Value)
			require.Equal(t, 1800, token.MaxAge)
			refresh := findCookie(resp, sessions.RefreshTokenCookieName)
			require.NotNil(t, refresh)
			require.Equal(t, "issued-refresh-token", refresh.Value)

			req = httptest.NewRequest(http.MethodGet, server.RouteDashboard, nil)
			req.AddCookie(token)
			rec = httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), "Hello, john@example.com!")
		})
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t, "en")

	t.Run("wrong password", func(t *testing.T) {
		resp := f.postForm(t, server.RouteLogin, url.Values{"email": {testEmail}, "password": {"wrong-password"}})
		requireRedirect(t, resp, server.RouteLogin)
		require.Nil(t, findCookie(resp, sessions.TokenCookieName))

		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		require.Equal(t, identity.ReasonWrongPassword.String(), loc.Query().Get("error"))
		require.NotContains(t, resp.Header.Get("Location"), "example.com")

		flash := findCookie(resp, "flash_email")
		require.NotNil(t, flash)
		require.Equal(t, server.RouteLogin, flash.Path)
		require.True(t, flash.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, flash.SameSite)

		resp, body := f.get(t, loc.RequestURI())
		require.Contains(t, body, "The password is incorrect.")
		require.Contains(t, body, `value="john@example.com"`)
		cleared := findCookie(resp, "flash_email")
		require.NotNil(t, cleared)
		require.Less(t, cleared.MaxAge, 0)

		// the email is shown once
		_, body = f.get(t, loc.RequestURI())
		require.NotContains(t, body, `value="john@example.com"`)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := f.postForm(t, server.RouteLogin, url.Values{"email": {"nobody@example.com"}, "password": {testPassword}})
		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		require.Equal(t, identity.ReasonEmailNotFound.String(), loc.Query().Get("error"))
	})

	t.Run("empty form", func(t *testing.T) {
		resp := f.postForm(t, server.RouteLogin, url.Values{"email": {testEmail}})
		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "required", loc.Query().Get("error"))

		_, body := f.get(t, loc.RequestURI())
		require.Contains(t, body, "Email and password are required.")
	})

	t.Run("unknown error code is not shown", func(t *testing.T) {
		_, body := f.get(t, server.RouteLogin+"?error=%3Cscript%3E")
		require.NotContains(t, body, `class="alert"`)
	})
}

func TestLocalisedLoginError(t *testing.T) {
	f := newFixture(t, "ko")

	resp := f.postForm(t, server.RouteLogin, url.Values{"email": {"nobody@example.com"}, "password": {testPassword}})
	_, body := f.get(t, resp.Header.Get("Location"))
	require.Contains(t, body, "등록되지 않은 이메일입니다.")

	require.Contains(t, body, `<a href="?lang=en" lang="en">English</a>`)
	require.Contains(t, body, `<span lang="ko">한국어</span>`)

	resp, body = f.get(t, server.RouteLogin+"?lang=en&error=email_not_found")
	require.Contains(t, body, "This email is not registered.")
	require.Contains(t, body, `<a href="?lang=ko" lang="ko">한국어</a>`)
	lang := findCookie(resp, "lang")
	require.NotNil(t, lang)
	require.Equal(t, "en", lang.Value)
}

func TestSignupFlow(t *testing.T) {
	f := newFixture(t, "en")

	resp := f.postForm(t, server.RouteSignup, url.Values{"email": {testEmail}, "password": {testPassword}})
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, server.RouteSignup, loc.Path)
	require.Equal(t, identity.ReasonEmailInUse.String(), loc.Query().Get("error"))

	resp = f.postForm(t, server.RouteSignup, url.Values{"email": {"new@example.com"}, "password": {"12345"}})
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, identity.ReasonWeakPassword.String(), loc.Query().Get("error"))

	resp = f.postForm(t, server.RouteSignup, url.Values{"email": {"new@example.com"}, "password": {"secret1"}})
	requireRedirect(t, resp, server.RouteDashboard)
	require.NotNil(t, findCookie(resp, sessions.TokenCookieName))
	require.NotNil(t, findCookie(resp, sessions.RefreshTokenCookieName))

	_, body := f.get(t, server.RouteDashboard)
	require.Contains(t, body, "Hello, new@example.com!")
}

func TestHTMXRedirect(t *testing.T) {
	f := newFixture(t, "en")

	req, err := http.NewRequest(http.MethodPost, f.srv.URL+server.RouteLogin, strings.NewReader(url.Values{"email": {testEmail}, "password": {testPassword}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, resp.Header.Get("HX-Redirect"))
}

func TestJSONActions(t *testing.T) {
	f := newFixture(t, "en")

	resp, body := f.get(t, server.RouteAPIMe)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, body)

	resp, out := f.postJSON(t, server.RouteAPISignIn, map[string]string{"email": testEmail, "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, false, out["success"])
	require.Equal(t, "wrong_password", out["code"])
	require.Equal(t, "The password is incorrect.", out["error"])

	resp, out = f.postJSON(t, server.RouteAPISignIn, map[string]string{"email": "", "password": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "required", out["code"])

	resp, out = f.postJSON(t, server.RouteAPISignIn, map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["success"])
	user, ok := out["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, testEmail, user["email"])
	require.NotEmpty(t, user["uid"])

	resp, body = f.get(t, server.RouteAPIMe)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me identity.Identity
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	require.Equal(t, testEmail, me.Email)
	require.Equal(t, user["uid"], me.SubjectID)

	resp, out = f.postJSON(t, server.RouteAPISignUp, map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "email_in_use", out["code"])
}

func TestProviderUnavailable(t *testing.T) {
	idp := httptest.NewServer(http.NotFoundHandler())
	idpURL := idp.URL
	idp.Close()

	cfg := config.EnvVars{Env: "DEV", DefaultLocale: "en", APIKey: testAPIKey, IdentityBaseURL: idpURL}
	idClient, err := identity.NewClient(cfg)
	require.NoError(t, err)
	store := sessions.NewStore()
	s, err := server.New(cfg, idClient, store, guard.New(sessions.NewResolver(store, idClient), store))
	require.NoError(t, err)

	// a stale cookie with an unreachable provider resolves to no identity
	req := httptest.NewRequest(http.MethodGet, server.RouteDashboard, nil)
	req.AddCookie(&http.Cookie{Name: sessions.TokenCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteLogin, rec.Header().Get("Location"))

	form := url.Values{"email": {testEmail}, "password": {testPassword}}
	req = httptest.NewRequest(http.MethodPost, server.RouteLogin, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, identity.ReasonServerError.String(), loc.Query().Get("error"))
}

func TestNew(t *testing.T) {
	_, err := server.New(config.EnvVars{}, nil, nil, nil)
	require.Error(t, err)

	auth := fixedAuth{tok: &oauth2.Token{AccessToken: "t"}}
	store := sessions.NewStore()
	s, err := server.New(config.EnvVars{Env: "PROD", APIKey: testAPIKey}, auth, store, guard.New(sessions.NewResolver(store, auth), store))
	require.NoError(t, err)
	require.Subset(t, s.Routes(), []string{
		"GET /{$}",
		"GET " + server.RouteLogin,
		"POST " + server.RouteLogin,
		"GET " + server.RouteSignup,
		"POST " + server.RouteSignup,
		"GET " + server.RouteDashboard,
		"POST " + server.RouteLogout,
		"POST " + server.RouteAPISignIn,
		"POST " + server.RouteAPISignUp,
		"GET " + server.RouteAPIMe,
		"GET " + server.RouteHealth,
	})
}

func TestStaticAndHealth(t *testing.T) {
	f := newFixture(t, "en")

	resp, body := f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)

	resp, body = f.get(t, "/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.Contains(t, body, ".card")

	resp, _ = f.get(t, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
