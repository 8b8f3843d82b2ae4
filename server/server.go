package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-gateway/guard"
	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/internal/i18n"
	"github.com/jrsteele09/go-session-gateway/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// AuthClient signs users in and up at the identity provider.
type AuthClient interface {
	SignIn(ctx context.Context, cred identity.Credential) identity.Outcome
	SignUp(ctx context.Context, cred identity.Credential) identity.Outcome
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	auth        AuthClient
	sessions    *sessions.Store
	guard       *guard.Guard
	defaultLang language.Tag
}

func New(config config.Config, auth AuthClient, store *sessions.Store, g *guard.Guard) (*Server, error) {
	if auth == nil || store == nil || g == nil {
		return nil, fmt.Errorf("[Server New] auth client, session store and guard are required")
	}

	s := &Server{
		env:         config.GetEnv(),
		mux:         http.NewServeMux(),
		config:      config,
		auth:        auth,
		sessions:    store,
		guard:       g,
		defaultLang: i18n.MustTag(config.GetDefaultLocale()),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered route patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colouredMethod(method), path)
}

// language resolves the caller's language and persists an explicit ?lang=
// choice.
func (s *Server) language(w http.ResponseWriter, r *http.Request) language.Tag {
	tag, persist := i18n.ResolveTag(r, s.defaultLang)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return tag
}
