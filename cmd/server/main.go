package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-session-gateway/guard"
	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/identity/idtoken"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/server"
	"github.com/jrsteele09/go-session-gateway/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, err := newHandler(ctx, c)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func newHandler(ctx context.Context, c config.Config) (http.Handler, error) {
	var options []identity.ClientOption
	preCheck, err := idtoken.New(ctx, c)
	switch {
	case errors.Is(err, idtoken.ErrDisabled):
		log.Info().Msg("ID token pre-check disabled: PROJECT_ID not set")
	case err != nil:
		return nil, fmt.Errorf("id token pre-check: %w", err)
	default:
		log.Info().Str("issuer", c.GetIDTokenIssuer()).Msg("ID token pre-check enabled")
		options = append(options, identity.WithTokenPreCheck(preCheck))
	}

	client, err := identity.NewClient(c, options...)
	if err != nil {
		return nil, err
	}

	store := sessions.NewStore(
		sessions.WithSecure(c.GetSecureCookies()),
		sessions.WithRefreshMaxAge(c.GetRefreshTokenMaxAge()),
	)
	resolver := sessions.NewResolver(store, client)
	s, err := server.New(c, client, store, guard.New(resolver, store))
	if err != nil {
		return nil, err
	}
	log.Info().Strs("routes", s.Routes()).Msg("Routes registered")
	return s, nil
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = log.With().Str("app", c.GetAppName()).Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
