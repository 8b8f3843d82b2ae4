// Command idp-emulator runs the local identity provider emulator. Point the
// gateway at it with IDENTITY_BASE_URL=http://<addr>/v1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-gateway/emulator"
	"github.com/jrsteele09/go-session-gateway/emulator/keys"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// seedFlag collects repeated -seed email:password values.
type seedFlag []string

func (s *seedFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *seedFlag) Set(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("expected email:password, got %q", value)
	}
	*s = append(*s, value)
	return nil
}

func main() {
	var (
		addr       = flag.String("addr", ":9099", "listen address")
		apiKey     = flag.String("api-key", "local-api-key", "API key callers must pass as ?key=")
		projectID  = flag.String("project-id", "demo-project", "project id; the aud claim of issued tokens")
		tokenTTL   = flag.Duration("token-ttl", time.Hour, "ID token lifetime")
		signingKey = flag.String("signing-key", "", "PEM file holding the RSA signing key; generated and written when missing")
		protect    = flag.Bool("enumeration-protection", false, "report INVALID_LOGIN_CREDENTIALS instead of EMAIL_NOT_FOUND / INVALID_PASSWORD")
		seeds      seedFlag
	)
	flag.Var(&seeds, "seed", "account to create at startup as email:password (repeatable)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	if err := run(*addr, *apiKey, *projectID, *tokenTTL, *signingKey, *protect, seeds); err != nil {
		log.Fatal().Err(err).Msg("idp-emulator")
	}
}

func run(addr, apiKey, projectID string, tokenTTL time.Duration, signingKey string, protect bool, seeds []string) error {
	kp, err := loadOrCreateKey(signingKey)
	if err != nil {
		return err
	}

	emu, err := emulator.New(emulator.Options{
		APIKey:                apiKey,
		ProjectID:             projectID,
		TokenTTL:              tokenTTL,
		EnumerationProtection: protect,
		Keys:                  kp,
	})
	if err != nil {
		return err
	}

	for _, seed := range seeds {
		email, password, _ := strings.Cut(seed, ":")
		account, err := emu.Seed(email, password)
		if err != nil {
			return err
		}
		log.Info().Str("email", account.Email).Str("local_id", account.LocalID).Msg("seeded account")
	}

	srv := &http.Server{Addr: addr, Handler: emu, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("issuer", emu.Issuer()).Strs("routes", emu.Routes()).Msg("idp-emulator listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// loadOrCreateKey reads the signing key from path, or generates one and
// writes it there so restarts keep issued tokens valid. An empty path means an
// ephemeral key.
func loadOrCreateKey(path string) (*keys.KeyPair, error) {
	if path == "" {
		return keys.GenerateRSAKeyPair(uuid.NewString(), 2048)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return keys.LoadKeyPairFromPEM("emulator-"+uuid.NewSHA1(uuid.NameSpaceURL, data).String()[:8], string(data))
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	kp, err := keys.GenerateRSAKeyPair(uuid.NewString(), 2048)
	if err != nil {
		return nil, err
	}
	pemData, err := kp.ExportPrivateKeyPEM()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(pemData), 0o600); err != nil {
		return nil, fmt.Errorf("write signing key: %w", err)
	}
	kp.KeyID = "emulator-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(pemData)).String()[:8]
	log.Info().Str("path", path).Msg("generated signing key")
	return kp, nil
}
