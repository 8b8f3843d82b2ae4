// Package emulator is a local stand-in for the hosted identity provider. It
// speaks the same password sign-in, sign-up and token lookup wire format, so
// the gateway can be developed and tested without network access.
package emulator

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-gateway/emulator/accounts"
	"github.com/jrsteele09/go-session-gateway/emulator/keys"
	errs "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultTokenTTL      = time.Hour
	defaultLockoutBurst  = 5
	defaultLockoutRefill = time.Minute
	issuerPrefix         = "https://securetoken.google.com/"
)

// Options configures an Emulator. Zero values take the defaults noted on each
// field.
type Options struct {
	APIKey    string // required
	ProjectID string // required; the token audience
	Issuer    string // default https://securetoken.google.com/<ProjectID>

	TokenTTL time.Duration // default 1h

	// Failed password attempts per email allowed before
	// TOO_MANY_ATTEMPTS_TRY_LATER, and the refill interval of one attempt.
	LockoutBurst  int           // default 5
	LockoutRefill time.Duration // default 1m

	// EnumerationProtection reports INVALID_LOGIN_CREDENTIALS instead of
	// EMAIL_NOT_FOUND / INVALID_PASSWORD.
	EnumerationProtection bool

	Keys     *keys.KeyPair    // generated when nil
	Accounts accounts.Repo    // in-memory when nil
	Now      func() time.Time // default time.Now
}

// Emulator serves the provider endpoints.
type Emulator struct {
	opts     Options
	mux      *http.ServeMux
	routes   []string
	accounts accounts.Repo
	keys     *keys.KeyPair

	limitersLock sync.Mutex
	limiters     map[string]*rate.Limiter // normalized email -> failed attempts
}

// New creates an Emulator.
func New(opts Options) (*Emulator, error) {
	if opts.APIKey == "" {
		return nil, errs.New("[emulator New] api key is required")
	}
	if opts.ProjectID == "" {
		return nil, errs.New("[emulator New] project id is required")
	}
	if opts.Issuer == "" {
		opts.Issuer = issuerPrefix + opts.ProjectID
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.LockoutBurst <= 0 {
		opts.LockoutBurst = defaultLockoutBurst
	}
	if opts.LockoutRefill <= 0 {
		opts.LockoutRefill = defaultLockoutRefill
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Accounts == nil {
		opts.Accounts = accounts.NewInMemoryRepo()
	}
	if opts.Keys == nil {
		kp, err := keys.GenerateRSAKeyPair(uuid.NewString(), 2048)
		if err != nil {
			return nil, errs.Wrapf(err, "[emulator New] signing key")
		}
		opts.Keys = kp
	}

	e := &Emulator{
		opts:     opts,
		mux:      http.NewServeMux(),
		accounts: opts.Accounts,
		keys:     opts.Keys,
		limiters: make(map[string]*rate.Limiter),
	}
	e.initRoutes()
	return e, nil
}

func (e *Emulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.mux.ServeHTTP(w, r)
}

func (e *Emulator) registerRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	e.routes = append(e.routes, pattern)
	e.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered route patterns.
func (e *Emulator) Routes() []string {
	return append([]string(nil), e.routes...)
}

// Issuer returns the iss claim of issued tokens.
func (e *Emulator) Issuer() string {
	return e.opts.Issuer
}

// ProjectID returns the aud claim of issued tokens.
func (e *Emulator) ProjectID() string {
	return e.opts.ProjectID
}

// Seed creates an account directly, bypassing the sign-up rules except for
// email syntax.
func (e *Emulator) Seed(email, password string) (accounts.Account, error) {
	if err := accounts.ValidateEmail(email); err != nil {
		return accounts.Account{}, errs.Wrapf(err, "[emulator Seed]")
	}
	hash, err := accounts.HashPassword(password)
	if err != nil {
		return accounts.Account{}, errs.Wrapf(err, "[emulator Seed] hash password")
	}
	account := accounts.Account{
		LocalID:      newLocalID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    e.opts.Now(),
	}
	if err := e.accounts.Create(account); err != nil {
		return accounts.Account{}, errs.Wrapf(err, "[emulator Seed] %s", email)
	}
	log.Debug().Str("local_id", account.LocalID).Str("email", account.Email).Msg("emulator: seeded account")
	return e.accounts.GetByID(account.LocalID)
}

// Disable marks the account for email as disabled.
func (e *Emulator) Disable(email string) error {
	account, err := e.accounts.GetByEmail(email)
	if err != nil {
		return errs.Wrapf(err, "[emulator Disable] %s", email)
	}
	account.Disabled = true
	return e.accounts.Upsert(account)
}

// limiter returns the failed-attempt limiter for email.
func (e *Emulator) limiter(email string) *rate.Limiter {
	e.limitersLock.Lock()
	defer e.limitersLock.Unlock()

	key := accounts.NormalizeEmail(email)
	lim, ok := e.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(e.opts.LockoutRefill), e.opts.LockoutBurst)
		e.limiters[key] = lim
	}
	return lim
}

// newLocalID returns a 28 character id, the length the provider uses.
func newLocalID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:28]
}

func newRefreshToken() string {
	b := make([]byte, 48)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
