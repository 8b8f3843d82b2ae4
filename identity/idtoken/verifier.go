// Package idtoken checks provider-issued ID tokens locally (signature, issuer,
// audience and expiry) so that forged or expired bearer tokens are rejected
// without a round trip to the provider.
package idtoken

import (
	"context"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	errs "github.com/jrsteele09/go-session-gateway/internal/errors"
)

// ErrDisabled is returned by New when no project is configured.
var ErrDisabled = errs.New("id token pre-check disabled: no project configured")

// Verifier implements identity.TokenPreCheck.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// Option adjusts the underlying oidc.Config.
type Option func(*oidc.Config)

// WithNow overrides the clock used for expiry checks.
func WithNow(now func() time.Time) Option {
	return func(c *oidc.Config) {
		c.Now = now
	}
}

// New builds a verifier from configuration. ctx must outlive the verifier: the
// remote key set uses it for every key refresh.
func New(ctx context.Context, cfg config.IdentityConfig, options ...Option) (*Verifier, error) {
	if cfg.GetProjectID() == "" {
		return nil, ErrDisabled
	}
	if cfg.GetIDTokenJWKSURL() == "" {
		return nil, errs.New("[idtoken New] jwks url is required")
	}
	keySet := oidc.NewRemoteKeySet(ctx, cfg.GetIDTokenJWKSURL())
	return NewWithKeySet(cfg.GetIDTokenIssuer(), cfg.GetProjectID(), keySet, options...), nil
}

// NewWithKeySet builds a verifier for tokens issued by issuer for audience.
func NewWithKeySet(issuer, audience string, keySet oidc.KeySet, options ...Option) *Verifier {
	oc := &oidc.Config{ClientID: audience}
	for _, opt := range options {
		opt(oc)
	}
	return &Verifier{verifier: oidc.NewVerifier(issuer, keySet, oc)}
}

// Check returns nil when rawToken is a valid, unexpired token for the project.
func (v *Verifier) Check(ctx context.Context, rawToken string) error {
	if _, err := v.verifier.Verify(ctx, rawToken); err != nil {
		return errs.Wrapf(errs.ErrInvalidToken, "[idtoken Check] %v", err)
	}
	return nil
}
