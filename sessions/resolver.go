package sessions

import (
	"context"

	"github.com/jrsteele09/go-session-gateway/identity"
)

// TokenVerifier validates a bearer token with the provider.
type TokenVerifier interface {
	Verify(ctx context.Context, bearerToken string) *identity.Identity
}

// Resolver turns the session cookie on a channel into an identity.
type Resolver struct {
	store    *Store
	verifier TokenVerifier
}

// NewResolver creates a Resolver reading cookies written by store.
func NewResolver(store *Store, verifier TokenVerifier) *Resolver {
	return &Resolver{store: store, verifier: verifier}
}

// CurrentIdentity returns the identity behind the bearer cookie, or nil when
// there is no cookie or the provider rejects the token. Every call with a
// cookie present performs a remote verification.
func (r *Resolver) CurrentIdentity(ctx context.Context, ch Channel) *identity.Identity {
	token, ok := r.store.BearerToken(ch)
	if !ok {
		return nil
	}
	return r.verifier.Verify(ctx, token)
}
