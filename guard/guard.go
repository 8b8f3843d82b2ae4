// Package guard decides, per view request, whether to render or redirect
// based on the current session.
package guard

import (
	"context"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/sessions"
)

const (
	// EntryPath is the public entry view (login).
	EntryPath = "/login"
	// LandingPath is the protected landing view.
	LandingPath = "/dashboard"
)

// IdentityResolver resolves the identity behind a channel's session.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, ch sessions.Channel) *identity.Identity
}

// SessionClearer removes the session from a channel.
type SessionClearer interface {
	Clear(ch sessions.Channel)
}

// Guard implements the public / protected view rules.
type Guard struct {
	resolver    IdentityResolver
	sessions    SessionClearer
	entryPath   string
	landingPath string
}

// Option defines a function type to modify the Guard instance.
type Option func(*Guard)

// WithPaths overrides the entry and landing paths.
func WithPaths(entry, landing string) Option {
	return func(g *Guard) {
		g.entryPath = entry
		g.landingPath = landing
	}
}

// New creates a Guard.
func New(resolver IdentityResolver, clearer SessionClearer, options ...Option) *Guard {
	g := &Guard{
		resolver:    resolver,
		sessions:    clearer,
		entryPath:   EntryPath,
		landingPath: LandingPath,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Public handles a request for a public-only view (login, signup). A signed-in
// caller is sent to the landing view.
func (g *Guard) Public(ctx context.Context, ch sessions.Channel) Decision {
	if id := g.resolver.CurrentIdentity(ctx, ch); id != nil {
		return RedirectTo(g.landingPath)
	}
	return Render(nil)
}

// Protected handles a request for a protected view. Without an identity the
// caller is sent to the entry view; any resolution failure counts as no
// identity.
func (g *Guard) Protected(ctx context.Context, ch sessions.Channel) Decision {
	id := g.resolver.CurrentIdentity(ctx, ch)
	if id == nil {
		return RedirectTo(g.entryPath)
	}
	return Render(id)
}

// Root sends the caller to the landing view when signed in, else to the entry
// view.
func (g *Guard) Root(ctx context.Context, ch sessions.Channel) Decision {
	if id := g.resolver.CurrentIdentity(ctx, ch); id != nil {
		return RedirectTo(g.landingPath)
	}
	return RedirectTo(g.entryPath)
}

// Logout clears the session and always redirects to the entry view.
func (g *Guard) Logout(ch sessions.Channel) Decision {
	g.sessions.Clear(ch)
	return RedirectTo(g.entryPath)
}

// EntryPath returns the public entry path.
func (g *Guard) EntryPath() string {
	return g.entryPath
}

// LandingPath returns the protected landing path.
func (g *Guard) LandingPath() string {
	return g.landingPath
}
