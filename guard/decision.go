package guard

import "github.com/jrsteele09/go-session-gateway/identity"

type decisionKind int

const (
	kindRender decisionKind = iota
	kindRedirect
)

// Decision is what the caller must do with a view request: render it (with
// the resolved identity, nil for public views) or redirect. The guard never
// touches the transport; the caller performs the redirect.
type Decision struct {
	kind     decisionKind
	identity *identity.Identity
	location string
}

// Render lets the view render with id passed through.
func Render(id *identity.Identity) Decision {
	return Decision{kind: kindRender, identity: id}
}

// RedirectTo ends the request with a redirect to path.
func RedirectTo(path string) Decision {
	return Decision{kind: kindRedirect, location: path}
}

// IsRedirect reports whether the view must not be rendered.
func (d Decision) IsRedirect() bool {
	return d.kind == kindRedirect
}

// Location is the redirect target; empty for Render decisions.
func (d Decision) Location() string {
	return d.location
}

// Identity is the identity to render with; nil for redirects and public views.
func (d Decision) Identity() *identity.Identity {
	return d.identity
}
