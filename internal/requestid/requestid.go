// Package requestid carries the inbound request id through a context so that
// outbound provider calls can be correlated with the page request.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used on both inbound and outbound requests.
const Header = "X-Request-ID"

type contextKey struct{}

// New returns a fresh request id.
func New() string {
	return uuid.NewString()
}

// WithID stores id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
