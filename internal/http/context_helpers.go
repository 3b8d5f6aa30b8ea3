package httpx

import (
	"context"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
)

// Unexported context key types avoid collisions across packages.
type (
	identityKey       struct{}
	sessionCheckedKey struct{}
	requestIDKey      struct{}
)

// WithIdentity returns a child context carrying the caller's identity.
func WithIdentity(ctx context.Context, id domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller attached by the session middleware.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domainauth.Identity)
	if !ok || id.IsZero() {
		return domainauth.Identity{}, false
	}
	return id, true
}

func withSessionChecked(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionCheckedKey{}, true)
}

// SessionChecked reports whether the session middleware resolved this
// request rather than letting it through as exempt.
func SessionChecked(ctx context.Context) bool {
	v, _ := ctx.Value(sessionCheckedKey{}).(bool)
	return v
}

// RequestIDFromContext returns the id assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}
