package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
)

var (
	// ErrSessionNotFound means the key does not exist in the store. It is a
	// normal outcome, not an infrastructure failure.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable means the session store could not be reached.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrClusterRedirect means the cache topology moved under the client
	// (MOVED/ASK). Callers may refresh the connection pool and retry.
	ErrClusterRedirect = errors.New("session store cluster redirect")
)

// SessionEntry is a raw session as seen by inspection tooling.
type SessionEntry struct {
	Key string
	// TTL in seconds; -1 when the key has no expiry, -2 when it is gone.
	TTL   int64
	Value string
}

// SessionStore reads SSO sessions from the shared cache.
type SessionStore interface {
	// GetAndRefresh returns the raw value and resets the key's TTL to ttl.
	GetAndRefresh(ctx context.Context, key string, ttl time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Inspect reads a session without touching its TTL.
	Inspect(ctx context.Context, key string) (SessionEntry, error)
	Scan(ctx context.Context, pattern string, maxCount int) ([]SessionEntry, error)
}

// PoolRefresher rebuilds the shared cache connection after a topology change.
type PoolRefresher interface {
	Refresh(ctx context.Context) error
}

// SessionValidator resolves a session key to the caller's identity.
// A non-nil error always means "not authenticated".
type SessionValidator interface {
	Validate(ctx context.Context, key string) (domainauth.Identity, error)
}
