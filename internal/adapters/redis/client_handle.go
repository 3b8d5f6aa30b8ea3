package redis

// Package redis provides the Redis adapters backing SSO session validation.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/officeplus/faq-api/internal/ports"
)

// ClientFactory builds a fresh, unconnected client.
type ClientFactory func() (redis.UniversalClient, error)

// ClientSource yields the client currently in use.
type ClientSource interface {
	Client() redis.UniversalClient
}

// ClientHandleOptions configures a ClientHandle.
type ClientHandleOptions struct {
	Factory ClientFactory
	// Drain is how long a replaced client stays open so in-flight commands
	// can finish. Zero closes it immediately.
	Drain       time.Duration
	PingTimeout time.Duration
	Logger      *slog.Logger
}

type clientRef struct {
	client     redis.UniversalClient
	generation uint64
}

// ClientHandle is the process-wide Redis connection. Readers load the
// current client atomically; Refresh swaps in a new client and retires the
// old one, so concurrent callers never see a half-built client.
type ClientHandle struct {
	current     atomic.Pointer[clientRef]
	factory     ClientFactory
	drain       time.Duration
	pingTimeout time.Duration
	logger      *slog.Logger
	group       singleflight.Group

	mu      sync.Mutex
	retired map[*clientRef]*time.Timer
	closed  bool
}

var _ ports.PoolRefresher = (*ClientHandle)(nil)

// NewClientHandle builds the initial client through the factory.
// The initial client is not pinged; callers decide whether startup requires it.
func NewClientHandle(opts ClientHandleOptions) (*ClientHandle, error) {
	if opts.Factory == nil {
		return nil, errors.New("redis client factory is required")
	}
	client, err := opts.Factory()
	if err != nil {
		return nil, fmt.Errorf("build redis client: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	h := &ClientHandle{
		factory:     opts.Factory,
		drain:       opts.Drain,
		pingTimeout: pingTimeout,
		logger:      logger.With("component", "redis_handle"),
		retired:     make(map[*clientRef]*time.Timer),
	}
	h.current.Store(&clientRef{client: client, generation: 1})
	return h, nil
}

// Client returns the client currently installed, or nil after Close.
func (h *ClientHandle) Client() redis.UniversalClient {
	ref := h.current.Load()
	if ref == nil {
		return nil
	}
	return ref.client
}

// Generation increments on every successful Refresh.
func (h *ClientHandle) Generation() uint64 {
	ref := h.current.Load()
	if ref == nil {
		return 0
	}
	return ref.generation
}

// Ping checks the current client.
func (h *ClientHandle) Ping(ctx context.Context) error {
	client := h.Client()
	if client == nil {
		return ports.ErrStoreUnavailable
	}
	return classify("ping", client.Ping(ctx).Err())
}

// Refresh replaces the current client with a freshly built one.
// Concurrent calls share a single rebuild. On failure the previous client
// stays installed.
func (h *ClientHandle) Refresh(ctx context.Context) error {
	_, err, _ := h.group.Do("refresh", func() (any, error) {
		return nil, h.refresh(ctx)
	})
	return err
}

func (h *ClientHandle) refresh(ctx context.Context) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return fmt.Errorf("refresh: %w", ports.ErrStoreUnavailable)
	}

	next, err := h.factory()
	if err != nil {
		return fmt.Errorf("refresh: build client: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, h.pingTimeout)
	defer cancel()
	if pingErr := next.Ping(pingCtx).Err(); pingErr != nil {
		closeQuietly(h.logger, next)
		return fmt.Errorf("refresh: %w", classify("ping", pingErr))
	}

	prev := h.current.Load()
	var gen uint64 = 1
	if prev != nil {
		gen = prev.generation + 1
	}
	h.current.Store(&clientRef{client: next, generation: gen})
	h.logger.Info("redis connection pool refreshed", "generation", gen)

	if prev != nil {
		h.retire(prev)
	}
	return nil
}

func (h *ClientHandle) retire(ref *clientRef) {
	if h.drain <= 0 {
		closeQuietly(h.logger, ref.client)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		closeQuietly(h.logger, ref.client)
		return
	}
	h.retired[ref] = time.AfterFunc(h.drain, func() {
		h.mu.Lock()
		delete(h.retired, ref)
		h.mu.Unlock()
		closeQuietly(h.logger, ref.client)
	})
}

// Close closes the current client and any client still draining.
func (h *ClientHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	pending := make([]*clientRef, 0, len(h.retired))
	for ref, timer := range h.retired {
		if timer.Stop() {
			pending = append(pending, ref)
		}
		delete(h.retired, ref)
	}
	h.mu.Unlock()

	for _, ref := range pending {
		closeQuietly(h.logger, ref.client)
	}
	ref := h.current.Swap(nil)
	if ref == nil {
		return nil
	}
	return ref.client.Close()
}

func closeQuietly(logger *slog.Logger, c redis.UniversalClient) {
	if err := c.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		logger.Warn("failed to close redis client", "error", err)
	}
}

// StaticClient adapts a fixed client to ClientSource.
type StaticClient struct{ C redis.UniversalClient }

// Client returns the wrapped client.
func (s StaticClient) Client() redis.UniversalClient { return s.C }
