package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/officeplus/faq-api/internal/ports"
)

const (
	maxScanCount   = 1000
	scanFetchBatch = 2
)

// SessionStore reads SSO sessions written by the shared gateway.
// It never writes session payloads; the only mutation it performs is the
// TTL reset on GetAndRefresh.
type SessionStore struct {
	source ClientSource
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store bound to a client source. Each
// call resolves the client anew so a pool refresh takes effect immediately.
func NewSessionStore(source ClientSource) *SessionStore {
	return &SessionStore{source: source}
}

func (s *SessionStore) client() (redis.UniversalClient, error) {
	if s.source == nil {
		return nil, ports.ErrStoreUnavailable
	}
	c := s.source.Client()
	if c == nil {
		return nil, ports.ErrStoreUnavailable
	}
	return c, nil
}

// GetAndRefresh reads key and resets its TTL in a single GETEX round trip.
func (s *SessionStore) GetAndRefresh(ctx context.Context, key string, ttl time.Duration) (string, error) {
	c, err := s.client()
	if err != nil {
		return "", err
	}
	val, err := c.GetEx(ctx, key, ttl).Result()
	if err != nil {
		return "", classify("getex", err)
	}
	return val, nil
}

// Exists reports whether key is present.
func (s *SessionStore) Exists(ctx context.Context, key string) (bool, error) {
	c, err := s.client()
	if err != nil {
		return false, err
	}
	n, err := c.Exists(ctx, key).Result()
	if err != nil {
		return false, classify("exists", err)
	}
	return n > 0, nil
}

// Inspect returns key's TTL and value without refreshing it.
func (s *SessionStore) Inspect(ctx context.Context, key string) (ports.SessionEntry, error) {
	c, err := s.client()
	if err != nil {
		return ports.SessionEntry{}, err
	}
	return readEntry(ctx, c, key)
}

// Scan returns up to maxCount sessions whose keys match pattern.
// On a cluster client every master is scanned.
func (s *SessionStore) Scan(ctx context.Context, pattern string, maxCount int) ([]ports.SessionEntry, error) {
	if maxCount <= 0 {
		return nil, nil
	}
	c, err := s.client()
	if err != nil {
		return nil, err
	}

	batch := int64(min(maxCount*scanFetchBatch, maxScanCount))

	var keys []string
	if cluster, ok := c.(*redis.ClusterClient); ok {
		var mu sync.Mutex
		err = cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			found, scanErr := scanKeys(ctx, node, pattern, batch, maxCount)
			mu.Lock()
			keys = append(keys, found...)
			mu.Unlock()
			return scanErr
		})
	} else {
		keys, err = scanKeys(ctx, c, pattern, batch, maxCount)
	}
	if err != nil {
		return nil, classify("scan", err)
	}
	if len(keys) > maxCount {
		keys = keys[:maxCount]
	}

	entries := make([]ports.SessionEntry, 0, len(keys))
	for _, key := range keys {
		entry, readErr := readEntry(ctx, c, key)
		if readErr != nil {
			if errors.Is(readErr, ports.ErrSessionNotFound) {
				continue // expired between SCAN and GET
			}
			return nil, readErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scanKeys(ctx context.Context, c redis.Cmdable, pattern string, batch int64, limit int) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	seen := make(map[string]struct{})
	for {
		page, next, err := c.Scan(ctx, cursor, pattern, batch).Result()
		if err != nil {
			return keys, err
		}
		for _, k := range page {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
			if len(keys) >= limit {
				return keys, nil
			}
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func readEntry(ctx context.Context, c redis.UniversalClient, key string) (ports.SessionEntry, error) {
	ttl, err := c.TTL(ctx, key).Result()
	if err != nil {
		return ports.SessionEntry{}, classify("ttl", err)
	}
	val, err := c.Get(ctx, key).Result()
	if err != nil {
		return ports.SessionEntry{}, classify("get", err)
	}
	return ports.SessionEntry{Key: key, TTL: ttlSeconds(ttl), Value: val}, nil
}

// ttlSeconds converts go-redis TTL results, which report the -1/-2 sentinels
// as raw nanosecond counts, into Redis' integer-second convention.
func ttlSeconds(d time.Duration) int64 {
	if d < 0 {
		return int64(d)
	}
	return int64(d / time.Second)
}
