package util //nolint:revive // package name util hosts small shared helpers

import (
	"context"
	"time"
)

// SleepContext waits for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when the wait was cut short.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RedactKey shortens a secret-bearing key for logs.
func RedactKey(key string) string {
	const keep = 8
	if len(key) <= keep {
		return key
	}
	return key[:keep] + "..."
}
