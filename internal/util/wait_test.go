package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepContext_Elapses(t *testing.T) {
	start := time.Now()
	assert.NoError(t, SleepContext(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestSleepContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := SleepContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleepContext_ZeroReportsContextState(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, 0), context.Canceled)
}

func TestRedactKey(t *testing.T) {
	assert.Equal(t, "AX:12345...", RedactKey("AX:1234567890"))
	assert.Equal(t, "AX:1", RedactKey("AX:1"))
}
