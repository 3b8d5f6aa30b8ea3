package data

import "time"

// TimeProvider supplies the timestamps repositories write.
type TimeProvider interface {
	Now() time.Time
}

// dbTime normalizes t to what a timestamptz column round-trips: UTC with
// microsecond precision.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// RealTimeProvider reads the system clock.
type RealTimeProvider struct{}

// Now returns the current time in database precision.
func (*RealTimeProvider) Now() time.Time { return dbTime(time.Now()) }

// FixedTimeProvider always returns the same instant. Tests use it to match
// query arguments exactly.
type FixedTimeProvider struct {
	at time.Time
}

// NewFixedTimeProvider pins the clock at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{at: dbTime(t)}
}

// Now returns the pinned instant.
func (f *FixedTimeProvider) Now() time.Time { return f.at }
