package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/officeplus/faq-api/internal/observability/statsd"
)

// Validation results used as the "result" tag on session.validate.
const (
	ResultValid             = "valid"
	ResultAbsent            = "absent"
	ResultMalformed         = "malformed"
	ResultUnavailable       = "unavailable"
	ResultRedirectExhausted = "redirect_exhausted"
	ResultCanceled          = "canceled"
	ResultError             = "error"
)

// SessionMetrics emits the session path's counters and timings.
// The zero value and a nil receiver are both no-ops.
type SessionMetrics struct {
	Sink statsd.Sink
}

// Validation records the outcome and latency of one validator call.
func (m *SessionMetrics) Validation(result string, d time.Duration) {
	if m == nil || m.Sink == nil {
		return
	}
	m.Sink.Count("session.validate", 1, map[string]string{"result": result})
	m.Sink.Timing("session.validate.duration", d, map[string]string{"result": result})
}

// Redirect records one cluster redirect observed by the validator.
func (m *SessionMetrics) Redirect(attempt int) {
	if m == nil || m.Sink == nil {
		return
	}
	m.Sink.Count("session.redirect", 1, map[string]string{"attempt": strconv.Itoa(attempt)})
}

// PoolRefresh records a connection pool refresh and whether it succeeded.
func (m *SessionMetrics) PoolRefresh(err error) {
	if m == nil || m.Sink == nil {
		return
	}
	result := ResultValid
	if err != nil {
		result = ResultError
	}
	m.Sink.Count("session.pool_refresh", 1, map[string]string{"result": result})
}

// Rejected records a request the middleware turned away.
func (m *SessionMetrics) Rejected(reason string, status int) {
	if m == nil || m.Sink == nil {
		return
	}
	m.Sink.Count("session.rejected", 1, map[string]string{"reason": reason, "status": strconv.Itoa(status)})
}

// Fallback records the local development identity being used.
func (m *SessionMetrics) Fallback(reason string) {
	if m == nil || m.Sink == nil {
		return
	}
	m.Sink.Count("session.fallback", 1, map[string]string{"reason": reason})
}

// Recorder is an in-memory Sink for tests and local debugging.
type Recorder struct {
	mu      sync.Mutex
	Counts  map[string]int64
	Timings map[string][]time.Duration
	Tags    map[string][]map[string]string
}

var _ statsd.Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Counts:  make(map[string]int64),
		Timings: make(map[string][]time.Duration),
		Tags:    make(map[string][]map[string]string),
	}
}

// Count implements statsd.Sink.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counts[name] += value
	r.Tags[name] = append(r.Tags[name], tags)
}

// Timing implements statsd.Sink.
func (r *Recorder) Timing(name string, value time.Duration, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Timings[name] = append(r.Timings[name], value)
}

// CountOf returns the accumulated counter value.
func (r *Recorder) CountOf(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Counts[name]
}

// TagValues returns the values recorded for tag key on counter name, in order.
func (r *Recorder) TagValues(name, key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Tags[name]))
	for _, t := range r.Tags[name] {
		out = append(out, t[key])
	}
	return out
}
