package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/observability/metrics"
	"github.com/officeplus/faq-api/internal/ports"
	"github.com/officeplus/faq-api/internal/util"
)

// Validation failures. Every error returned by Validate wraps
// ErrSessionInvalid: the validator fails closed.
var (
	ErrSessionInvalid     = errors.New("session invalid")
	ErrSessionAbsent      = fmt.Errorf("%w: no session for key", ErrSessionInvalid)
	ErrMalformedSession   = fmt.Errorf("%w: malformed session payload", ErrSessionInvalid)
	ErrStoreUnavailable   = fmt.Errorf("%w: session store unavailable", ErrSessionInvalid)
	ErrRedirectsExhausted = fmt.Errorf("%w: cluster redirects exhausted", ErrSessionInvalid)
)

const (
	defaultSessionTTL       = 24 * time.Hour
	defaultValidateAttempts = 3
	defaultRetryBaseDelay   = 500 * time.Millisecond
)

// SessionValidatorOptions groups dependencies for SessionValidator.
type SessionValidatorOptions struct {
	Store     ports.SessionStore
	Refresher ports.PoolRefresher // optional; redirects are still retried without it
	TTL       time.Duration
	// MaxAttempts bounds store reads when the cluster keeps redirecting.
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number between redirect retries.
	BaseDelay time.Duration
	Metrics   *metrics.SessionMetrics
	Logger    *slog.Logger
	// Sleep overrides the context-aware wait, for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

var _ ports.SessionValidator = (*SessionValidator)(nil)

// SessionValidator turns a session key into an Identity by reading the
// shared SSO store.
type SessionValidator struct {
	store       ports.SessionStore
	refresher   ports.PoolRefresher
	ttl         time.Duration
	maxAttempts int
	baseDelay   time.Duration
	metrics     *metrics.SessionMetrics
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewSessionValidator constructs a SessionValidator.
func NewSessionValidator(opts SessionValidatorOptions) (*SessionValidator, error) {
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	v := &SessionValidator{
		store:       opts.Store,
		refresher:   opts.Refresher,
		ttl:         opts.TTL,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		sleep:       opts.Sleep,
	}
	if v.ttl <= 0 {
		v.ttl = defaultSessionTTL
	}
	if v.maxAttempts <= 0 {
		v.maxAttempts = defaultValidateAttempts
	}
	if v.baseDelay <= 0 {
		v.baseDelay = defaultRetryBaseDelay
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	v.logger = v.logger.With("component", "session_validator")
	if v.sleep == nil {
		v.sleep = util.SleepContext
	}
	return v, nil
}

// Validate reads the session stored under key, extending its TTL, and
// decodes it into an Identity. Any non-nil error means the caller is not
// authenticated.
func (v *SessionValidator) Validate(ctx context.Context, key string) (domainauth.Identity, error) {
	start := time.Now()
	id, err := v.validate(ctx, key)
	v.metrics.Validation(resultOf(err), time.Since(start))
	return id, err
}

func (v *SessionValidator) validate(ctx context.Context, key string) (domainauth.Identity, error) {
	if key == "" {
		return domainauth.Identity{}, ErrSessionAbsent
	}
	redacted := util.RedactKey(key)

	for attempt := range v.maxAttempts {
		if err := ctx.Err(); err != nil {
			return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrSessionInvalid, err)
		}

		raw, err := v.store.GetAndRefresh(ctx, key, v.ttl)
		switch {
		case err == nil:
			return v.decode(redacted, raw)

		case errors.Is(err, ports.ErrSessionNotFound):
			v.logger.DebugContext(ctx, "no session in store", "key", redacted)
			return domainauth.Identity{}, ErrSessionAbsent

		case errors.Is(err, ports.ErrClusterRedirect):
			v.metrics.Redirect(attempt + 1)
			v.logger.WarnContext(ctx, "cluster redirect while reading session",
				"key", redacted, "attempt", attempt+1, "max_attempts", v.maxAttempts, "error", err)
			v.refreshPool(ctx)
			if attempt == v.maxAttempts-1 {
				break
			}
			if sleepErr := v.sleep(ctx, v.baseDelay*time.Duration(attempt+1)); sleepErr != nil {
				return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrSessionInvalid, sleepErr)
			}

		case ctx.Err() != nil:
			v.logger.DebugContext(ctx, "session lookup abandoned", "key", redacted, "error", err)
			return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrSessionInvalid, ctx.Err())

		case errors.Is(err, ports.ErrStoreUnavailable):
			v.logger.ErrorContext(ctx, "session store unavailable", "key", redacted, "error", err)
			return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)

		default:
			v.logger.ErrorContext(ctx, "session lookup failed", "key", redacted, "error", err)
			return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrSessionInvalid, err)
		}
	}

	v.logger.ErrorContext(ctx, "cluster redirect retries exhausted", "key", redacted, "attempts", v.maxAttempts)
	return domainauth.Identity{}, ErrRedirectsExhausted
}

func (v *SessionValidator) decode(redacted, raw string) (domainauth.Identity, error) {
	var rec domainauth.SessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		v.logger.Warn("session payload is not valid JSON", "key", redacted, "error", err)
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrMalformedSession, err)
	}
	if !rec.Complete() {
		v.logger.Warn("session payload missing required fields", "key", redacted,
			"has_id", rec.ID != "", "has_email", rec.Email != "")
		return domainauth.Identity{}, ErrMalformedSession
	}
	id := rec.Identity()
	v.logger.Debug("session validated", "key", redacted, "subject", id.SubjectID)
	return id, nil
}

func (v *SessionValidator) refreshPool(ctx context.Context) {
	if v.refresher == nil {
		return
	}
	err := v.refresher.Refresh(ctx)
	v.metrics.PoolRefresh(err)
	if err != nil {
		v.logger.ErrorContext(ctx, "redis pool refresh failed", "error", err)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultValid
	case errors.Is(err, ErrSessionAbsent):
		return metrics.ResultAbsent
	case errors.Is(err, ErrMalformedSession):
		return metrics.ResultMalformed
	case errors.Is(err, ErrStoreUnavailable):
		return metrics.ResultUnavailable
	case errors.Is(err, ErrRedirectsExhausted):
		return metrics.ResultRedirectExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ResultCanceled
	default:
		return metrics.ResultError
	}
}
