package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/officeplus/faq-api/internal/adapters/devauth"
	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/observability/metrics"
	"github.com/officeplus/faq-api/internal/ports"
	"github.com/officeplus/faq-api/internal/util"
)

// Rejection messages returned to clients.
const (
	msgCookieMissing   = "AX cookie not found"
	msgSessionInvalid  = "Invalid or expired session"
	msgSessionInternal = "Internal server error during session validation"
)

// Rejection reasons used in logs and metrics.
const (
	reasonNoCookie = "no_cookie"
	reasonInvalid  = "invalid_session"
	reasonInternal = "internal_error"
)

const defaultRecheckDelay = 500 * time.Millisecond

// AuthenticatorOptions configures an Authenticator.
type AuthenticatorOptions struct {
	Mode domainauth.Mode
	// Validator is required in named environments. In local mode a nil
	// validator means cookies are ignored and the policy identity is used.
	Validator ports.SessionValidator
	// Policy supplies the local development identity. It must be set in
	// local mode and must be nil otherwise.
	Policy     *devauth.Policy
	Exemptions *Exemptions
	Cookie     CookieSpec
	// RecheckAttempts is the number of extra attempts that re-read the cookie.
	RecheckAttempts int
	// RecheckDelay is multiplied by the attempt index before each recheck.
	RecheckDelay time.Duration
	Metrics      *metrics.SessionMetrics
	Logger       *slog.Logger
	// Sleep overrides the context-aware wait, for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Authenticator resolves the caller of a request from the SSO session cookie.
type Authenticator struct {
	mode       domainauth.Mode
	validator  ports.SessionValidator
	policy     *devauth.Policy
	exemptions *Exemptions
	cookie     CookieSpec
	recheck    int
	delay      time.Duration
	metrics    *metrics.SessionMetrics
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// Rejection describes why a request was refused.
type Rejection struct {
	Status  int
	Message string
	Reason  string
}

// NewAuthenticator validates the options against the deployment mode.
func NewAuthenticator(opts AuthenticatorOptions) (*Authenticator, error) {
	if opts.Mode.IsLocal() {
		if opts.Policy == nil {
			return nil, errors.New("local mode requires a development identity policy")
		}
	} else {
		if opts.Policy != nil && !opts.Policy.Allows(opts.Mode) {
			return nil, fmt.Errorf("%w (mode %q)", devauth.ErrNotLocal, opts.Mode.String())
		}
		if opts.Validator == nil {
			return nil, fmt.Errorf("session validator is required in mode %q", opts.Mode.String())
		}
	}
	a := &Authenticator{
		mode:       opts.Mode,
		validator:  opts.Validator,
		policy:     opts.Policy,
		exemptions: opts.Exemptions,
		cookie:     opts.Cookie.withDefaults(),
		recheck:    max(opts.RecheckAttempts, 0),
		delay:      opts.RecheckDelay,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		sleep:      opts.Sleep,
	}
	if a.exemptions == nil {
		a.exemptions = NewExemptions("")
	}
	if a.delay <= 0 {
		a.delay = defaultRecheckDelay
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("component", "session_middleware")
	if a.sleep == nil {
		a.sleep = util.SleepContext
	}
	return a, nil
}

// Mode returns the deployment mode the authenticator was built for.
func (a *Authenticator) Mode() domainauth.Mode { return a.mode }

// Session is a resolved caller plus the store key that authenticated it.
// Key is empty when the local development identity was used.
type Session struct {
	Identity domainauth.Identity
	Key      string
}

// Resolve returns the caller's identity, or the rejection to send.
// In local mode it never rejects.
func (a *Authenticator) Resolve(r *http.Request) (domainauth.Identity, *Rejection) {
	s, rej := a.ResolveSession(r)
	return s.Identity, rej
}

// ResolveSession is Resolve that also reports which session key was used.
func (a *Authenticator) ResolveSession(r *http.Request) (Session, *Rejection) {
	ctx := r.Context()
	key, hasCookie := a.cookie.KeyFromRequest(r)

	if a.mode.IsLocal() {
		if hasCookie && a.validator != nil {
			if id, used, err := a.validateWithRecheck(ctx, r, key); err == nil {
				return Session{Identity: id, Key: used}, nil
			}
			return Session{Identity: a.fallback(ctx, reasonInvalid)}, nil
		}
		return Session{Identity: a.fallback(ctx, reasonNoCookie)}, nil
	}

	if !hasCookie {
		return Session{}, &Rejection{Status: http.StatusUnauthorized, Message: msgCookieMissing, Reason: reasonNoCookie}
	}
	id, used, err := a.validateWithRecheck(ctx, r, key)
	if err != nil {
		a.logger.InfoContext(ctx, "session rejected",
			"path", r.URL.Path, "key", util.RedactKey(key), "error", err)
		return Session{}, &Rejection{Status: http.StatusUnauthorized, Message: msgSessionInvalid, Reason: reasonInvalid}
	}
	return Session{Identity: id, Key: used}, nil
}

// SessionKey derives the store key from the request cookie.
func (a *Authenticator) SessionKey(r *http.Request) (string, bool) {
	return a.cookie.KeyFromRequest(r)
}

// validateWithRecheck runs the validator up to 1+recheck times, re-deriving
// the key from the Cookie header before each retry. It returns the key that
// validated.
func (a *Authenticator) validateWithRecheck(
	ctx context.Context,
	r *http.Request,
	originalKey string,
) (domainauth.Identity, string, error) {
	var lastErr error
	for attempt := 0; attempt <= a.recheck; attempt++ {
		if attempt > 0 {
			if err := a.sleep(ctx, a.delay*time.Duration(attempt)); err != nil {
				return domainauth.Identity{}, "", errors.Join(lastErr, err)
			}
		}
		key := a.cookie.KeyForAttempt(attempt, originalKey, cookieHeader(r))
		id, err := a.validator.Validate(ctx, key)
		if err == nil {
			if attempt > 0 {
				a.logger.InfoContext(ctx, "session validated on recheck", "attempt", attempt, "subject", id.SubjectID)
			}
			return id, key, nil
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domainauth.Identity{}, "", errors.Join(lastErr, ctxErr)
		}
		a.logger.DebugContext(ctx, "session validation attempt failed",
			"attempt", attempt, "key", util.RedactKey(key), "error", err)
	}
	return domainauth.Identity{}, "", lastErr
}

func (a *Authenticator) fallback(ctx context.Context, reason string) domainauth.Identity {
	id, _ := a.policy.Identity()
	a.metrics.Fallback(reason)
	a.logger.DebugContext(ctx, "using local development identity", "reason", reason, "subject", id.SubjectID)
	return id
}

// SessionMiddleware authenticates every non-exempt request. Exempt
// requests pass through untouched; rejected ones never reach next.
func SessionMiddleware(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.exemptions.Exempt(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			id, rej, ok := a.resolveSafely(r)
			if !ok {
				a.reject(w, r, &Rejection{Status: http.StatusInternalServerError, Message: msgSessionInternal, Reason: reasonInternal})
				return
			}
			if rej != nil {
				a.reject(w, r, rej)
				return
			}

			ctx := withSessionChecked(WithIdentity(r.Context(), id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveSafely runs Resolve, converting a panic into ok=false.
func (a *Authenticator) resolveSafely(r *http.Request) (id domainauth.Identity, rej *Rejection, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.ErrorContext(r.Context(), "panic during session validation",
				slog.Any("error", p),
				slog.String("path", r.URL.Path),
				slog.String("stack", string(debug.Stack())))
			ok = false
		}
	}()
	id, rej = a.Resolve(r)
	return id, rej, true
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, rej *Rejection) {
	a.metrics.Rejected(rej.Reason, rej.Status)
	WriteError(w, r, rej.Status, rej.Message)
}
