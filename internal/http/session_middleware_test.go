package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/officeplus/faq-api/internal/adapters/devauth"
	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/mocks"
	"github.com/officeplus/faq-api/internal/observability/metrics"
	"github.com/officeplus/faq-api/internal/service"
)

const testPrefix = "/p/faq/apis"

var testIdentity = domainauth.Identity{
	SubjectID:      "E123",
	DisplayName:    "kim",
	Email:          "kim@example.com",
	DepartmentCode: "D100",
	DepartmentName: "D100",
	OrgCode:        "LG01",
	WorkingDayFlag: true,
}

type authFixture struct {
	validator *mocks.MockSessionValidator
	recorder  *metrics.Recorder
	delays    []time.Duration
	auth      *Authenticator
}

func newAuthFixture(t *testing.T, env string) *authFixture {
	t.Helper()
	f := &authFixture{
		validator: mocks.NewMockSessionValidator(gomock.NewController(t)),
		recorder:  metrics.NewRecorder(),
	}
	mode := domainauth.ParseMode(env)
	var policy *devauth.Policy
	if mode.IsLocal() {
		p, err := devauth.NewPolicy(mode, devauth.Config{})
		require.NoError(t, err)
		policy = p
	}
	a, err := NewAuthenticator(AuthenticatorOptions{
		Mode:            mode,
		Validator:       f.validator,
		Policy:          policy,
		Exemptions:      NewExemptions(testPrefix),
		RecheckAttempts: 2,
		Metrics:         &metrics.SessionMetrics{Sink: f.recorder},
		Sleep: func(ctx context.Context, d time.Duration) error {
			f.delays = append(f.delays, d)
			return ctx.Err()
		},
	})
	require.NoError(t, err)
	f.auth = a
	return f
}

// probe records what the downstream handler observed.
type probe struct {
	called   bool
	identity domainauth.Identity
	hasID    bool
	checked  bool
}

func (p *probe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.identity, p.hasID = IdentityFromContext(r.Context())
		p.checked = SessionChecked(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func (f *authFixture) serve(req *http.Request) (*httptest.ResponseRecorder, *probe) {
	p := &probe{}
	rec := httptest.NewRecorder()
	SessionMiddleware(f.auth)(p.handler()).ServeHTTP(rec, req)
	return rec, p
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSessionMiddleware_ExemptPathSkipsStore(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			f := newAuthFixture(t, env)
			// No validator expectations: any call fails the test.
			for _, target := range []string{"/health", testPrefix + "/faqs", testPrefix + "/db/status"} {
				req := httptest.NewRequest(http.MethodGet, target, nil)
				req.AddCookie(&http.Cookie{Name: "AX", Value: "abc"})

				rec, p := f.serve(req)
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.True(t, p.called)
				assert.False(t, p.hasID)
				assert.False(t, p.checked)
			}
		})
	}
}

func TestSessionMiddleware_NamedMode_NoCookie(t *testing.T) {
	f := newAuthFixture(t, "prod")

	rec, p := f.serve(httptest.NewRequest(http.MethodPost, testPrefix+"/faqs", nil))

	assert.False(t, p.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "AX cookie not found", body.Error)
	assert.Equal(t, testPrefix+"/faqs", body.Path)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, []string{reasonNoCookie}, f.recorder.TagValues("session.rejected", "reason"))
}

func TestSessionMiddleware_NamedMode_ValidSession(t *testing.T) {
	f := newAuthFixture(t, "prod")
	f.validator.EXPECT().Validate(gomock.Any(), "AX:abc").Return(testIdentity, nil)

	req := httptest.NewRequest(http.MethodPost, testPrefix+"/faqs", nil)
	req.AddCookie(&http.Cookie{Name: "AX", Value: "abc"})
	rec, p := f.serve(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, p.hasID)
	assert.Equal(t, "E123", p.identity.SubjectID)
	assert.True(t, p.checked)
	assert.Empty(t, f.delays)
}

func TestSessionMiddleware_NamedMode_InvalidSessionAfterRechecks(t *testing.T) {
	f := newAuthFixture(t, "prod")
	f.validator.EXPECT().
		Validate(gomock.Any(), "AX:stale").
		Return(domainauth.Identity{}, service.ErrSessionAbsent).
		Times(3)

	req := httptest.NewRequest(http.MethodDelete, testPrefix+"/tags/1", nil)
	req.AddCookie(&http.Cookie{Name: "AX", Value: "stale"})
	rec, p := f.serve(req)

	assert.False(t, p.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired session", decodeErrorBody(t, rec).Error)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, f.delays)
	assert.Equal(t, []string{"401"}, f.recorder.TagValues("session.rejected", "status"))
}

func TestSessionMiddleware_PicksUpRotatedCookie(t *testing.T) {
	f := newAuthFixture(t, "prod")
	req := httptest.NewRequest(http.MethodPost, testPrefix+"/feedback", nil)
	req.Header.Set("Cookie", "AX=old")

	gomock.InOrder(
		f.validator.EXPECT().
			Validate(gomock.Any(), "AX:old").
			DoAndReturn(func(context.Context, string) (domainauth.Identity, error) {
				// The gateway rotates the cookie while the first attempt is in flight.
				req.Header.Set("Cookie", "AX=new")
				return domainauth.Identity{}, service.ErrSessionAbsent
			}),
		f.validator.EXPECT().Validate(gomock.Any(), "AX:new").Return(testIdentity, nil),
	)

	rec, p := f.serve(req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "E123", p.identity.SubjectID)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, f.delays)
}

func TestSessionMiddleware_CanceledRequestStopsRetrying(t *testing.T) {
	f := newAuthFixture(t, "prod")
	ctx, cancel := context.WithCancel(context.Background())
	f.validator.EXPECT().
		Validate(gomock.Any(), "AX:abc").
		DoAndReturn(func(context.Context, string) (domainauth.Identity, error) {
			cancel()
			return domainauth.Identity{}, service.ErrStoreUnavailable
		}).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, testPrefix+"/faqs", nil).WithContext(ctx)
	req.AddCookie(&http.Cookie{Name: "AX", Value: "abc"})
	rec, p := f.serve(req)

	assert.False(t, p.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.delays)
}

func TestSessionMiddleware_ValidatorPanicIs500(t *testing.T) {
	f := newAuthFixture(t, "prod")
	f.validator.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) (domainauth.Identity, error) {
			panic("boom")
		})

	req := httptest.NewRequest(http.MethodPost, testPrefix+"/faqs", nil)
	req.AddCookie(&http.Cookie{Name: "AX", Value: "abc"})
	rec, p := f.serve(req)

	assert.False(t, p.called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error during session validation", decodeErrorBody(t, rec).Error)
}

func TestSessionMiddleware_LocalMode_NoCookieUsesPolicy(t *testing.T) {
	for _, env := range []string{"", "local", "default"} {
		t.Run("env="+env, func(t *testing.T) {
			f := newAuthFixture(t, env)

			rec, p := f.serve(httptest.NewRequest(http.MethodPost, testPrefix+"/faqs", nil))

			assert.Equal(t, http.StatusNoContent, rec.Code)
			require.True(t, p.hasID)
			assert.Equal(t, "LOCAL_DEV", p.identity.SubjectID)
			assert.True(t, p.checked)
			assert.Equal(t, []string{reasonNoCookie}, f.recorder.TagValues("session.fallback", "reason"))
		})
	}
}

func TestSessionMiddleware_LocalMode_InvalidCookieFallsBack(t *testing.T) {
	f := newAuthFixture(t, "local")
	f.validator.EXPECT().
		Validate(gomock.Any(), "AX:bad").
		Return(domainauth.Identity{}, service.ErrMalformedSession).
		Times(3)

	req := httptest.NewRequest(http.MethodPut, testPrefix+"/faqs/1", nil)
	req.AddCookie(&http.Cookie{Name: "AX", Value: "bad"})
	rec, p := f.serve(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "LOCAL_DEV", p.identity.SubjectID)
	assert.Zero(t, f.recorder.CountOf("session.rejected"))
	assert.Equal(t, int64(1), f.recorder.CountOf("session.fallback"))
}

func TestSessionMiddleware_LocalMode_ValidCookieWins(t *testing.T) {
	f := newAuthFixture(t, "local")
	f.validator.EXPECT().Validate(gomock.Any(), "AX:abc").Return(testIdentity, nil)

	req := httptest.NewRequest(http.MethodPost, testPrefix+"/faqs", nil)
	req.AddCookie(&http.Cookie{Name: "AX", Value: "abc"})
	_, p := f.serve(req)

	assert.Equal(t, "E123", p.identity.SubjectID)
	assert.Zero(t, f.recorder.CountOf("session.fallback"))
}

func TestNewAuthenticator_ModeGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mocks.NewMockSessionValidator(ctrl)
	local := domainauth.ParseMode("local")
	policy, err := devauth.NewPolicy(local, devauth.Config{})
	require.NoError(t, err)

	_, err = NewAuthenticator(AuthenticatorOptions{Mode: domainauth.ParseMode("prod"), Validator: validator, Policy: policy})
	require.ErrorIs(t, err, devauth.ErrNotLocal)

	_, err = NewAuthenticator(AuthenticatorOptions{Mode: domainauth.ParseMode("prod")})
	require.Error(t, err)

	_, err = NewAuthenticator(AuthenticatorOptions{Mode: local, Validator: validator})
	require.Error(t, err)

	a, err := NewAuthenticator(AuthenticatorOptions{Mode: local, Policy: policy})
	require.NoError(t, err)
	assert.True(t, a.Mode().IsLocal())
}
