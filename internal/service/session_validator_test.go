package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/officeplus/faq-api/internal/mocks"
	"github.com/officeplus/faq-api/internal/observability/metrics"
	"github.com/officeplus/faq-api/internal/ports"
)

const testKey = "AX:abc123def456"

type validatorFixture struct {
	store     *mocks.MockSessionStore
	refresher *mocks.MockPoolRefresher
	recorder  *metrics.Recorder
	delays    []time.Duration
	validator *SessionValidator
}

func newValidatorFixture(t *testing.T) *validatorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &validatorFixture{
		store:     mocks.NewMockSessionStore(ctrl),
		refresher: mocks.NewMockPoolRefresher(ctrl),
		recorder:  metrics.NewRecorder(),
	}
	v, err := NewSessionValidator(SessionValidatorOptions{
		Store:     f.store,
		Refresher: f.refresher,
		Metrics:   &metrics.SessionMetrics{Sink: f.recorder},
		Sleep: func(ctx context.Context, d time.Duration) error {
			f.delays = append(f.delays, d)
			return ctx.Err()
		},
	})
	require.NoError(t, err)
	f.validator = v
	return f
}

func redirectErr() error {
	return fmt.Errorf("get %s: %w", testKey, ports.ErrClusterRedirect)
}

func TestNewSessionValidator_RequiresStore(t *testing.T) {
	_, err := NewSessionValidator(SessionValidatorOptions{})
	require.Error(t, err)
}

func TestSessionValidator_ValidSession(t *testing.T) {
	f := newValidatorFixture(t)
	f.store.EXPECT().
		GetAndRefresh(gomock.Any(), testKey, 24*time.Hour).
		Return(`{"id":"ab1234","email":"jane.kim@lgcns.com","dept":"D100","corp":"LG01"}`, nil)

	id, err := f.validator.Validate(context.Background(), testKey)
	require.NoError(t, err)

	assert.Equal(t, "AB1234", id.SubjectID)
	assert.Equal(t, "jane.kim", id.DisplayName)
	assert.Equal(t, "jane.kim@lgcns.com", id.Email)
	assert.Equal(t, "D100", id.DepartmentCode)
	assert.Equal(t, "LG01", id.OrgCode)
	assert.Equal(t, []string{metrics.ResultValid}, f.recorder.TagValues("session.validate", "result"))
}

func TestSessionValidator_DefaultsMissingDeptAndCorp(t *testing.T) {
	f := newValidatorFixture(t)
	f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
		Return(`{"id":"x9","email":"solo@example.com"}`, nil)

	id, err := f.validator.Validate(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "X9", id.SubjectID)
	assert.Equal(t, "UNKNOWN", id.DepartmentCode)
	assert.Equal(t, "UNKNOWN", id.OrgCode)
}

func TestSessionValidator_KeepsEmptyDeptAndCorp(t *testing.T) {
	f := newValidatorFixture(t)
	f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
		Return(`{"id":"x9","email":"solo@example.com","dept":"","corp":""}`, nil)

	id, err := f.validator.Validate(context.Background(), testKey)
	require.NoError(t, err)
	assert.Empty(t, id.DepartmentCode)
	assert.Empty(t, id.OrgCode)
}

func TestSessionValidator_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		storeErr   error
		wantErr    error
		wantResult string
	}{
		{
			name:       "absent key",
			storeErr:   ports.ErrSessionNotFound,
			wantErr:    ErrSessionAbsent,
			wantResult: metrics.ResultAbsent,
		},
		{
			name:       "not json",
			raw:        "not-json",
			wantErr:    ErrMalformedSession,
			wantResult: metrics.ResultMalformed,
		},
		{
			name:       "missing email",
			raw:        `{"id":"ab1234"}`,
			wantErr:    ErrMalformedSession,
			wantResult: metrics.ResultMalformed,
		},
		{
			name:       "missing id",
			raw:        `{"email":"a@b.c"}`,
			wantErr:    ErrMalformedSession,
			wantResult: metrics.ResultMalformed,
		},
		{
			name:       "blank id",
			raw:        `{"id":"  ","email":"a@b.c"}`,
			wantErr:    ErrMalformedSession,
			wantResult: metrics.ResultMalformed,
		},
		{
			name:       "store unavailable",
			storeErr:   fmt.Errorf("dial: %w", ports.ErrStoreUnavailable),
			wantErr:    ErrStoreUnavailable,
			wantResult: metrics.ResultUnavailable,
		},
		{
			name:       "unexpected store error",
			storeErr:   errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"),
			wantErr:    ErrSessionInvalid,
			wantResult: metrics.ResultError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValidatorFixture(t)
			f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
				Return(tt.raw, tt.storeErr).Times(1)

			_, err := f.validator.Validate(context.Background(), testKey)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrSessionInvalid)
			assert.Empty(t, f.delays)
			assert.Equal(t, []string{tt.wantResult}, f.recorder.TagValues("session.validate", "result"))
		})
	}
}

func TestSessionValidator_EmptyKeyNeverHitsStore(t *testing.T) {
	f := newValidatorFixture(t)

	_, err := f.validator.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionAbsent)
}

func TestSessionValidator_RedirectThenSuccess(t *testing.T) {
	f := newValidatorFixture(t)
	gomock.InOrder(
		f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).Return("", redirectErr()),
		f.refresher.EXPECT().Refresh(gomock.Any()).Return(nil).Times(1),
		f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
			Return(`{"id":"u1","email":"u1@lgcns.com"}`, nil),
	)

	id, err := f.validator.Validate(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "U1", id.SubjectID)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, f.delays)
	assert.Equal(t, int64(1), f.recorder.CountOf("session.redirect"))
	assert.Equal(t, int64(1), f.recorder.CountOf("session.pool_refresh"))
}

func TestSessionValidator_RedirectsExhausted(t *testing.T) {
	f := newValidatorFixture(t)
	f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
		Return("", redirectErr()).Times(3)
	f.refresher.EXPECT().Refresh(gomock.Any()).Return(nil).Times(3)

	_, err := f.validator.Validate(context.Background(), testKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRedirectsExhausted)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// Linear backoff between attempts, none after the last.
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, f.delays)
	assert.Equal(t, []string{"1", "2", "3"}, f.recorder.TagValues("session.redirect", "attempt"))
	assert.Equal(t, []string{metrics.ResultRedirectExhausted}, f.recorder.TagValues("session.validate", "result"))
}

func TestSessionValidator_RefreshFailureStillRetries(t *testing.T) {
	f := newValidatorFixture(t)
	gomock.InOrder(
		f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).Return("", redirectErr()),
		f.refresher.EXPECT().Refresh(gomock.Any()).Return(errors.New("dial tcp: refused")),
		f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
			Return(`{"id":"u2","email":"u2@lgcns.com"}`, nil),
	)

	_, err := f.validator.Validate(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, []string{metrics.ResultError}, f.recorder.TagValues("session.pool_refresh", "result"))
}

func TestSessionValidator_WithoutRefresher(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	v, err := NewSessionValidator(SessionValidatorOptions{
		Store:       store,
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
	})
	require.NoError(t, err)

	store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).Return("", redirectErr()).Times(2)

	_, err = v.Validate(context.Background(), testKey)
	assert.ErrorIs(t, err, ErrRedirectsExhausted)
}

func TestSessionValidator_CanceledDuringBackoff(t *testing.T) {
	f := newValidatorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
		DoAndReturn(func(context.Context, string, time.Duration) (string, error) {
			cancel()
			return "", redirectErr()
		}).Times(1)
	f.refresher.EXPECT().Refresh(gomock.Any()).Return(nil)

	_, err := f.validator.Validate(ctx, testKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrSessionInvalid)
	assert.Equal(t, []string{metrics.ResultCanceled}, f.recorder.TagValues("session.validate", "result"))
}

func TestSessionValidator_CanceledBeforeStart(t *testing.T) {
	f := newValidatorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.validator.Validate(ctx, testKey)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionValidator_DeadlineIsNotStoreOutage(t *testing.T) {
	f := newValidatorFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	f.store.EXPECT().GetAndRefresh(gomock.Any(), testKey, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ time.Duration) (string, error) {
			<-ctx.Done()
			return "", fmt.Errorf("redis get: %w", ctx.Err())
		}).Times(1)

	_, err := f.validator.Validate(ctx, testKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionInvalid)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, []string{metrics.ResultCanceled}, f.recorder.TagValues("session.validate", "result"))
}
