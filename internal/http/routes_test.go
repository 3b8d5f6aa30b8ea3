package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/officeplus/faq-api/internal/core"
	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/domain/model"
	errs "github.com/officeplus/faq-api/internal/errors"
	"github.com/officeplus/faq-api/internal/mocks"
	"github.com/officeplus/faq-api/internal/service"
)

type apiFixture struct {
	faqs      *mocks.MockFAQRepository
	tags      *mocks.MockTagRepository
	feedback  *mocks.MockFeedbackRepository
	logs      *mocks.MockSearchLogRepository
	status    *mocks.MockStatusRepository
	validator *mocks.MockSessionValidator
	handler   http.Handler
}

// newAPIFixture wires the full middleware stack in a named environment.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &apiFixture{
		faqs:      mocks.NewMockFAQRepository(ctrl),
		tags:      mocks.NewMockTagRepository(ctrl),
		feedback:  mocks.NewMockFeedbackRepository(ctrl),
		logs:      mocks.NewMockSearchLogRepository(ctrl),
		status:    mocks.NewMockStatusRepository(ctrl),
		validator: mocks.NewMockSessionValidator(ctrl),
	}
	auth, err := NewAuthenticator(AuthenticatorOptions{
		Mode:       domainauth.ParseMode("prod"),
		Validator:  f.validator,
		Exemptions: NewExemptions(testPrefix),
		Sleep:      func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	})
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		FAQs:      service.NewFAQService(service.FAQServiceOptions{Repo: f.faqs}),
		Tags:      service.NewTagService(f.tags),
		Feedback:  service.NewFeedbackService(service.FeedbackServiceOptions{Feedback: f.feedback, SearchLogs: f.logs}),
		Status:    f.status,
		Auth:      auth,
		APIPrefix: testPrefix,
		Info:      ServiceInfo{Name: "faq-api", Version: "test", Environment: "prod"},
	})
	f.handler = Handler(router, HandlerOptions{Auth: auth, CORSOrigins: []string{"http://localhost:5173"}})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "AX", Value: cookie})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// signedIn expects one successful validation for cookie "good".
func (f *apiFixture) signedIn() {
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil)
}

func TestRouter_HealthAndRoot(t *testing.T) {
	fixedNow(t)
	f := newAPIFixture(t)

	for _, path := range []string{"/health", testPrefix + "/health"} {
		rec := f.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy","timestamp":"2024-03-04T09:30:00Z","environment":"prod"}`, rec.Body.String())
	}

	rec := f.do(t, http.MethodGet, testPrefix+"/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"faq-api","version":"test","status":"running","environment":"prod"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRouter_DBStatus(t *testing.T) {
	f := newAPIFixture(t)
	serverTime := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

	f.status.EXPECT().Status(gomock.Any()).
		Return(core.DBStatus{Database: "faq", CurrentTime: serverTime, DSN: "postgres://faq:***@db:5432/faq"}, nil)
	rec := f.do(t, http.MethodGet, testPrefix+"/db/status", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"database":"faq","current_time":"2024-03-04T09:30:00Z","dsn":"postgres://faq:***@db:5432/faq"}`,
		rec.Body.String())

	f.status.EXPECT().Status(gomock.Any()).Return(core.DBStatus{}, errors.New("connection refused"))
	rec = f.do(t, http.MethodGet, testPrefix+"/db/status", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database connection failed", decodeErrorBody(t, rec).Error)
}

func TestRouter_ListFAQsIsPublic(t *testing.T) {
	f := newAPIFixture(t)
	f.faqs.EXPECT().
		List(gomock.Any(), model.FAQListOptions{
			Page:     2,
			PageSize: 10,
			Search:   "vpn",
			TagID:    int64Ptr(3),
			IsActive: boolPtr(true),
		}).
		Return([]model.FAQ{{ID: 1, Question: "Q", Answer: "A", IsActive: true}}, int64(11), nil)

	rec := f.do(t, http.MethodGet, testPrefix+"/faqs?page=2&page_size=10&search=vpn&tag_id=3&is_active=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page model.FAQPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestRouter_ListFAQsRejectsBadFilter(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, testPrefix+"/faqs?tag_id=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "tag_id", decodeErrorBody(t, rec).Field)
}

func TestRouter_GetFAQ(t *testing.T) {
	f := newAPIFixture(t)
	f.faqs.EXPECT().IncrementUsage(gomock.Any(), int64(5)).Return(nil)
	f.faqs.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&model.FAQ{ID: 5, UsageFrequency: 1}, nil)

	rec := f.do(t, http.MethodGet, testPrefix+"/faqs/5", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	f.faqs.EXPECT().IncrementUsage(gomock.Any(), int64(6)).Return(errs.NotFoundf("faq %d not found", 6))
	rec = f.do(t, http.MethodGet, testPrefix+"/faqs/6", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "faq 6 not found", decodeErrorBody(t, rec).Error)
}

func TestRouter_Categories(t *testing.T) {
	f := newAPIFixture(t)
	f.faqs.EXPECT().Categories(gomock.Any()).Return([]string{"hr", "it"}, nil)

	rec := f.do(t, http.MethodGet, testPrefix+"/faqs/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["hr","it"]`, rec.Body.String())
}

func TestRouter_CreateFAQRequiresSession(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, testPrefix+"/faqs", map[string]any{"question": "Q", "answer": "A"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AX cookie not found", decodeErrorBody(t, rec).Error)
}

func TestRouter_CreateFAQ(t *testing.T) {
	f := newAPIFixture(t)
	f.signedIn()
	f.faqs.EXPECT().
		Create(gomock.Any(), gomock.Any(), "E123").
		DoAndReturn(func(_ context.Context, req *model.CreateFAQRequest, actor string) (*model.FAQ, error) {
			assert.Equal(t, "How do I connect to VPN?", req.Question)
			assert.Equal(t, []int64{1, 2}, req.TagIDs)
			return &model.FAQ{ID: 9, Question: req.Question, Answer: req.Answer, CreatedBy: &actor}, nil
		})

	rec := f.do(t, http.MethodPost, testPrefix+"/faqs", map[string]any{
		"question": "How do I connect to VPN?",
		"answer":   "Install the client.",
		"tag_ids":  []int64{1, 2},
	}, "good")
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.FAQ
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(9), got.ID)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "E123", *got.CreatedBy)
}

func TestRouter_CreateFAQValidationError(t *testing.T) {
	f := newAPIFixture(t)
	f.signedIn()
	f.faqs.EXPECT().
		Create(gomock.Any(), gomock.Any(), "E123").
		Return(nil, errs.ValidationField("question", "question is required and cannot be empty"))

	rec := f.do(t, http.MethodPost, testPrefix+"/faqs", map[string]any{"question": " ", "answer": "A"}, "good")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "question", body.Field)
	assert.Equal(t, "question is required and cannot be empty", body.Error)
}

func TestRouter_CreateFAQRejectsUnknownFields(t *testing.T) {
	f := newAPIFixture(t)
	f.signedIn()

	rec := f.do(t, http.MethodPost, testPrefix+"/faqs", map[string]any{"question": "Q", "answer": "A", "owner": "x"}, "good")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorBody(t, rec).Error, "Invalid JSON body")
}

func TestRouter_UpdateAndDeleteFAQ(t *testing.T) {
	f := newAPIFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil).Times(2)
	f.faqs.EXPECT().
		Update(gomock.Any(), int64(4), gomock.Any(), "E123").
		Return(&model.FAQ{ID: 4, Answer: "new"}, nil)
	f.faqs.EXPECT().Deactivate(gomock.Any(), int64(4), "E123").Return(nil)

	rec := f.do(t, http.MethodPut, testPrefix+"/faqs/4", map[string]any{"answer": "new"}, "good")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, testPrefix+"/faqs/4", nil, "good")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRouter_Variants(t *testing.T) {
	f := newAPIFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil).Times(3)
	f.faqs.EXPECT().
		AddVariant(gomock.Any(), int64(4), "VPN not connecting").
		Return(&model.QuestionVariant{ID: 7, FAQID: 4, VariantQuestion: "VPN not connecting"}, nil)
	f.faqs.EXPECT().DeleteVariant(gomock.Any(), int64(4), int64(7)).Return(nil)

	rec := f.do(t, http.MethodPost, testPrefix+"/faqs/4/variants", map[string]any{"variant_question": "VPN not connecting"}, "good")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, testPrefix+"/faqs/4/variants", map[string]any{"variant_question": ""}, "good")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, testPrefix+"/faqs/4/variants/7", nil, "good")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_ListVariantsIsPublic(t *testing.T) {
	f := newAPIFixture(t)
	f.faqs.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&model.FAQ{
		ID:       4,
		Variants: []model.QuestionVariant{{ID: 7, FAQID: 4, VariantQuestion: "VPN not connecting"}},
	}, nil)
	f.faqs.EXPECT().GetByID(gomock.Any(), int64(5)).Return(nil, errs.NotFoundf("FAQ %d not found", 5))

	rec := f.do(t, http.MethodGet, testPrefix+"/faqs/4/variants", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var vs []model.QuestionVariant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vs))
	require.Len(t, vs, 1)
	assert.Equal(t, int64(7), vs[0].ID)

	rec = f.do(t, http.MethodGet, testPrefix+"/faqs/5/variants", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_DeleteVariantByID(t *testing.T) {
	f := newAPIFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil).Times(2)
	f.faqs.EXPECT().DeleteVariantByID(gomock.Any(), int64(7)).Return(nil)
	f.faqs.EXPECT().DeleteVariantByID(gomock.Any(), int64(8)).Return(errs.NotFoundf("question variant %d not found", 8))

	rec := f.do(t, http.MethodDelete, testPrefix+"/variants/7", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodDelete, testPrefix+"/variants/7", nil, "good")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, testPrefix+"/variants/8", nil, "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "question variant 8 not found", decodeErrorBody(t, rec).Error)
}

func TestRouter_Tags(t *testing.T) {
	f := newAPIFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil).Times(2)
	f.tags.EXPECT().ListWithCounts(gomock.Any()).
		Return([]model.TagWithCount{{Tag: model.Tag{ID: 1, Name: "vpn"}, FAQCount: 3}}, nil)
	f.tags.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, errs.Conflictf("tag %q already exists", "vpn"))

	rec := f.do(t, http.MethodGet, testPrefix+"/tags", nil, "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"faq_count":3`)

	rec = f.do(t, http.MethodPost, testPrefix+"/tags", map[string]any{"name": "vpn"}, "good")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, `tag "vpn" already exists`, decodeErrorBody(t, rec).Error)
}

func TestRouter_GetTag(t *testing.T) {
	f := newAPIFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil).Times(2)
	f.tags.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&model.Tag{ID: 1, Name: "vpn"}, nil)
	f.tags.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, errs.NotFoundf("tag %d not found", 9))

	rec := f.do(t, http.MethodGet, testPrefix+"/tags/1", nil, "good")
	require.Equal(t, http.StatusOK, rec.Code)
	var tag model.Tag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tag))
	assert.Equal(t, "vpn", tag.Name)

	rec = f.do(t, http.MethodGet, testPrefix+"/tags/9", nil, "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "tag 9 not found", decodeErrorBody(t, rec).Error)
}

func TestRouter_FeedbackAndSearchLogs(t *testing.T) {
	f := newAPIFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), "AX:good").Return(testIdentity, nil).Times(3)
	f.feedback.EXPECT().
		Create(gomock.Any(), gomock.Any(), stringPtr("E123")).
		Return(&model.Feedback{ID: 1, FAQID: 2, IsHelpful: true}, nil)
	f.feedback.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errs.NotFoundf("faq %d not found", 404))
	f.logs.EXPECT().
		Create(gomock.Any(), gomock.Any(), stringPtr("E123")).
		Return(&model.SearchLog{ID: 1, Query: "vpn", ResultCount: 2}, nil)

	rec := f.do(t, http.MethodPost, testPrefix+"/feedback", map[string]any{"faq_id": 2, "is_helpful": true}, "good")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, testPrefix+"/feedback", map[string]any{"faq_id": 404, "is_helpful": false}, "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, testPrefix+"/search-logs", map[string]any{"query": "vpn", "result_count": 2}, "good")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_InternalErrorsAreOpaque(t *testing.T) {
	f := newAPIFixture(t)
	f.signedIn()
	f.tags.EXPECT().ListWithCounts(gomock.Any()).Return(nil, errors.New("pq: relation tags does not exist"))

	rec := f.do(t, http.MethodGet, testPrefix+"/tags", nil, "good")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeErrorBody(t, rec).Error)
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodOptions, testPrefix+"/faqs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func int64Ptr(v int64) *int64    { return &v }
func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }
