// Package devseed loads a small sample catalogue for local development.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/domain/model"
	errs "github.com/officeplus/faq-api/internal/errors"
)

// SystemActor is recorded as the author of seeded rows.
const SystemActor = "SYSTEM"

// FAQStore is the part of the FAQ service seeding needs.
type FAQStore interface {
	List(ctx context.Context, opts model.FAQListOptions) (model.FAQPage, error)
	Create(ctx context.Context, req *model.CreateFAQRequest, caller domainauth.Identity) (*model.FAQ, error)
}

// TagStore is the part of the tag service seeding needs.
type TagStore interface {
	Create(ctx context.Context, req *model.CreateTagRequest) (*model.Tag, error)
}

// Services bundles the dependencies needed for development seeding.
type Services struct {
	FAQs FAQStore
	Tags TagStore
}

// Result counts what a run created.
type Result struct {
	TagsCreated int
	FAQsCreated int
	Skipped     bool
}

// Run seeds tags and, when the catalogue is empty, sample FAQs. Existing
// tags are left alone, so running it twice is harmless.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result
	failures := 0

	tagsCreated, tagFailures := seedTags(ctx, svcs.Tags, logger)
	res.TagsCreated = tagsCreated
	failures += tagFailures

	page, err := svcs.FAQs.List(ctx, model.FAQListOptions{PageSize: 1})
	if err != nil {
		return res, fmt.Errorf("count faqs: %w", err)
	}
	if page.Total > 0 {
		logger.InfoContext(ctx, "faqs already exist, skipping seed", "total", page.Total)
		res.Skipped = true
	} else {
		created, faqFailures := seedFAQs(ctx, svcs.FAQs, logger)
		res.FAQsCreated = created
		failures += faqFailures
	}

	if failures > 0 {
		return res, fmt.Errorf("%d seed errors; check logs", failures)
	}
	return res, nil
}

func seedTags(ctx context.Context, svc TagStore, logger *slog.Logger) (int, int) {
	created, failures := 0, 0
	for _, req := range defaultTags() {
		if _, err := svc.Create(ctx, req); err != nil {
			if errs.IsConflict(err) {
				logger.InfoContext(ctx, "tag already exists", "name", req.Name)
				continue
			}
			logger.ErrorContext(ctx, "failed to create tag", "name", req.Name, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created tag", "name", req.Name)
		created++
	}
	return created, failures
}

func seedFAQs(ctx context.Context, svc FAQStore, logger *slog.Logger) (int, int) {
	actor := domainauth.Identity{SubjectID: SystemActor}
	created, failures := 0, 0
	for _, req := range defaultFAQs() {
		faq, err := svc.Create(ctx, req, actor)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create faq", "question", req.Question, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created faq", "id", faq.ID)
		created++
	}
	return created, failures
}

func defaultTags() []*model.CreateTagRequest {
	return []*model.CreateTagRequest{
		{Name: "사용법", Description: strPtr("시스템 사용 안내")},
		{Name: "검색"},
		{Name: "권한"},
		{Name: "지원"},
		{Name: "데이터"},
	}
}

func defaultFAQs() []*model.CreateFAQRequest {
	return []*model.CreateFAQRequest{
		{
			Category:         strPtr("시스템 사용법"),
			Question:         "OfficePlus FAQ 시스템은 어떻게 사용하나요?",
			Answer:           "업무 관련 자주 묻는 질문을 검색하고 확인할 수 있는 시스템입니다. 상단 검색창에 궁금한 내용을 입력하거나 카테고리별로 FAQ를 탐색할 수 있습니다.",
			NewTagNames:      []string{"사용법"},
			QuestionVariants: []string{"FAQ 시스템 사용 방법", "FAQ 시작하기"},
		},
		{
			Category:         strPtr("시스템 사용법"),
			Question:         "FAQ 검색은 어떻게 하나요?",
			Answer:           "상단 검색창에 키워드를 입력하면 질문과 답변에서 관련 FAQ를 찾아드립니다. 여러 단어로 검색하면 더 정확한 결과를 얻을 수 있습니다.",
			NewTagNames:      []string{"검색", "사용법"},
			QuestionVariants: []string{"키워드로 찾기"},
		},
		{
			Category:    strPtr("접근 권한"),
			Question:    "FAQ 시스템에 접근할 수 있는 사용자는 누구인가요?",
			Answer:      "사내 모든 임직원이 FAQ를 조회할 수 있습니다. FAQ 작성과 수정은 관리자 권한이 필요합니다.",
			NewTagNames: []string{"권한"},
		},
		{
			Category:    strPtr("기술 지원"),
			Question:    "시스템 오류가 발생하면 어디에 문의하나요?",
			Answer:      "IT 헬프데스크(내선 1234)로 문의하거나 시스템 관리자에게 이메일을 보내주시기 바랍니다.",
			NewTagNames: []string{"지원"},
		},
		{
			Category:    strPtr("데이터 관리"),
			Question:    "FAQ 데이터는 얼마나 자주 업데이트되나요?",
			Answer:      "새로운 질문이나 정책 변경이 있을 때마다 관리자가 즉시 반영합니다.",
			NewTagNames: []string{"데이터"},
		},
	}
}

func strPtr(s string) *string { return &s }
