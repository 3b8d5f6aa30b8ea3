package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/officeplus/faq-api/internal/core"
	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/domain/model"
)

// FAQServiceOptions groups dependencies for FAQService.
type FAQServiceOptions struct {
	Repo   core.FAQRepository
	Logger *slog.Logger
}

// FAQService orchestrates FAQ reads and writes on behalf of a caller.
type FAQService struct {
	faqs   core.FAQRepository
	logger *slog.Logger
}

// NewFAQService constructs a new FAQService.
func NewFAQService(opts FAQServiceOptions) *FAQService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FAQService{faqs: opts.Repo, logger: logger.With("component", "faq_service")}
}

// List returns one page of FAQs.
func (s *FAQService) List(ctx context.Context, opts model.FAQListOptions) (model.FAQPage, error) {
	opts = opts.Normalize()
	items, total, err := s.faqs.List(ctx, opts)
	if err != nil {
		return model.FAQPage{}, err
	}
	return model.NewFAQPage(items, total, opts), nil
}

// Get returns an FAQ and counts the view.
func (s *FAQService) Get(ctx context.Context, id int64) (*model.FAQ, error) {
	if err := s.faqs.IncrementUsage(ctx, id); err != nil {
		return nil, err
	}
	return s.faqs.GetByID(ctx, id)
}

// Categories returns the categories of active FAQs.
func (s *FAQService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.faqs.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// Create stores a new FAQ attributed to the caller.
func (s *FAQService) Create(ctx context.Context, req *model.CreateFAQRequest, caller domainauth.Identity) (*model.FAQ, error) {
	if req == nil {
		return nil, errors.New("create faq request is required")
	}
	faq, err := s.faqs.Create(ctx, req, caller.SubjectID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "faq created", "faq_id", faq.ID, "subject", caller.SubjectID)
	return faq, nil
}

// Update applies a partial update attributed to the caller.
func (s *FAQService) Update(
	ctx context.Context,
	id int64,
	req *model.UpdateFAQRequest,
	caller domainauth.Identity,
) (*model.FAQ, error) {
	if req == nil {
		return nil, errors.New("update faq request is required")
	}
	faq, err := s.faqs.Update(ctx, id, req, caller.SubjectID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "faq updated", "faq_id", id, "subject", caller.SubjectID)
	return faq, nil
}

// Delete soft-deletes an FAQ.
func (s *FAQService) Delete(ctx context.Context, id int64, caller domainauth.Identity) error {
	if err := s.faqs.Deactivate(ctx, id, caller.SubjectID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "faq deactivated", "faq_id", id, "subject", caller.SubjectID)
	return nil
}

// ListVariants returns the alternate phrasings of an FAQ without counting a view.
func (s *FAQService) ListVariants(ctx context.Context, faqID int64) ([]model.QuestionVariant, error) {
	faq, err := s.faqs.GetByID(ctx, faqID)
	if err != nil {
		return nil, err
	}
	if faq.Variants == nil {
		return []model.QuestionVariant{}, nil
	}
	return faq.Variants, nil
}

// AddVariant attaches an alternate phrasing.
func (s *FAQService) AddVariant(ctx context.Context, faqID int64, req *model.CreateVariantRequest) (*model.QuestionVariant, error) {
	if req == nil {
		return nil, errors.New("create variant request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.faqs.AddVariant(ctx, faqID, req.VariantQuestion)
}

// DeleteVariant removes an alternate phrasing.
func (s *FAQService) DeleteVariant(ctx context.Context, faqID, variantID int64) error {
	return s.faqs.DeleteVariant(ctx, faqID, variantID)
}

// DeleteVariantByID removes an alternate phrasing by its own id.
func (s *FAQService) DeleteVariantByID(ctx context.Context, variantID int64) error {
	return s.faqs.DeleteVariantByID(ctx, variantID)
}
