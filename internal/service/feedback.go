package service

import (
	"context"
	"log/slog"

	"github.com/officeplus/faq-api/internal/core"
	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/domain/model"
)

// FeedbackServiceOptions groups dependencies for FeedbackService.
type FeedbackServiceOptions struct {
	Feedback   core.FeedbackRepository
	SearchLogs core.SearchLogRepository
	Logger     *slog.Logger
}

// FeedbackService records reader feedback and search activity.
type FeedbackService struct {
	feedback   core.FeedbackRepository
	searchLogs core.SearchLogRepository
	logger     *slog.Logger
}

// NewFeedbackService constructs a new FeedbackService.
func NewFeedbackService(opts FeedbackServiceOptions) *FeedbackService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackService{
		feedback:   opts.Feedback,
		searchLogs: opts.SearchLogs,
		logger:     logger.With("component", "feedback_service"),
	}
}

// Submit records a vote on an FAQ. Anonymous callers are recorded without a user.
func (s *FeedbackService) Submit(
	ctx context.Context,
	req *model.CreateFeedbackRequest,
	caller domainauth.Identity,
) (*model.Feedback, error) {
	fb, err := s.feedback.Create(ctx, req, subjectOf(caller))
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "feedback recorded", "faq_id", fb.FAQID, "helpful", fb.IsHelpful)
	return fb, nil
}

// LogSearch records a search query.
func (s *FeedbackService) LogSearch(
	ctx context.Context,
	req *model.CreateSearchLogRequest,
	caller domainauth.Identity,
) (*model.SearchLog, error) {
	return s.searchLogs.Create(ctx, req, subjectOf(caller))
}

func subjectOf(id domainauth.Identity) *string {
	if id.IsZero() {
		return nil
	}
	v := id.SubjectID
	return &v
}
