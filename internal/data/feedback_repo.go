package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/data/pgxutil"
	"github.com/officeplus/faq-api/internal/domain/model"
	errs "github.com/officeplus/faq-api/internal/errors"
)

var (
	_ core.FeedbackRepository  = (*FeedbackRepo)(nil)
	_ core.SearchLogRepository = (*SearchLogRepo)(nil)
)

// FeedbackRepo stores helpful / not helpful votes.
type FeedbackRepo struct {
	DB           pgxutil.DB
	timeProvider TimeProvider
}

// NewFeedbackRepo creates a new FeedbackRepo with real time provider.
func NewFeedbackRepo(db pgxutil.DB) *FeedbackRepo {
	return &FeedbackRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create records feedback. An unknown faq_id yields NotFound.
func (r *FeedbackRepo) Create(ctx context.Context, req *model.CreateFeedbackRequest, userID *string) (*model.Feedback, error) {
	if req == nil {
		return nil, errors.New("create feedback request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fb, err := pgxutil.CollectOne[model.Feedback](ctx, r.DB, `
		INSERT INTO faq_feedback (faq_id, is_helpful, comment, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, faq_id, is_helpful, comment, user_id, created_at`,
		req.FAQID, *req.IsHelpful, req.Comment, userID, r.timeProvider.Now())
	if err != nil {
		return nil, faqErr(err, req.FAQID, "create feedback")
	}
	return &fb, nil
}

// SearchLogRepo stores search queries for later analysis.
type SearchLogRepo struct {
	DB           pgxutil.DB
	timeProvider TimeProvider
}

// NewSearchLogRepo creates a new SearchLogRepo with real time provider.
func NewSearchLogRepo(db pgxutil.DB) *SearchLogRepo {
	return &SearchLogRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create records one search.
func (r *SearchLogRepo) Create(ctx context.Context, req *model.CreateSearchLogRequest, userID *string) (*model.SearchLog, error) {
	if req == nil {
		return nil, errors.New("create search log request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sl, err := pgxutil.CollectOne[model.SearchLog](ctx, r.DB, `
		INSERT INTO search_logs (query, result_count, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, query, result_count, user_id, created_at`,
		req.Query, req.ResultCount, userID, r.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("create search log: %w", errs.MapDBError(err))
	}
	return &sl, nil
}
