// Package core defines the repository contracts the service layer depends on.
package core

import (
	"context"
	"time"

	"github.com/officeplus/faq-api/internal/domain/model"
)

// These interfaces are the ports between the service and data layers.
// Services depend on them, never on the pgx-backed implementations.

// FAQRepository defines FAQ, tag-link and question-variant persistence.
type FAQRepository interface {
	List(ctx context.Context, opts model.FAQListOptions) ([]model.FAQ, int64, error)
	GetByID(ctx context.Context, id int64) (*model.FAQ, error)
	IncrementUsage(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req *model.CreateFAQRequest, actor string) (*model.FAQ, error)
	Update(ctx context.Context, id int64, req *model.UpdateFAQRequest, actor string) (*model.FAQ, error)
	Deactivate(ctx context.Context, id int64, actor string) error
	AddVariant(ctx context.Context, faqID int64, question string) (*model.QuestionVariant, error)
	DeleteVariant(ctx context.Context, faqID, variantID int64) error
	DeleteVariantByID(ctx context.Context, variantID int64) error
}

// TagRepository defines tag persistence.
type TagRepository interface {
	ListWithCounts(ctx context.Context) ([]model.TagWithCount, error)
	GetByID(ctx context.Context, id int64) (*model.Tag, error)
	Create(ctx context.Context, req *model.CreateTagRequest) (*model.Tag, error)
	Update(ctx context.Context, id int64, req *model.UpdateTagRequest) (*model.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// FeedbackRepository stores FAQ feedback. A nil userID records an anonymous vote.
type FeedbackRepository interface {
	Create(ctx context.Context, req *model.CreateFeedbackRequest, userID *string) (*model.Feedback, error)
}

// SearchLogRepository stores search queries.
type SearchLogRepository interface {
	Create(ctx context.Context, req *model.CreateSearchLogRequest, userID *string) (*model.SearchLog, error)
}

// DBStatus is a point-in-time view of the database connection.
type DBStatus struct {
	Database    string    `json:"database"`
	CurrentTime time.Time `json:"current_time"`
	DSN         string    `json:"dsn"`
}

// StatusRepository reports database connectivity.
type StatusRepository interface {
	Status(ctx context.Context) (DBStatus, error)
}
