//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// Feedback is a helpful / not helpful vote on an FAQ.
type Feedback struct {
	ID        int64     `json:"id"                db:"id"`
	FAQID     int64     `json:"faq_id"            db:"faq_id"`
	IsHelpful bool      `json:"is_helpful"        db:"is_helpful"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	UserID    *string   `json:"user_id,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"created_at"        db:"created_at"`
}

// CreateFeedbackRequest records a vote. The user comes from the caller's
// identity, never from the body.
type CreateFeedbackRequest struct {
	FAQID     int64   `json:"faq_id"            validate:"gt=0"`
	IsHelpful *bool   `json:"is_helpful"        validate:"required"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// Validate trims the request in place and checks it.
func (r *CreateFeedbackRequest) Validate() error {
	r.Comment = emptyToNil(r.Comment)
	return validateStruct(r)
}

// SearchLog records a search query and how many results it produced.
type SearchLog struct {
	ID          int64     `json:"id"                db:"id"`
	Query       string    `json:"query"             db:"query"`
	ResultCount int       `json:"result_count"      db:"result_count"`
	UserID      *string   `json:"user_id,omitempty" db:"user_id"`
	CreatedAt   time.Time `json:"created_at"        db:"created_at"`
}

// CreateSearchLogRequest records one search.
type CreateSearchLogRequest struct {
	Query       string `json:"query"        validate:"notblank,max=500"`
	ResultCount int    `json:"result_count" validate:"gte=0"`
}

// Validate trims the request in place and checks it.
func (r *CreateSearchLogRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	return validateStruct(r)
}
