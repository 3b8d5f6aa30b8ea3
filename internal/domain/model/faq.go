//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	errs "github.com/officeplus/faq-api/internal/errors"
)

// Paging bounds for FAQ listings.
const (
	DefaultFAQPageSize = 20
	MaxFAQPageSize     = 100
)

// FAQ is a question/answer pair with its tags and alternate phrasings.
type FAQ struct {
	ID             int64     `json:"id"                   db:"id"`
	Question       string    `json:"question"             db:"question"`
	Answer         string    `json:"answer"               db:"answer"`
	Category       *string   `json:"category,omitempty"   db:"category"`
	IsActive       bool      `json:"is_active"            db:"is_active"`
	UsageFrequency int64     `json:"usage_frequency"      db:"usage_frequency"`
	CreatedBy      *string   `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy      *string   `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt      time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"           db:"updated_at"`

	Tags     []Tag             `json:"tags"              db:"-"`
	Variants []QuestionVariant `json:"question_variants" db:"-"`
}

// QuestionVariant is an alternate phrasing of an FAQ's question.
type QuestionVariant struct {
	ID              int64     `json:"id"               db:"id"`
	FAQID           int64     `json:"faq_id"           db:"faq_id"`
	VariantQuestion string    `json:"variant_question" db:"variant_question"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"       db:"updated_at"`
}

// FAQListOptions controls paging and filtering for listing FAQs.
// Search matches question or answer case-insensitively. A nil IsActive
// lists active and inactive FAQs alike.
type FAQListOptions struct {
	Page     int
	PageSize int
	Search   string
	Category string
	TagID    *int64
	IsActive *bool
}

// Normalize clamps paging to supported bounds and trims filters.
func (o FAQListOptions) Normalize() FAQListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	switch {
	case o.PageSize < 1:
		o.PageSize = DefaultFAQPageSize
	case o.PageSize > MaxFAQPageSize:
		o.PageSize = MaxFAQPageSize
	}
	o.Search = strings.TrimSpace(o.Search)
	o.Category = strings.TrimSpace(o.Category)
	return o
}

// Offset returns the row offset for the current page.
func (o FAQListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// FAQPage is one page of FAQs plus paging totals.
type FAQPage struct {
	Items      []FAQ `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewFAQPage builds a page, computing TotalPages from total and opts.PageSize.
func NewFAQPage(items []FAQ, total int64, opts FAQListOptions) FAQPage {
	if items == nil {
		items = []FAQ{}
	}
	pages := 0
	if opts.PageSize > 0 {
		pages = int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	}
	return FAQPage{Items: items, Total: total, Page: opts.Page, PageSize: opts.PageSize, TotalPages: pages}
}

// CreateFAQRequest contains fields to create a new FAQ. NewTagNames are
// upserted by name and linked alongside TagIDs.
type CreateFAQRequest struct {
	Question         string   `json:"question"                    validate:"notblank,max=500"`
	Answer           string   `json:"answer"                      validate:"notblank"`
	Category         *string  `json:"category,omitempty"          validate:"omitempty,max=100"`
	IsActive         *bool    `json:"is_active,omitempty"`
	TagIDs           []int64  `json:"tag_ids,omitempty"           validate:"omitempty,dive,gt=0"`
	NewTagNames      []string `json:"new_tag_names,omitempty"     validate:"omitempty,dive,notblank,max=50"`
	QuestionVariants []string `json:"question_variants,omitempty" validate:"omitempty,dive,notblank,max=500"`
}

// Validate trims the request in place and checks it.
func (r *CreateFAQRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
	r.Category = emptyToNil(r.Category)
	r.NewTagNames = trimAll(r.NewTagNames)
	r.QuestionVariants = trimAll(r.QuestionVariants)
	return validateStruct(r)
}

// Active reports the requested active flag, defaulting to true.
func (r *CreateFAQRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// UpdateFAQRequest is a partial update. A non-nil TagIDs or QuestionVariants
// replaces the existing set, so an empty list clears it.
type UpdateFAQRequest struct {
	Question         *string  `json:"question,omitempty"          validate:"omitempty,notblank,max=500"`
	Answer           *string  `json:"answer,omitempty"            validate:"omitempty,notblank"`
	Category         *string  `json:"category,omitempty"          validate:"omitempty,max=100"`
	IsActive         *bool    `json:"is_active,omitempty"`
	TagIDs           []int64  `json:"tag_ids,omitempty"           validate:"omitempty,dive,gt=0"`
	QuestionVariants []string `json:"question_variants,omitempty" validate:"omitempty,dive,notblank,max=500"`
}

// HasChanges reports whether any field was supplied.
func (r *UpdateFAQRequest) HasChanges() bool {
	return r.Question != nil || r.Answer != nil || r.Category != nil || r.IsActive != nil ||
		r.TagIDs != nil || r.QuestionVariants != nil
}

// Validate trims the request in place and checks it.
func (r *UpdateFAQRequest) Validate() error {
	r.Question = trimPtr(r.Question)
	r.Answer = trimPtr(r.Answer)
	r.Category = trimPtr(r.Category)
	r.QuestionVariants = trimAll(r.QuestionVariants)
	if !r.HasChanges() {
		return errs.Validation("at least one field must be updated")
	}
	return validateStruct(r)
}

// CreateVariantRequest adds one alternate phrasing to an FAQ.
type CreateVariantRequest struct {
	VariantQuestion string `json:"variant_question" validate:"notblank,max=500"`
}

// Validate trims the request in place and checks it.
func (r *CreateVariantRequest) Validate() error {
	r.VariantQuestion = strings.TrimSpace(r.VariantQuestion)
	return validateStruct(r)
}
