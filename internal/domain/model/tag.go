//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	errs "github.com/officeplus/faq-api/internal/errors"
)

// Tag labels FAQs for filtering. Names are unique.
type Tag struct {
	ID          int64     `json:"id"                    db:"id"`
	Name        string    `json:"name"                  db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// TagWithCount is a tag plus the number of FAQs linked to it.
type TagWithCount struct {
	Tag
	FAQCount int64 `json:"faq_count" db:"faq_count"`
}

// CreateTagRequest contains fields to create a new tag.
type CreateTagRequest struct {
	Name        string  `json:"name"                  validate:"notblank,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// Validate trims the request in place and checks it.
func (r *CreateTagRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = emptyToNil(r.Description)
	return validateStruct(r)
}

// UpdateTagRequest contains optional fields to update a tag.
type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,notblank,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// Validate trims the request in place and checks it.
func (r *UpdateTagRequest) Validate() error {
	r.Name = trimPtr(r.Name)
	r.Description = trimPtr(r.Description)
	if r.Name == nil && r.Description == nil {
		return errs.Validation("at least one field must be updated")
	}
	return validateStruct(r)
}
