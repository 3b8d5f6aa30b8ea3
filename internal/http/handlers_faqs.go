package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/domain/model"
	"github.com/officeplus/faq-api/internal/service"
)

// FAQHandlers provides HTTP handlers for FAQs and their question variants.
type FAQHandlers struct {
	Svc    *service.FAQService
	Logger *slog.Logger
}

// List handles GET /faqs.
func (h *FAQHandlers) List(w http.ResponseWriter, r *http.Request) {
	tagID, err := optionalInt64Query(r, "tag_id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	active, err := optionalBoolQuery(r, "is_active")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	q := r.URL.Query()
	opts := model.FAQListOptions{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", model.DefaultFAQPageSize),
		Search:   q.Get("search"),
		Category: q.Get("category"),
		TagID:    tagID,
		IsActive: active,
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /faqs/{id}.
func (h *FAQHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	faq, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, faq)
}

// Categories handles GET /faqs/categories.
func (h *FAQHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, cats)
}

// Create handles POST /faqs.
func (h *FAQHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFAQRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	faq, err := h.Svc.Create(r.Context(), &req, callerOf(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, faq)
}

// Update handles PUT /faqs/{id}.
func (h *FAQHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	var req model.UpdateFAQRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	faq, err := h.Svc.Update(r.Context(), id, &req, callerOf(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, faq)
}

// Delete handles DELETE /faqs/{id}.
func (h *FAQHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id, callerOf(r)); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVariants handles GET /faqs/{id}/variants.
func (h *FAQHandlers) ListVariants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	vs, err := h.Svc.ListVariants(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, vs)
}

// AddVariant handles POST /faqs/{id}/variants.
func (h *FAQHandlers) AddVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	var req model.CreateVariantRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	v, err := h.Svc.AddVariant(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, v)
}

// DeleteVariant handles DELETE /faqs/{id}/variants/{variantId}.
func (h *FAQHandlers) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	variantID, err := pathID(r, "variantId")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if err := h.Svc.DeleteVariant(r.Context(), id, variantID); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteVariantByID handles DELETE /variants/{variantId}.
func (h *FAQHandlers) DeleteVariantByID(w http.ResponseWriter, r *http.Request) {
	variantID, err := pathID(r, "variantId")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if err := h.Svc.DeleteVariantByID(r.Context(), variantID); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// callerOf returns the request identity, or the zero Identity.
func callerOf(r *http.Request) domainauth.Identity {
	id, _ := IdentityFromContext(r.Context())
	return id
}
