package httpx

import (
	"log/slog"
	"net/http"

	"github.com/officeplus/faq-api/internal/domain/model"
	"github.com/officeplus/faq-api/internal/service"
)

// TagHandlers provides HTTP handlers for tags.
type TagHandlers struct {
	Svc    *service.TagService
	Logger *slog.Logger
}

// List handles GET /tags.
func (h *TagHandlers) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, tags)
}

// Get handles GET /tags/{id}.
func (h *TagHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	tag, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, tag)
}

// Create handles POST /tags.
func (h *TagHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTagRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tag, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, tag)
}

// Update handles PUT /tags/{id}.
func (h *TagHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	var req model.UpdateTagRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tag, err := h.Svc.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, tag)
}

// Delete handles DELETE /tags/{id}.
func (h *TagHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
