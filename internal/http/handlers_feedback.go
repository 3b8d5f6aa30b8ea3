package httpx

import (
	"log/slog"
	"net/http"

	"github.com/officeplus/faq-api/internal/domain/model"
	"github.com/officeplus/faq-api/internal/service"
)

// FeedbackHandlers records feedback votes and search logs.
type FeedbackHandlers struct {
	Svc    *service.FeedbackService
	Logger *slog.Logger
}

// Submit handles POST /feedback.
func (h *FeedbackHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFeedbackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	fb, err := h.Svc.Submit(r.Context(), &req, callerOf(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, fb)
}

// LogSearch handles POST /search-logs.
func (h *FeedbackHandlers) LogSearch(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSearchLogRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	entry, err := h.Svc.LogSearch(r.Context(), &req, callerOf(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}
