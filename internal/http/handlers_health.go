package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/officeplus/faq-api/internal/core"
)

// HealthResponse is the readiness/liveness body.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// ServiceInfo identifies the running build.
type ServiceInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// InfoHandlers serves the service metadata endpoints.
type InfoHandlers struct {
	Info   ServiceInfo
	Status core.StatusRepository
	Logger *slog.Logger
}

// Health returns 200 for readiness/liveness checks. HEAD gets no body.
func (h *InfoHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   nowUTC().Format(time.RFC3339),
		Environment: h.Info.Environment,
	})
}

// Root reports the service name and version.
func (h *InfoHandlers) Root(w http.ResponseWriter, _ *http.Request) {
	info := h.Info
	if info.Status == "" {
		info.Status = "running"
	}
	WriteJSON(w, http.StatusOK, info)
}

// DBStatus reports database connectivity, or 503 when it is down.
func (h *InfoHandlers) DBStatus(w http.ResponseWriter, r *http.Request) {
	if h.Status == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "Database is not configured")
		return
	}
	st, err := h.Status.Status(r.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "database status check failed", "error", err)
		}
		WriteError(w, r, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	WriteJSON(w, http.StatusOK, st)
}
