package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	errs "github.com/officeplus/faq-api/internal/errors"
)

// maxBodyBytes caps request bodies accepted by DecodeJSON.
const maxBodyBytes = 1 << 20

// nowUTC is swapped in tests that assert on timestamps.
var nowUTC = func() time.Time { return time.Now().UTC() } //nolint:gochecknoglobals // test seam

// ErrorBody is the JSON envelope for every error response.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Field     string `json:"field,omitempty"`
}

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteError writes the error envelope for r.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeErrorBody(w, status, ErrorBody{Error: message, Path: r.URL.Path})
}

func writeErrorBody(w http.ResponseWriter, status int, body ErrorBody) {
	body.Success = false
	body.Timestamp = nowUTC().Format(time.RFC3339)
	WriteJSON(w, status, body)
}

// writeServiceError maps a service-layer error onto a status and envelope.
// Unclassified errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	appErr, ok := errs.As(err)
	if !ok || appErr.Code == errs.ErrCodeInternal {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("error", err))
		WriteError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeErrorBody(w, appErr.HTTPStatus(), ErrorBody{
		Error: appErr.Message,
		Path:  r.URL.Path,
		Field: appErr.Field,
	})
}
