package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/ports"
)

const (
	defaultSessionScanLimit = 50
	maxSessionScanLimit     = 500

	// localSessionID marks a caller served by the development identity.
	localSessionID = "local_session"
	// validatedSessionID marks a caller validated upstream without a cookie to report.
	validatedSessionID = "validated_session"
)

// UserInfo is the caller summary inside a whoami response.
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Dept string `json:"dept"`
	Corp string `json:"corp"`
}

// WhoAmIResponse is returned by /session/whoami.
type WhoAmIResponse struct {
	Success   bool     `json:"success"`
	UserInfo  UserInfo `json:"user_info"`
	SessionID string   `json:"session_id"`
	Timestamp string   `json:"timestamp"`
}

// SessionEntryResponse is one inspected session. Value is raw JSON when the
// stored payload parses, a JSON string otherwise.
type SessionEntryResponse struct {
	Key   string          `json:"key"`
	TTL   int64           `json:"ttl"`
	Value json.RawMessage `json:"value"`
}

// SessionListResponse wraps a session scan.
type SessionListResponse struct {
	Success  bool                   `json:"success"`
	Pattern  string                 `json:"pattern"`
	Count    int                    `json:"count"`
	Sessions []SessionEntryResponse `json:"sessions"`
}

// SessionDetailResponse wraps one inspected session.
type SessionDetailResponse struct {
	Success bool                 `json:"success"`
	Session SessionEntryResponse `json:"session"`
}

// SessionHandlers serves caller and session inspection endpoints.
type SessionHandlers struct {
	Auth      *Authenticator
	Store     ports.SessionStore
	KeyPrefix string
	Logger    *slog.Logger
}

// WhoAmI returns the caller. The path is exempt from the middleware, so
// the handler resolves the session itself.
func (h *SessionHandlers) WhoAmI(w http.ResponseWriter, r *http.Request) {
	if id, ok := IdentityFromContext(r.Context()); ok {
		sessionID := validatedSessionID
		if h.Auth != nil {
			if key, hasCookie := h.Auth.SessionKey(r); hasCookie {
				sessionID = key
			}
		}
		writeWhoAmI(w, id, sessionID)
		return
	}
	if h.Auth == nil {
		WriteError(w, r, http.StatusUnauthorized, msgSessionInvalid)
		return
	}
	sess, rej := h.Auth.ResolveSession(r)
	if rej != nil {
		WriteError(w, r, rej.Status, rej.Message)
		return
	}
	if sess.Identity.IsZero() {
		WriteError(w, r, http.StatusUnauthorized, msgSessionInvalid)
		return
	}
	sessionID := sess.Key
	if sessionID == "" {
		sessionID = localSessionID
	}
	writeWhoAmI(w, sess.Identity, sessionID)
}

func writeWhoAmI(w http.ResponseWriter, id domainauth.Identity, sessionID string) {
	WriteJSON(w, http.StatusOK, WhoAmIResponse{
		Success: true,
		UserInfo: UserInfo{
			ID:   id.SubjectID,
			Name: id.DisplayName,
			Dept: id.DepartmentCode,
			Corp: id.ProfitCenter,
		},
		SessionID: sessionID,
		Timestamp: nowUTC().Format(time.RFC3339),
	})
}

// ListSessions scans the store for matching session keys.
func (h *SessionHandlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	pattern := strings.TrimSpace(r.URL.Query().Get("pattern"))
	if pattern == "" {
		pattern = h.prefix() + "*"
	}
	limit := clampInt(parseIntQuery(r, "limit", defaultSessionScanLimit), 1, maxSessionScanLimit)

	entries, err := h.Store.Scan(r.Context(), pattern, limit)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	resp := SessionListResponse{
		Success:  true,
		Pattern:  pattern,
		Count:    len(entries),
		Sessions: make([]SessionEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Sessions = append(resp.Sessions, toSessionEntryResponse(e))
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetSession shows one session without refreshing its TTL.
func (h *SessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("key")
	if strings.TrimSpace(raw) == "" {
		WriteError(w, r, http.StatusBadRequest, "session key is required")
		return
	}
	key := domainauth.NormalizeSessionKey(h.prefix(), raw)

	entry, err := h.Store.Inspect(r.Context(), key)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			WriteError(w, r, http.StatusNotFound, "Session "+key+" not found")
			return
		}
		h.storeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, SessionDetailResponse{Success: true, Session: toSessionEntryResponse(entry)})
}

func (h *SessionHandlers) prefix() string {
	if h.KeyPrefix == "" {
		return domainauth.DefaultKeyPrefix
	}
	return h.KeyPrefix
}

func (h *SessionHandlers) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if h.Logger != nil {
		h.Logger.ErrorContext(r.Context(), "session store request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, r, http.StatusServiceUnavailable, "Session store unavailable")
}

func toSessionEntryResponse(e ports.SessionEntry) SessionEntryResponse {
	return SessionEntryResponse{Key: e.Key, TTL: e.TTL, Value: rawOrString(e.Value)}
}

// rawOrString keeps JSON payloads as-is and quotes anything else.
func rawOrString(v string) json.RawMessage {
	if json.Valid([]byte(v)) {
		return json.RawMessage(v)
	}
	b, _ := json.Marshal(v)
	return b
}
