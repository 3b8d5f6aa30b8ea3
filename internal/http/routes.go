// Package httpx provides the HTTP handlers, middleware and router for the FAQ API.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/ports"
	"github.com/officeplus/faq-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	FAQs     *service.FAQService
	Tags     *service.TagService
	Feedback *service.FeedbackService
	Status   core.StatusRepository

	// Auth resolves callers; it also backs /session/whoami.
	Auth *Authenticator
	// Sessions enables the read-only session inspection endpoints when set.
	Sessions  ports.SessionStore
	KeyPrefix string

	// APIPrefix is the normalized mount point ("" or "/x").
	APIPrefix string
	Info      ServiceInfo
	Logger    *slog.Logger
}

// NewRouter creates the API router. It does not apply middleware; see Handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()
	p := services.APIPrefix
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := &InfoHandlers{Info: services.Info, Status: services.Status, Logger: logger}
	registerInfoRoutes(mux, p, info)

	sessions := &SessionHandlers{Auth: services.Auth, Store: services.Sessions, KeyPrefix: services.KeyPrefix, Logger: logger}
	mux.HandleFunc("GET "+p+"/session/whoami", sessions.WhoAmI)
	if services.Sessions != nil {
		mux.HandleFunc("GET "+p+"/redis/sessions", sessions.ListSessions)
		mux.HandleFunc("GET "+p+"/redis/sessions/{key}", sessions.GetSession)
	}

	if services.FAQs != nil {
		registerFAQRoutes(mux, p, &FAQHandlers{Svc: services.FAQs, Logger: logger})
	}
	if services.Tags != nil {
		registerTagRoutes(mux, p, &TagHandlers{Svc: services.Tags, Logger: logger})
	}
	if services.Feedback != nil {
		fb := &FeedbackHandlers{Svc: services.Feedback, Logger: logger}
		mux.HandleFunc("POST "+p+"/feedback", fb.Submit)
		mux.HandleFunc("POST "+p+"/search-logs", fb.LogSearch)
	}

	return mux
}

func registerInfoRoutes(mux *http.ServeMux, p string, h *InfoHandlers) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("HEAD /health", h.Health)
	if p != "" {
		mux.HandleFunc("GET "+p+"/{$}", h.Root)
		mux.HandleFunc("GET "+p+"/health", h.Health)
		mux.HandleFunc("HEAD "+p+"/health", h.Health)
	}
	mux.HandleFunc("GET "+p+"/db/status", h.DBStatus)
}

func registerFAQRoutes(mux *http.ServeMux, p string, h *FAQHandlers) {
	mux.HandleFunc("GET "+p+"/faqs", h.List)
	mux.HandleFunc("GET "+p+"/faqs/categories", h.Categories)
	mux.HandleFunc("GET "+p+"/faqs/{id}", h.Get)
	mux.HandleFunc("POST "+p+"/faqs", h.Create)
	mux.HandleFunc("PUT "+p+"/faqs/{id}", h.Update)
	mux.HandleFunc("DELETE "+p+"/faqs/{id}", h.Delete)
	mux.HandleFunc("GET "+p+"/faqs/{id}/variants", h.ListVariants)
	mux.HandleFunc("POST "+p+"/faqs/{id}/variants", h.AddVariant)
	mux.HandleFunc("DELETE "+p+"/faqs/{id}/variants/{variantId}", h.DeleteVariant)
	mux.HandleFunc("DELETE "+p+"/variants/{variantId}", h.DeleteVariantByID)
}

func registerTagRoutes(mux *http.ServeMux, p string, h *TagHandlers) {
	mux.HandleFunc("GET "+p+"/tags", h.List)
	mux.HandleFunc("GET "+p+"/tags/{id}", h.Get)
	mux.HandleFunc("POST "+p+"/tags", h.Create)
	mux.HandleFunc("PUT "+p+"/tags/{id}", h.Update)
	mux.HandleFunc("DELETE "+p+"/tags/{id}", h.Delete)
}

// HandlerOptions configures the middleware stack around the router.
type HandlerOptions struct {
	Logger      *slog.Logger
	CORSOrigins []string
	Auth        *Authenticator
}

// Handler wraps router with RequestID, Recover, Logging, CORS and the
// session middleware, outermost first.
func Handler(router http.Handler, opts HandlerOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mws := []Middleware{
		RequestID(),
		Recover(logger),
		Logging(logger),
		CORS(opts.CORSOrigins),
	}
	if opts.Auth != nil {
		mws = append(mws, SessionMiddleware(opts.Auth))
	}
	return Chain(router, mws...)
}
