package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/officeplus/faq-api/config"
	httpx "github.com/officeplus/faq-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Info     httpx.ServiceInfo
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router and its middleware chain.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	info := cfg.Info
	if info.Environment == "" {
		info.Environment = appCfg.DeploymentMode().String()
	}

	services := httpx.RouterServices{
		FAQs:      cfg.Services.FAQs,
		Tags:      cfg.Services.Tags,
		Feedback:  cfg.Services.Feedback,
		Status:    cfg.Services.Status,
		Auth:      cfg.Services.Authenticator,
		KeyPrefix: appCfg.Session.KeyPrefix,
		APIPrefix: appCfg.HTTP.APIPrefix,
		Info:      info,
		Logger:    logger,
	}
	if appCfg.HTTP.SessionInspection {
		services.Sessions = cfg.Services.Sessions
	}

	return httpx.Handler(httpx.NewRouter(services), httpx.HandlerOptions{
		Logger:      logger,
		CORSOrigins: appCfg.HTTP.CORSAllowedOrigins,
		Auth:        cfg.Services.Authenticator,
	})
}

// NewHTTPServer creates the server without starting it.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// ServeHTTP runs the server until it is shut down. http.ErrServerClosed is
// not reported as an error.
func ServeHTTP(server *http.Server, logger *slog.Logger) error {
	if logger != nil {
		logger.Info("starting HTTP server", "addr", server.Addr)
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Config  config.HTTPConfig
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, cfg.Config.ShutdownTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
