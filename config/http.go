package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

const defaultAPIPrefix = "/p/faq/apis"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	Host string `env:"API_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"API_PORT" envDefault:"8000"`

	// APIPrefix is the path every API route is mounted under.
	APIPrefix string `env:"API_PREFIX" envDefault:"/p/faq/apis"`

	// CORSAllowedOrigins lists origins allowed to make credentialed requests.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        envDefault:"30s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT"       envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT"        envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"    envDefault:"10s"`

	// SessionInspection exposes the read-only Redis session listing endpoints.
	SessionInspection bool `env:"HTTP_SESSION_INSPECTION" envDefault:"true"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.APIPrefix = NormalizePrefix(h.APIPrefix)
	if h.Port <= 0 || h.Port > 65535 {
		h.Port = 8000
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
	origins := h.CORSAllowedOrigins[:0]
	for _, o := range h.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	h.CORSAllowedOrigins = origins
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// NormalizePrefix ensures a leading slash and strips trailing ones.
// An empty or "/" prefix mounts routes at the root.
func NormalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// DefaultAPIPrefix is the mount point used when API_PREFIX is not set.
func DefaultAPIPrefix() string { return defaultAPIPrefix }
