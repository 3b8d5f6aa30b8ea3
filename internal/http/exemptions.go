package httpx

import (
	"net/http"
	"strings"
)

// Exemptions decides which requests bypass session checks.
type Exemptions struct {
	exact    map[string]struct{}
	prefixes []string
	// readOnly prefixes are exempt for GET only.
	readOnly []string
}

// NewExemptions builds the allow-list for an API mounted under apiPrefix.
// apiPrefix must already be normalized ("" or "/x" without a trailing slash).
func NewExemptions(apiPrefix string) *Exemptions {
	e := &Exemptions{
		exact:    make(map[string]struct{}),
		prefixes: []string{"/static/", "/assets/"},
		readOnly: []string{apiPrefix + "/faq"},
	}
	for _, p := range []string{"/", "/health", "/docs", "/redoc", "/openapi.json", "/favicon.ico", "/static"} {
		e.exact[p] = struct{}{}
	}
	for _, p := range []string{"/", "/health", "/db/status", "/session/whoami", "/redis/sessions"} {
		e.exact[apiPrefix+p] = struct{}{}
	}
	return e
}

// Exempt reports whether a request for method and path skips session checks.
func (e *Exemptions) Exempt(method, path string) bool {
	if _, ok := e.exact[path]; ok {
		return true
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	if method != http.MethodGet {
		return false
	}
	for _, p := range e.readOnly {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
