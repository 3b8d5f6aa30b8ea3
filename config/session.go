package config

import (
	"strings"
	"time"
)

const (
	defaultSessionTTL        = 24 * time.Hour
	defaultSessionCookieName = "AX"
	defaultSessionKeyPrefix  = "AX:"
	defaultSessionRetryDelay = 500 * time.Millisecond
)

// SessionConfig controls validation of SSO sessions shared through Redis.
type SessionConfig struct {
	// TTL is re-applied to a session every time it is read (sliding expiration).
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// CookieName is the cookie carrying the opaque SSO session id.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"AX"`

	// KeyPrefix is prepended to the cookie value to form the Redis key.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"AX:"`

	// RetryBaseDelay is the backoff unit for both the validator and the middleware retry loops.
	RetryBaseDelay time.Duration `env:"SESSION_RETRY_BASE_DELAY" envDefault:"500ms"`

	// ValidateAttempts bounds validator attempts on cluster redirects.
	ValidateAttempts int `env:"SESSION_VALIDATE_ATTEMPTS" envDefault:"3"`

	// RecheckAttempts is the number of extra middleware attempts that re-read the cookie.
	RecheckAttempts int `env:"SESSION_RECHECK_ATTEMPTS" envDefault:"2"`
}

// Sanitize restores defaults for empty or out-of-range values.
func (c *SessionConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = defaultSessionTTL
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = defaultSessionCookieName
	}
	if c.KeyPrefix = strings.TrimSpace(c.KeyPrefix); c.KeyPrefix == "" {
		c.KeyPrefix = defaultSessionKeyPrefix
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = defaultSessionRetryDelay
	}
	if c.ValidateAttempts < 1 {
		c.ValidateAttempts = 1
	}
	if c.RecheckAttempts < 0 {
		c.RecheckAttempts = 0
	}
}

// DevAuthConfig overrides fields of the identity fabricated in local mode.
type DevAuthConfig struct {
	SubjectID      string `env:"DEV_AUTH_SUBJECT_ID"`
	DisplayName    string `env:"DEV_AUTH_DISPLAY_NAME"`
	DepartmentCode string `env:"DEV_AUTH_DEPT_CODE"`
	DepartmentName string `env:"DEV_AUTH_DEPT_NAME"`
	OrgCode        string `env:"DEV_AUTH_ORG_CODE"`
	TitleName      string `env:"DEV_AUTH_TITLE"`
}
