package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
)

// DefaultSessionCookie is the cookie set by the SSO gateway.
const DefaultSessionCookie = "AX"

// CookieSpec names the session cookie and the store key prefix.
type CookieSpec struct {
	Name      string
	KeyPrefix string
}

// DefaultCookieSpec matches the SSO gateway's defaults.
func DefaultCookieSpec() CookieSpec {
	return CookieSpec{Name: DefaultSessionCookie, KeyPrefix: domainauth.DefaultKeyPrefix}
}

func (c CookieSpec) withDefaults() CookieSpec {
	d := DefaultCookieSpec()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = d.KeyPrefix
	}
	return c
}

// KeyFromHeader extracts the session cookie from a raw Cookie header and
// returns its store key. An empty cookie counts as absent.
func (c CookieSpec) KeyFromHeader(cookieHeader string) (string, bool) {
	if cookieHeader == "" {
		return "", false
	}
	r := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	return c.KeyFromRequest(&r)
}

// KeyFromRequest returns the store key for the request's session cookie.
func (c CookieSpec) KeyFromRequest(r *http.Request) (string, bool) {
	c = c.withDefaults()
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(ck.Value)
	if v == "" {
		return "", false
	}
	return domainauth.SessionKey(c.KeyPrefix, v), true
}

// KeyForAttempt picks the key to validate on a given attempt. Attempt 0
// uses originalKey; later attempts re-read cookieHeader so a cookie rotated
// by the gateway mid-request is picked up. A vanished cookie keeps originalKey.
func (c CookieSpec) KeyForAttempt(attempt int, originalKey, cookieHeader string) string {
	if attempt <= 0 {
		return originalKey
	}
	if key, ok := c.KeyFromHeader(cookieHeader); ok {
		return key
	}
	return originalKey
}

// SessionKeyForAttempt is KeyForAttempt with the default cookie spec.
func SessionKeyForAttempt(attempt int, originalKey, cookieHeader string) string {
	return DefaultCookieSpec().KeyForAttempt(attempt, originalKey, cookieHeader)
}

// cookieHeader joins every Cookie header line on r.
func cookieHeader(r *http.Request) string {
	return strings.Join(r.Header.Values("Cookie"), "; ")
}
