package auth

import "strings"

// DefaultKeyPrefix is the namespace the SSO gateway stores sessions under.
const DefaultKeyPrefix = "AX:"

// SessionKey builds the store key for an opaque cookie value.
func SessionKey(prefix, cookieValue string) string {
	return prefix + cookieValue
}

// NormalizeSessionKey returns raw with prefix applied exactly once, so a raw
// cookie value is never used directly as a store key.
func NormalizeSessionKey(prefix, raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, prefix) {
		return raw
	}
	return prefix + raw
}
