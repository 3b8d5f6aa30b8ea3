package httpx

import (
	"net/http"
	"strconv"
	"strings"

	errs "github.com/officeplus/faq-api/internal/errors"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// optionalInt64Query parses an optional positive id filter.
func optionalInt64Query(r *http.Request, key string) (*int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return nil, errs.ValidationField(key, key+" must be a positive integer")
	}
	return &n, nil
}

// optionalBoolQuery parses an optional boolean filter.
func optionalBoolQuery(r *http.Request, key string) (*bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errs.ValidationField(key, key+" must be true or false")
	}
	return &b, nil
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, errs.ValidationField(name, "invalid "+name)
	}
	return n, nil
}
