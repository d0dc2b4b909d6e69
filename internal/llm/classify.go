package llm

import (
	"net/http"
	"strings"
)

// Substrings are matched case-insensitively against provider error text.
// Quota markers are checked before rate-limit markers because providers
// report exhausted quota with a 429 as well.
var (
	credentialMarkers = []string{
		"invalid api key", "incorrect api key", "invalid x-api-key", "api key not valid",
		"invalid_api_key", "authentication_error", "unauthorized", "permission_denied",
	}
	quotaMarkers = []string{
		"insufficient_quota", "exceeded your current quota", "quota exceeded",
		"resource_exhausted", "billing",
	}
	rateMarkers = []string{
		"rate limit", "rate_limit", "too many requests",
	}
	overloadMarkers = []string{
		"overloaded", "service unavailable", "unavailable", "try again later",
	}
	modelMarkers = []string{
		"model_not_found", "model not found", "does not exist", "not_found_error",
		"is not found for api version", "no such model",
	}
)

// Classify maps an HTTP status and provider error message onto one of
// the provider failure kinds. It never returns nil.
func Classify(status int, message string) error {
	msg := strings.ToLower(message)
	switch {
	case containsAny(msg, quotaMarkers):
		return ErrQuotaExceeded
	case status == http.StatusUnauthorized || status == http.StatusForbidden || containsAny(msg, credentialMarkers):
		return ErrInvalidCredentials
	case status == http.StatusTooManyRequests || containsAny(msg, rateMarkers):
		return ErrRateLimited
	case status == http.StatusNotFound || containsAny(msg, modelMarkers):
		return ErrModelNotFound
	case status == http.StatusServiceUnavailable || status == 529 || containsAny(msg, overloadMarkers):
		return ErrOverloaded
	case status >= 500:
		return ErrOverloaded
	default:
		return ErrUpstream
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
