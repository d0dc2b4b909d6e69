package llm

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// Provider failure kinds. Every provider error unwraps to exactly one.
var (
	ErrInvalidCredentials = errors.New("invalid API credentials")
	ErrRateLimited        = errors.New("rate limited by provider, try again shortly")
	ErrQuotaExceeded      = errors.New("provider quota exceeded")
	ErrOverloaded         = errors.New("provider is temporarily overloaded")
	ErrModelNotFound      = errors.New("model not found")
	ErrEmptyResponse      = errors.New("provider returned an empty response")

	// ErrTimeout indicates the call exceeded the transport timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrProviderUnavailable indicates the provider could not be reached.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUpstream covers provider failures that match no other kind.
	ErrUpstream = errors.New("provider request failed")
)

var (
	// ErrInvalidOutput indicates the response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrUnsupportedProvider indicates no provider is registered for a key.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// ProviderError is a failed provider call mapped onto a failure kind.
type ProviderError struct {
	Provider domain.ProviderKey
	Kind     error
	Status   int
	Detail   string
}

func (e *ProviderError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Provider, e.Kind, e.Detail)
}

func (e *ProviderError) Unwrap() error { return e.Kind }

// ErrorCode returns a stable code for logging and metrics.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrQuotaExceeded):
		return "QUOTA_EXCEEDED"
	case errors.Is(err, ErrOverloaded):
		return "OVERLOADED"
	case errors.Is(err, ErrModelNotFound):
		return "MODEL_NOT_FOUND"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
