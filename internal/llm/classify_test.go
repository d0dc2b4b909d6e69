package llm

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    error
	}{
		{"openai bad key", http.StatusUnauthorized, "Incorrect API key provided", ErrInvalidCredentials},
		{"gemini bad key", http.StatusBadRequest, "API key not valid. Please pass a valid API key.", ErrInvalidCredentials},
		{"anthropic auth", http.StatusUnauthorized, "invalid x-api-key (authentication_error)", ErrInvalidCredentials},
		{"openai quota", http.StatusTooManyRequests, "You exceeded your current quota (insufficient_quota)", ErrQuotaExceeded},
		{"rate limit", http.StatusTooManyRequests, "Rate limit reached for requests", ErrRateLimited},
		{"rate limit text only", 0, "rate_limit_error", ErrRateLimited},
		{"anthropic overloaded", 529, "Overloaded (overloaded_error)", ErrOverloaded},
		{"service unavailable", http.StatusServiceUnavailable, "", ErrOverloaded},
		{"model missing", http.StatusNotFound, "The model `gpt-9` does not exist", ErrModelNotFound},
		{"model missing text only", http.StatusBadRequest, "model_not_found", ErrModelNotFound},
		{"unknown", http.StatusBadRequest, "something odd", ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Classify(tt.status, tt.message), tt.want)
		})
	}
}

func TestProviderError_UnwrapsToKind(t *testing.T) {
	err := statusError(domain.ProviderOpenAI, http.StatusTooManyRequests, "Rate limit reached")

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, domain.ProviderOpenAI, pe.Provider)
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, "RATE_LIMITED", ErrorCode(err))
	assert.Contains(t, err.Error(), "openai")
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "EMPTY_RESPONSE", ErrorCode(emptyResponse(domain.ProviderGoogle)))
	assert.Equal(t, "UNKNOWN", ErrorCode(errors.New("x")))
}
