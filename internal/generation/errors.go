package generation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/llm"
)

// ErrorCode classifies a failed generation.
type ErrorCode string

const (
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	CodeUnsupportedProvider ErrorCode = "UNSUPPORTED_PROVIDER"
	CodeMissingCredentials  ErrorCode = "MISSING_CREDENTIALS"
	CodeUpstream            ErrorCode = "UPSTREAM"
	CodeInvalidMenu         ErrorCode = "INVALID_MENU"
)

// DefaultTitle replaces a missing menu title.
const DefaultTitle = "Swim Training Menu"

// Error is returned by GenerateMenu. Message is safe to show callers;
// Err keeps the underlying cause for logs and errors.Is.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeUnsupportedProvider:
		return http.StatusBadRequest
	case CodeMissingCredentials:
		return http.StatusUnauthorized
	case CodeInvalidMenu:
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(e.Err, llm.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(e.Err, llm.ErrRateLimited), errors.Is(e.Err, llm.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(e.Err, llm.ErrOverloaded), errors.Is(e.Err, llm.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(e.Err, llm.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// IsCode reports whether err is a generation Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Code == code
}

func newInvalidRequest(err error) *Error {
	return &Error{Code: CodeInvalidRequest, Message: err.Error(), Err: err}
}

func newUnsupportedProvider(key domain.ProviderKey, err error) *Error {
	return &Error{Code: CodeUnsupportedProvider, Message: fmt.Sprintf("unsupported provider %q", key), Err: err}
}

func newMissingCredentials(key domain.ProviderKey) *Error {
	return &Error{Code: CodeMissingCredentials, Message: fmt.Sprintf("credentials are required for provider %q", key)}
}

// newUpstream surfaces the provider failure kind's message.
func newUpstream(err error) *Error {
	msg := err.Error()
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		msg = pe.Kind.Error()
	}
	return &Error{Code: CodeUpstream, Message: msg, Err: err}
}

func newInvalidMenu(err error) *Error {
	return &Error{Code: CodeInvalidMenu, Message: "response is not a valid menu", Err: err}
}
