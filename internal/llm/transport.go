package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

const maxErrorDetail = 300

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// postJSON sends body as JSON and returns the raw response body and status.
// A non-nil error means the request never produced an HTTP response.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) ([]byte, int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return respBody, httpResp.StatusCode, nil
}

// transportError maps a failure that produced no HTTP response.
func transportError(p domain.ProviderKey, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := ErrProviderUnavailable
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		kind = ErrTimeout
	}
	return &ProviderError{Provider: p, Kind: kind, Detail: err.Error()}
}

// statusError maps a non-2xx response using the vendor's error message.
func statusError(p domain.ProviderKey, status int, message string) error {
	return &ProviderError{
		Provider: p,
		Kind:     Classify(status, message),
		Status:   status,
		Detail:   truncate(message, maxErrorDetail),
	}
}

func emptyResponse(p domain.ProviderKey) error {
	return &ProviderError{Provider: p, Kind: ErrEmptyResponse}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// apiErrorMessage pulls the human-readable message out of the common
// {"error":{"message":...}} envelope, falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg := envelope.Error.Message
		for _, extra := range []string{envelope.Error.Type, envelope.Error.Status, codeString(envelope.Error.Code)} {
			if extra != "" {
				msg += " (" + extra + ")"
			}
		}
		return msg
	}
	return string(body)
}

func codeString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
