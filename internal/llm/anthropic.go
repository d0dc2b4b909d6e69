package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Messages API. The API has no JSON mode,
// so fenced output is stripped before returning.
type AnthropicProvider struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewAnthropicProvider creates a Provider for Anthropic.
func NewAnthropicProvider(cfg Config, observer Observer) *AnthropicProvider {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &AnthropicProvider{cfg: cfg, http: newHTTPClient(cfg.Timeout()), observer: observer}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) Key() domain.ProviderKey  { return domain.ProviderAnthropic }
func (p *AnthropicProvider) RequiresCredentials() bool { return true }

func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	start := time.Now()
	defer func() { report(p.observer, p.Key(), "generate", p.cfg.AnthropicModel, start, err) }()

	maxTokens := p.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	body := anthropicRequest{
		Model:       p.cfg.AnthropicModel,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: req.UserPrompt}},
		Temperature: p.cfg.Temperature,
	}
	headers := map[string]string{
		"x-api-key":         req.Credentials,
		"anthropic-version": anthropicVersion,
	}

	raw, status, err := postJSON(ctx, p.http, strings.TrimRight(p.cfg.AnthropicEndpoint, "/")+"/v1/messages", headers, body)
	if err != nil {
		return nil, transportError(p.Key(), err)
	}
	if status != http.StatusOK {
		return nil, statusError(p.Key(), status, apiErrorMessage(raw))
	}

	var out anthropicResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding anthropic response: %w", err)
	}
	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	cleaned := StripCodeFence(text.String())
	if cleaned == "" {
		return nil, emptyResponse(p.Key())
	}

	return &GenerateResponse{
		Text:      cleaned,
		Model:     out.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
