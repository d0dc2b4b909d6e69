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

// OpenAIProvider calls the Chat Completions API in JSON mode.
type OpenAIProvider struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOpenAIProvider creates a Provider for OpenAI.
func NewOpenAIProvider(cfg Config, observer Observer) *OpenAIProvider {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OpenAIProvider{cfg: cfg, http: newHTTPClient(cfg.Timeout()), observer: observer}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Key() domain.ProviderKey  { return domain.ProviderOpenAI }
func (p *OpenAIProvider) RequiresCredentials() bool { return true }

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	start := time.Now()
	defer func() { report(p.observer, p.Key(), "generate", p.cfg.OpenAIModel, start, err) }()

	body := openAIRequest{
		Model: p.cfg.OpenAIModel,
		Messages: []openAIMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    p.cfg.Temperature,
		MaxTokens:      p.cfg.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + req.Credentials}

	raw, status, err := postJSON(ctx, p.http, strings.TrimRight(p.cfg.OpenAIEndpoint, "/")+"/v1/chat/completions", headers, body)
	if err != nil {
		return nil, transportError(p.Key(), err)
	}
	if status != http.StatusOK {
		return nil, statusError(p.Key(), status, apiErrorMessage(raw))
	}

	var out openAIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding openai response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, emptyResponse(p.Key())
	}

	return &GenerateResponse{
		Text:      out.Choices[0].Message.Content,
		Model:     out.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
