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

// OllamaProvider talks to a local Ollama instance. No credentials needed.
type OllamaProvider struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaProvider creates a Provider backed by the Ollama HTTP API.
func NewOllamaProvider(cfg Config, observer Observer) *OllamaProvider {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OllamaProvider{cfg: cfg, http: newHTTPClient(cfg.Timeout()), observer: observer}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (p *OllamaProvider) Key() domain.ProviderKey  { return domain.ProviderOllama }
func (p *OllamaProvider) RequiresCredentials() bool { return false }

func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	start := time.Now()
	defer func() { report(p.observer, p.Key(), "generate", p.cfg.OllamaModel, start, err) }()

	body := ollamaRequest{
		Model:  p.cfg.OllamaModel,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: p.cfg.Temperature,
			NumPredict:  p.cfg.MaxTokens,
		},
	}

	raw, status, err := postJSON(ctx, p.http, strings.TrimRight(p.cfg.OllamaEndpoint, "/")+"/api/generate", nil, body)
	if err != nil {
		return nil, transportError(p.Key(), err)
	}

	var out ollamaResponse
	if status != http.StatusOK {
		if json.Unmarshal(raw, &out) == nil && out.Error != "" {
			return nil, statusError(p.Key(), status, out.Error)
		}
		return nil, statusError(p.Key(), status, string(raw))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}

	cleaned := StripCodeFence(out.Response)
	if cleaned == "" {
		return nil, emptyResponse(p.Key())
	}
	return &GenerateResponse{
		Text:      cleaned,
		Model:     out.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
