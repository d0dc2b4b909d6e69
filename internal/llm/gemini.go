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

// GeminiProvider calls the Google generateContent API with a JSON
// response MIME type.
type GeminiProvider struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewGeminiProvider creates a Provider for Google Gemini.
func NewGeminiProvider(cfg Config, observer Observer) *GeminiProvider {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &GeminiProvider{cfg: cfg, http: newHTTPClient(cfg.Timeout()), observer: observer}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		ResponseMimeType string  `json:"responseMimeType"`
		Temperature      float64 `json:"temperature"`
		MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

func (p *GeminiProvider) Key() domain.ProviderKey  { return domain.ProviderGoogle }
func (p *GeminiProvider) RequiresCredentials() bool { return true }

func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	start := time.Now()
	defer func() { report(p.observer, p.Key(), "generate", p.cfg.GoogleModel, start, err) }()

	var body geminiRequest
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	body.Contents = []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.UserPrompt}}}}
	body.GenerationConfig.ResponseMimeType = "application/json"
	body.GenerationConfig.Temperature = p.cfg.Temperature
	body.GenerationConfig.MaxOutputTokens = p.cfg.MaxTokens

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(p.cfg.GoogleEndpoint, "/"), p.cfg.GoogleModel)
	headers := map[string]string{"x-goog-api-key": req.Credentials}

	raw, status, err := postJSON(ctx, p.http, url, headers, body)
	if err != nil {
		return nil, transportError(p.Key(), err)
	}
	if status != http.StatusOK {
		return nil, statusError(p.Key(), status, apiErrorMessage(raw))
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding gemini response: %w", err)
	}
	var text strings.Builder
	if len(out.Candidates) > 0 {
		for _, part := range out.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, emptyResponse(p.Key())
	}

	model := out.ModelVersion
	if model == "" {
		model = p.cfg.GoogleModel
	}
	return &GenerateResponse{
		Text:      text.String(),
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
