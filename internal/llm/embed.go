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

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text, credentials string) ([]float32, error)
}

// NewEmbedder returns the embedder selected by cfg.EmbeddingProvider.
func NewEmbedder(cfg Config, observer Observer) (Embedder, error) {
	switch domain.ProviderKey(cfg.EmbeddingProvider) {
	case domain.ProviderOpenAI:
		return NewOpenAIEmbedder(cfg, observer), nil
	case domain.ProviderOllama:
		return NewOllamaEmbedder(cfg, observer), nil
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", ErrUnsupportedProvider, cfg.EmbeddingProvider)
	}
}

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOpenAIEmbedder creates an Embedder for OpenAI.
func NewOpenAIEmbedder(cfg Config, observer Observer) *OpenAIEmbedder {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OpenAIEmbedder{cfg: cfg, http: newHTTPClient(cfg.Timeout()), observer: observer}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text, credentials string) (vec []float32, err error) {
	start := time.Now()
	model := e.cfg.EmbeddingModelName()
	defer func() { report(e.observer, domain.ProviderOpenAI, "embed", model, start, err) }()

	body := map[string]any{"model": model, "input": text}
	headers := map[string]string{"Authorization": "Bearer " + credentials}
	raw, status, err := postJSON(ctx, e.http, strings.TrimRight(e.cfg.OpenAIEndpoint, "/")+"/v1/embeddings", headers, body)
	if err != nil {
		return nil, transportError(domain.ProviderOpenAI, err)
	}
	if status != http.StatusOK {
		return nil, statusError(domain.ProviderOpenAI, status, apiErrorMessage(raw))
	}

	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, emptyResponse(domain.ProviderOpenAI)
	}
	return out.Data[0].Embedding, nil
}

// OllamaEmbedder calls the Ollama /api/embed endpoint.
type OllamaEmbedder struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaEmbedder creates an Embedder backed by a local Ollama.
func NewOllamaEmbedder(cfg Config, observer Observer) *OllamaEmbedder {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OllamaEmbedder{cfg: cfg, http: newHTTPClient(cfg.Timeout()), observer: observer}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text, _ string) (vec []float32, err error) {
	start := time.Now()
	model := e.cfg.EmbeddingModelName()
	defer func() { report(e.observer, domain.ProviderOllama, "embed", model, start, err) }()

	body := map[string]any{"model": model, "input": text}
	raw, status, err := postJSON(ctx, e.http, strings.TrimRight(e.cfg.OllamaEndpoint, "/")+"/api/embed", nil, body)
	if err != nil {
		return nil, transportError(domain.ProviderOllama, err)
	}
	if status != http.StatusOK {
		return nil, statusError(domain.ProviderOllama, status, string(raw))
	}

	var out struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(out.Embeddings) == 0 || len(out.Embeddings[0]) == 0 {
		return nil, emptyResponse(domain.ProviderOllama)
	}
	return out.Embeddings[0], nil
}
