package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// GenerateRequest holds the parameters for one generation call.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Credentials  string
}

// GenerateResponse holds the result of a generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Provider generates text with one model vendor. Implementations do
// not retry; a failed call surfaces immediately as a *ProviderError.
type Provider interface {
	Key() domain.ProviderKey

	// RequiresCredentials reports whether Generate needs a caller secret.
	RequiresCredentials() bool

	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Registry maps provider keys to implementations.
type Registry struct {
	providers map[domain.ProviderKey]Provider
}

// NewRegistry creates a Registry holding the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[domain.ProviderKey]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces the provider for p.Key().
func (r *Registry) Register(p Provider) {
	r.providers[p.Key()] = p
}

// Get returns the provider for key or ErrUnsupportedProvider.
func (r *Registry) Get(key domain.ProviderKey) (Provider, error) {
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, key)
	}
	return p, nil
}

// Keys lists registered provider keys in sorted order.
func (r *Registry) Keys() []domain.ProviderKey {
	keys := make([]domain.ProviderKey, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// NewDefaultRegistry builds HTTP providers for every vendor plus Ollama.
// Bedrock needs an AWS client and is registered separately.
func NewDefaultRegistry(cfg Config, observer Observer) *Registry {
	return NewRegistry(
		NewOpenAIProvider(cfg, observer),
		NewGeminiProvider(cfg, observer),
		NewAnthropicProvider(cfg, observer),
		NewOllamaProvider(cfg, observer),
	)
}
