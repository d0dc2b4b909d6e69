package llm

import (
	"errors"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds all configuration for the model and embedding providers.
type Config struct {
	LogCalls    bool    `env:"SWIMMENU_LLM_LOG_CALLS,default=false"`
	TimeoutMs   int     `env:"SWIMMENU_LLM_TIMEOUT_MS,default=90000"`
	MaxTokens   int     `env:"SWIMMENU_LLM_MAX_TOKENS,default=4096"`
	Temperature float64 `env:"SWIMMENU_LLM_TEMPERATURE,default=0.4"`

	OpenAIEndpoint    string `env:"SWIMMENU_OPENAI_ENDPOINT,default=https://api.openai.com"`
	OpenAIModel       string `env:"SWIMMENU_OPENAI_MODEL,default=gpt-4o-mini"`
	GoogleEndpoint    string `env:"SWIMMENU_GOOGLE_ENDPOINT,default=https://generativelanguage.googleapis.com"`
	GoogleModel       string `env:"SWIMMENU_GOOGLE_MODEL,default=gemini-1.5-flash"`
	AnthropicEndpoint string `env:"SWIMMENU_ANTHROPIC_ENDPOINT,default=https://api.anthropic.com"`
	AnthropicModel    string `env:"SWIMMENU_ANTHROPIC_MODEL,default=claude-3-5-sonnet-20241022"`
	OllamaEndpoint    string `env:"SWIMMENU_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	OllamaModel       string `env:"SWIMMENU_OLLAMA_MODEL,default=llama3.2"`
	BedrockModel      string `env:"SWIMMENU_BEDROCK_MODEL,default=us.anthropic.claude-3-7-sonnet-20250219-v1:0"`

	// EmbeddingProvider is "openai" or "ollama".
	EmbeddingProvider string `env:"SWIMMENU_EMBEDDING_PROVIDER,default=openai"`
	EmbeddingModel    string `env:"SWIMMENU_EMBEDDING_MODEL"`
}

// DefaultConfig returns a Config with the same values LoadConfig uses
// when no environment variables are set.
func DefaultConfig() Config {
	return Config{
		TimeoutMs:         90000,
		MaxTokens:         4096,
		Temperature:       0.4,
		OpenAIEndpoint:    "https://api.openai.com",
		OpenAIModel:       "gpt-4o-mini",
		GoogleEndpoint:    "https://generativelanguage.googleapis.com",
		GoogleModel:       "gemini-1.5-flash",
		AnthropicEndpoint: "https://api.anthropic.com",
		AnthropicModel:    "claude-3-5-sonnet-20241022",
		OllamaEndpoint:    "http://localhost:11434",
		OllamaModel:       "llama3.2",
		BedrockModel:      "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		EmbeddingProvider: "openai",
	}
}

// LoadConfig reads provider configuration from the environment,
// falling back to defaults for any unset values.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	return cfg, nil
}

// Timeout returns the overall per-call transport timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 90 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// EmbeddingModelName returns the configured embedding model or the
// default for the embedding provider.
func (c Config) EmbeddingModelName() string {
	if c.EmbeddingModel != "" {
		return c.EmbeddingModel
	}
	if c.EmbeddingProvider == "ollama" {
		return "nomic-embed-text"
	}
	return "text-embedding-3-small"
}
