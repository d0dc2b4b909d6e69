// Package config loads process configuration from SWIMMENU_* environment
// variables and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"

	"github.com/alexanderramin/swimmenu/internal/db"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/llm"
	"github.com/alexanderramin/swimmenu/internal/retrieval"
	"github.com/alexanderramin/swimmenu/internal/telemetry"
)

// Config is the full process configuration.
type Config struct {
	// DBPath is the SQLite file used when DatabaseURL is empty.
	DBPath      string `env:"SWIMMENU_DB"`
	DatabaseURL string `env:"SWIMMENU_DATABASE_URL"`

	LogLevel  string `env:"SWIMMENU_LOG_LEVEL,default=info"`
	LogFormat string `env:"SWIMMENU_LOG_FORMAT,default=text"`

	HTTPAddr   string `env:"SWIMMENU_HTTP_ADDR,default=:8080"`
	CORSOrigin string `env:"SWIMMENU_CORS_ORIGIN,default=*"`

	Export    ExportConfig
	LLM       llm.Config
	Retrieval retrieval.Options
	Telemetry telemetry.Config
}

// ExportConfig selects where uploaded exports go. A non-empty S3Bucket
// takes precedence over Dir.
type ExportConfig struct {
	Dir      string `env:"SWIMMENU_EXPORT_DIR,default=exports"`
	S3Bucket string `env:"SWIMMENU_EXPORT_S3_BUCKET"`
	S3Prefix string `env:"SWIMMENU_EXPORT_S3_PREFIX"`
}

// Load decodes the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = db.DefaultPath()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would fail later at first use.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid SWIMMENU_LOG_FORMAT %q (want text or json)", c.LogFormat)
	}
	switch c.LLM.EmbeddingProvider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("invalid SWIMMENU_EMBEDDING_PROVIDER %q (want openai or ollama)", c.LLM.EmbeddingProvider)
	}
	if c.Retrieval.DurationWindow < 0 || c.Retrieval.DurationWindow >= 1 {
		return fmt.Errorf("SWIMMENU_RETRIEVAL_DURATION_WINDOW must be in [0, 1), got %v", c.Retrieval.DurationWindow)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid SWIMMENU_LOG_LEVEL %q", s)
	}
	return level, nil
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// APIKeyEnv names the variable holding a provider's key, e.g.
// SWIMMENU_OPENAI_API_KEY.
func APIKeyEnv(p domain.ProviderKey) string {
	return "SWIMMENU_" + strings.ToUpper(string(p)) + "_API_KEY"
}

// APIKey reads a provider's key from the environment.
func APIKey(p domain.ProviderKey) string {
	return os.Getenv(APIKeyEnv(p))
}

// EmbeddingKey returns the key for the configured embedding provider.
func (c Config) EmbeddingKey() string {
	return APIKey(domain.ProviderKey(c.LLM.EmbeddingProvider))
}
