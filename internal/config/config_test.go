package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SWIMMENU_DB", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.2, cfg.Retrieval.DurationWindow, 1e-9)
	assert.True(t, cfg.Retrieval.FilterByDuration)
	assert.Equal(t, 90000, cfg.LLM.TimeoutMs)
	assert.Equal(t, "openai", cfg.LLM.EmbeddingProvider)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Contains(t, cfg.DBPath, ".swimmenu")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SWIMMENU_DB", "/tmp/menus.db")
	t.Setenv("SWIMMENU_LOG_LEVEL", "debug")
	t.Setenv("SWIMMENU_LOG_FORMAT", "json")
	t.Setenv("SWIMMENU_EXPORT_S3_BUCKET", "coach-exports")
	t.Setenv("SWIMMENU_RETRIEVAL_TOP_K", "3")
	t.Setenv("SWIMMENU_OLLAMA_MODEL", "qwen2.5")
	t.Setenv("SWIMMENU_OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/menus.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "coach-exports", cfg.Export.S3Bucket)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "qwen2.5", cfg.LLM.OllamaModel)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"SWIMMENU_LOG_LEVEL":                 "chatty",
		"SWIMMENU_LOG_FORMAT":                "xml",
		"SWIMMENU_EMBEDDING_PROVIDER":        "google",
		"SWIMMENU_RETRIEVAL_DURATION_WINDOW": "1.5",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("warn", "json", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger("loud", "text", &buf)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lvl)
}

func TestAPIKey(t *testing.T) {
	t.Setenv("SWIMMENU_ANTHROPIC_API_KEY", "sk-ant")
	assert.Equal(t, "SWIMMENU_ANTHROPIC_API_KEY", APIKeyEnv(domain.ProviderAnthropic))
	assert.Equal(t, "sk-ant", APIKey(domain.ProviderAnthropic))
}
