package config

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens/internal/ensemble"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 1000, cfg.Embedder.CacheSize)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.InDelta(t, ensemble.DefaultLexicalWeight, cfg.Weights.Lexical, 1e-9)
	assert.InDelta(t, ensemble.DefaultContextualWeight, cfg.Weights.Contextual, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HIRELENS_PORT", "9090")
	t.Setenv("WEIGHT_LEXICAL", "0.5")
	t.Setenv("WEIGHT_SEMANTIC", "0.2")
	t.Setenv("WEIGHT_CONTEXTUAL", "0.3")
	t.Setenv("EMBEDDING_PROVIDER", "local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Weights.Lexical, 1e-9)
	assert.Equal(t, "local", cfg.EmbedderSettings().Kind)
}

func TestLoad_InvalidWeightsFailFast(t *testing.T) {
	t.Setenv("WEIGHT_LEXICAL", "0.9")
	t.Setenv("WEIGHT_SEMANTIC", "0.9")
	t.Setenv("WEIGHT_CONTEXTUAL", "0.9")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ensemble.ErrInvalidWeights)
}

func TestLoad_UnknownProviderRejected(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "quantum")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadNumericFallsBackToDefault(t *testing.T) {
	t.Setenv("EMBEDDING_CACHE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Embedder.CacheSize)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "test")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel("debug"))
	assert.Equal(t, log.InfoLevel, parseLevel("INFO"))
	assert.Equal(t, log.WarnLevel, parseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, parseLevel("error"))
	assert.Equal(t, log.InfoLevel, parseLevel("bogus"))
}
