// Package config loads runtime configuration from the environment,
// with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hirelens/hirelens/internal/embedder"
	"github.com/hirelens/hirelens/internal/ensemble"
)

type ServerConfig struct {
	Port         string
	LogLevel     string
	DatabasePath string
}

type EmbedderConfig struct {
	Provider  string
	APIKey    string
	CacheSize int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	Server   ServerConfig
	Embedder EmbedderConfig
	Gemini   GeminiConfig
	Weights  ensemble.Weights
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in when present; real environment
// variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("HIRELENS_PORT", "5000"),
			LogLevel:     getEnv("HIRELENS_LOG_LEVEL", "info"),
			DatabasePath: getEnv("HIRELENS_DB_PATH", "hirelens.db"),
		},
		Embedder: EmbedderConfig{
			Provider:  getEnv("EMBEDDING_PROVIDER", ""),
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			CacheSize: getEnvInt("EMBEDDING_CACHE_SIZE", 1000),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-pro"),
		},
		Weights: ensemble.Weights{
			Lexical:    getEnvFloat("WEIGHT_LEXICAL", ensemble.DefaultLexicalWeight),
			Semantic:   getEnvFloat("WEIGHT_SEMANTIC", ensemble.DefaultSemanticWeight),
			Contextual: getEnvFloat("WEIGHT_CONTEXTUAL", ensemble.DefaultContextualWeight),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. Weight
// errors fail here, at startup, rather than on the first request.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Embedder.CacheSize <= 0 {
		return fmt.Errorf("config: EMBEDDING_CACHE_SIZE must be positive, got %d", c.Embedder.CacheSize)
	}
	switch strings.ToLower(c.Embedder.Provider) {
	case "", embedder.KindOpenAI, embedder.KindHuggingFace, embedder.KindLocal:
	default:
		return fmt.Errorf("config: %w: %q", embedder.ErrUnknownKind, c.Embedder.Provider)
	}
	return nil
}

// EmbedderSettings maps the loaded values onto the embedder factory's
// config.
func (c *Config) EmbedderSettings() embedder.Config {
	return embedder.Config{
		Kind:      c.Embedder.Provider,
		APIKey:    c.Embedder.APIKey,
		CacheSize: c.Embedder.CacheSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
