package embedder

import (
	"fmt"
	"strings"
)

// Provider kinds accepted by New.
const (
	KindOpenAI      = "openai"
	KindHuggingFace = "huggingface"
	KindLocal       = "local"
)

// Config selects and configures an embedding provider.
type Config struct {
	Kind      string
	APIKey    string
	CacheSize int
}

// New builds an embedder from explicit configuration. An empty Kind
// falls back to the key that is present, or the local provider when no
// key is configured.
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	kind := strings.ToLower(cfg.Kind)
	if kind == "" {
		if cfg.APIKey != "" {
			kind = KindOpenAI
		} else {
			kind = KindLocal
		}
	}

	switch kind {
	case KindOpenAI:
		return NewOpenAI(cfg.APIKey, cache)
	case KindHuggingFace:
		return NewHuggingFace(cfg.APIKey, cache)
	case KindLocal:
		return NewLocal(cache), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
