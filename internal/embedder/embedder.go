// Package embedder maps text to fixed-dimension dense vectors through an
// external embedding provider. Providers normalize vectors to unit
// length, so cosine distance between any two embeddings stays in [0,2]
// and the semantic scorer's distance-to-similarity conversion holds.
//
// Embeddings are cached in-memory by content hash (LRU), which also
// gives the per-request stability guarantee: the same text embeds to the
// same vector for index construction and query alike.
package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrNoTexts        = errors.New("no texts provided")
	ErrProviderFailed = errors.New("embedding provider failed")
	ErrUnknownKind    = errors.New("unknown embedding provider")
)

// Embedding is a dense vector with provenance metadata.
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // content hash, used as the cache key
}

// Embedder generates embeddings for text.
type Embedder interface {
	// Embed generates a single embedding.
	Embed(ctx context.Context, text string) (*Embedding, error)

	// EmbedBatch generates embeddings for multiple texts, index-aligned
	// with the input.
	EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error)

	// Dimension returns the embedding dimension for this provider.
	Dimension() int

	// Provider returns the provider name.
	Provider() string

	// Close releases provider resources.
	Close() error
}

// Cache is an in-memory LRU of embeddings keyed by content hash.
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates an embedding cache; size <= 0 falls back to a default.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[string, *Embedding](size)
	if err != nil {
		// Only reachable with a non-positive size, which we've excluded.
		panic(fmt.Sprintf("embedder: create cache: %v", err))
	}
	return &Cache{cache: c}
}

// Get returns a copy of a cached embedding so caller mutations cannot
// pollute the cache.
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	vec := make([]float32, len(emb.Vector))
	copy(vec, emb.Vector)
	cp := *emb
	cp.Vector = vec
	return &cp, true
}

// Set stores an embedding; LRU eviction is automatic.
func (c *Cache) Set(hash string, emb *Embedding) {
	c.cache.Add(hash, emb)
}

// Len returns the number of cached embeddings.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// HashText computes the SHA-256 content hash used as cache key.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Normalize scales a vector to unit length in place-safe fashion. Zero
// vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func validateBatch(texts []string) error {
	if len(texts) == 0 {
		return ErrNoTexts
	}
	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d", ErrEmptyText, i)
		}
	}
	return nil
}
