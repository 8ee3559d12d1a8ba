package embedder

import (
	"context"
	"crypto/sha256"
)

const localDimension = 384

// Local is a deterministic offline embedder: it derives a pseudo-vector
// from the text's hash. It captures no semantics and exists so the
// pipeline can run without network credentials (development, tests).
type Local struct {
	cache *Cache
}

// NewLocal creates the offline embedder.
func NewLocal(cache *Cache) *Local {
	return &Local{cache: cache}
}

// Embed derives a deterministic unit vector from the text.
func (l *Local) Embed(ctx context.Context, text string) (*Embedding, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := HashText(text)
	if l.cache != nil {
		if emb, ok := l.cache.Get(hash); ok {
			return emb, nil
		}
	}

	vec := make([]float32, localDimension)
	seed := sha256.Sum256([]byte(text))
	for i := range vec {
		// Cycle the digest, re-hashing each round so the full dimension
		// is covered without repeating a 32-byte pattern.
		if i > 0 && i%len(seed) == 0 {
			seed = sha256.Sum256(seed[:])
		}
		vec[i] = float32(seed[i%len(seed)]) / 255.0
	}

	emb := &Embedding{
		Vector:    Normalize(vec),
		Dimension: localDimension,
		Provider:  "local",
		Model:     "hash-embeddings",
		Hash:      hash,
	}
	if l.cache != nil {
		l.cache.Set(hash, emb)
	}
	return emb, nil
}

// EmbedBatch embeds each text in turn.
func (l *Local) EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}
	out := make([]*Embedding, len(texts))
	for i, text := range texts {
		emb, err := l.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = emb
	}
	return out, nil
}

func (l *Local) Dimension() int   { return localDimension }
func (l *Local) Provider() string { return "local" }
func (l *Local) Close() error     { return nil }
