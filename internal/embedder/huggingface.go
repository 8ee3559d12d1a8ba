package embedder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	hfBaseURL   = "https://api-inference.huggingface.co/pipeline/feature-extraction/"
	hfModel     = "sentence-transformers/all-MiniLM-L6-v2"
	hfDimension = 384
)

// HuggingFace implements Embedder against the Hugging Face Inference API
// feature-extraction pipeline with a sentence-transformers model.
type HuggingFace struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

// NewHuggingFace creates a Hugging Face-backed embedder.
func NewHuggingFace(apiKey string, cache *Cache) (*HuggingFace, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing Hugging Face API key", ErrProviderFailed)
	}
	return &HuggingFace{
		apiKey:     apiKey,
		model:      hfModel,
		baseURL:    hfBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
	}, nil
}

// Embed generates a single embedding, consulting the cache first.
func (h *HuggingFace) Embed(ctx context.Context, text string) (*Embedding, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if h.cache != nil {
		if emb, ok := h.cache.Get(HashText(text)); ok {
			return emb, nil
		}
	}
	out, err := h.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch generates embeddings for multiple texts with retry.
func (h *HuggingFace) EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}

	policy := defaultRetryPolicy()
	embeddings, err := withRetry(ctx, policy, func() ([]*Embedding, error) {
		return h.callAPI(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	if h.cache != nil {
		for i, emb := range embeddings {
			emb.Hash = HashText(texts[i])
			h.cache.Set(emb.Hash, emb)
		}
	}
	return embeddings, nil
}

func (h *HuggingFace) callAPI(ctx context.Context, texts []string) ([]*Embedding, error) {
	body, err := json.Marshal(map[string]any{
		"inputs":  texts,
		"options": map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(raw))
	}

	// The pipeline returns one vector per input text.
	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}

	embeddings := make([]*Embedding, len(vectors))
	for i, vec := range vectors {
		embeddings[i] = &Embedding{
			Vector:    Normalize(vec),
			Dimension: len(vec),
			Provider:  "huggingface",
			Model:     h.model,
		}
	}
	return embeddings, nil
}

func (h *HuggingFace) Dimension() int   { return hfDimension }
func (h *HuggingFace) Provider() string { return "huggingface" }

func (h *HuggingFace) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}
