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
	openAIEndpoint  = "https://api.openai.com/v1/embeddings"
	openAIModel     = "text-embedding-3-small"
	openAIDimension = 1536

	maxBatchSize = 100
)

// OpenAI implements Embedder against the OpenAI embeddings API.
type OpenAI struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	cache      *Cache
}

// NewOpenAI creates an OpenAI-backed embedder. The API key is required.
func NewOpenAI(apiKey string, cache *Cache) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI API key", ErrProviderFailed)
	}
	return &OpenAI{
		apiKey:     apiKey,
		model:      openAIModel,
		endpoint:   openAIEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
	}, nil
}

// Embed generates a single embedding, consulting the cache first.
func (o *OpenAI) Embed(ctx context.Context, text string) (*Embedding, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if o.cache != nil {
		if emb, ok := o.cache.Get(HashText(text)); ok {
			return emb, nil
		}
	}
	out, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch generates embeddings for multiple texts with retry.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}
	if len(texts) > maxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit %d", ErrProviderFailed, len(texts), maxBatchSize)
	}

	policy := defaultRetryPolicy()
	embeddings, err := withRetry(ctx, policy, func() ([]*Embedding, error) {
		return o.callAPI(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	if o.cache != nil {
		for i, emb := range embeddings {
			emb.Hash = HashText(texts[i])
			o.cache.Set(emb.Hash, emb)
		}
	}
	return embeddings, nil
}

func (o *OpenAI) callAPI(ctx context.Context, texts []string) ([]*Embedding, error) {
	body, err := json.Marshal(map[string]any{
		"input": texts,
		"model": o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(raw))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
		Model string `json:"model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(apiResp.Data))
	}

	embeddings := make([]*Embedding, len(apiResp.Data))
	for i, item := range apiResp.Data {
		embeddings[i] = &Embedding{
			Vector:    Normalize(item.Embedding),
			Dimension: len(item.Embedding),
			Provider:  "openai",
			Model:     apiResp.Model,
		}
	}
	return embeddings, nil
}

func (o *OpenAI) Dimension() int   { return openAIDimension }
func (o *OpenAI) Provider() string { return "openai" }

func (o *OpenAI) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
