// Package contextual produces the LLM judgment signal: a structured
// resume-versus-job analysis obtained from a generative model. The
// signal is optional; callers must tolerate a nil analysis for any
// candidate and fall back to the remaining signals.
package contextual

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/hirelens/hirelens/pkg/types"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-pro"

	// callTimeout bounds one analysis call. Generation latency varies
	// widely, so this sits above typical p99 rather than median.
	callTimeout = 30 * time.Second
)

var (
	// ErrNotAvailable is returned when the provider was never usable
	// (no key, failed probe) and no call was attempted.
	ErrNotAvailable = errors.New("contextual analyzer not available")

	// ErrEmptyResponse is returned when the model answered with no
	// usable text.
	ErrEmptyResponse = errors.New("empty model response")
)

// Analyzer produces a contextual analysis for one candidate, or reports
// why it cannot.
type Analyzer interface {
	// Analyze compares one resume against the job description. A nil
	// analysis with a non-nil error means this candidate gets no
	// contextual signal; the caller decides whether that is fatal.
	Analyze(ctx context.Context, jobDescription, resumeText, name string) (*types.ContextualAnalysis, error)

	// Available reports whether the analyzer can serve calls, with a
	// human-readable reason when it cannot.
	Available() (bool, string)
}

// Client calls the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger

	available bool
	reason    string
}

// Option adjusts client construction.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel selects a model other than the default.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// NewClient builds the Gemini client and probes availability once. A
// missing key or a failed probe does not error: the client is returned
// in a degraded state and every Analyze call reports ErrNotAvailable.
func NewClient(ctx context.Context, apiKey string, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	if apiKey == "" {
		c.reason = "no API key configured"
		c.logger.Warn("contextual analysis disabled", "reason", c.reason)
		return c
	}

	if err := c.probe(ctx); err != nil {
		c.reason = err.Error()
		c.logger.Warn("contextual analysis disabled", "reason", c.reason)
		return c
	}

	c.available = true
	c.logger.Info("contextual analyzer ready", "model", c.model)
	return c
}

// Available implements Analyzer.
func (c *Client) Available() (bool, string) {
	return c.available, c.reason
}

// probe verifies the model is reachable with the configured key. One
// metadata request at startup replaces trial-and-error on the first
// ranking request.
func (c *Client) probe(ctx context.Context) error {
	url := fmt.Sprintf("%s/models/%s?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("probe request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("probe returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// generateContent request and response shapes, reduced to the fields
// this client reads and writes.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze implements Analyzer.
func (c *Client) Analyze(ctx context.Context, jobDescription, resumeText, name string) (*types.ContextualAnalysis, error) {
	if !c.available {
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, c.reason)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	raw, err := c.generate(ctx, buildPrompt(jobDescription, resumeText))
	if err != nil {
		c.logger.Warn("contextual analysis failed", "candidate", name, "error", err)
		return nil, err
	}

	analysis, err := ExtractAnalysis(raw)
	if err != nil {
		c.logger.Warn("unparseable model response", "candidate", name, "error", err, "response", truncate(raw, 256))
		return nil, err
	}
	return analysis, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model returned %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("model error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := genResp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
