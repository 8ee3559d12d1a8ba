package contextual

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/hirelens/hirelens/pkg/types"
)

// ErrNoJSON is returned when no JSON object could be recovered from the
// model's text.
var ErrNoJSON = errors.New("no JSON object in model response")

// ExtractAnalysis parses a model reply into a ContextualAnalysis.
// Models often wrap JSON in markdown fences despite instructions, so
// parsing tries the raw text first and falls back to stripping a
// ```json or ``` fenced block.
func ExtractAnalysis(raw string) (*types.ContextualAnalysis, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrNoJSON
	}

	candidates := []string{text}
	if stripped, ok := stripFence(text); ok {
		candidates = append(candidates, stripped)
	}

	var lastErr error
	for _, c := range candidates {
		var analysis types.ContextualAnalysis
		if err := json.Unmarshal([]byte(c), &analysis); err != nil {
			lastErr = err
			continue
		}
		if err := analysis.Validate(); err != nil {
			lastErr = err
			continue
		}
		return &analysis, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrNoJSON, lastErr)
}

// stripFence extracts the body of the first markdown code fence,
// preferring a ```json fence over a bare one.
func stripFence(text string) (string, bool) {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), true
		}
		return strings.TrimSpace(rest), true
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), true
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}
