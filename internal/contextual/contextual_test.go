package contextual

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysisJSON = `{
	"match_percentage": 85.5,
	"matching_skills": ["python", "aws"],
	"missing_requirements": ["kubernetes"],
	"experience_alignment": "strong senior-level match",
	"strengths": ["cloud experience"],
	"concerns": ["no container orchestration"],
	"recommendation": "interview - strong technical fit"
}`

func testLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	return logger
}

func TestExtractAnalysis_StrictJSON(t *testing.T) {
	analysis, err := ExtractAnalysis(validAnalysisJSON)
	require.NoError(t, err)
	assert.InDelta(t, 85.5, analysis.MatchPercentage, 1e-9)
	assert.Equal(t, []string{"python", "aws"}, analysis.MatchingSkills)
	assert.Equal(t, "interview - strong technical fit", analysis.Recommendation)
}

func TestExtractAnalysis_JSONFence(t *testing.T) {
	wrapped := "Here is my analysis:\n```json\n" + validAnalysisJSON + "\n```\nHope this helps."
	analysis, err := ExtractAnalysis(wrapped)
	require.NoError(t, err)
	assert.InDelta(t, 85.5, analysis.MatchPercentage, 1e-9)
}

func TestExtractAnalysis_BareFence(t *testing.T) {
	wrapped := "```\n" + validAnalysisJSON + "\n```"
	analysis, err := ExtractAnalysis(wrapped)
	require.NoError(t, err)
	assert.Len(t, analysis.MissingRequirements, 1)
}

func TestExtractAnalysis_Garbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose", "I cannot analyze this resume."},
		{"truncated json", `{"match_percentage": 50, "matching`},
		{"out of range percentage", `{"match_percentage": 140}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractAnalysis(tt.raw)
			assert.ErrorIs(t, err, ErrNoJSON)
		})
	}
}

func geminiHandler(t *testing.T, replyText string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /models/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "models/gemini-pro"}`)
	})
	mux.HandleFunc("POST /models/", func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, ":generateContent")
		w.Header().Set("Content-Type", "application/json")
		resp := fmt.Sprintf(`{"candidates": [{"content": {"parts": [{"text": %q}]}}]}`, replyText)
		fmt.Fprint(w, resp)
	})
	return mux
}

func TestClient_NoKeyDisabled(t *testing.T) {
	c := NewClient(context.Background(), "", testLogger())

	ok, reason := c.Available()
	assert.False(t, ok)
	assert.Contains(t, reason, "no API key")

	_, err := c.Analyze(context.Background(), "job", "resume", "alice")
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestClient_ProbeFailureDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403, "message": "forbidden"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "bad-key", testLogger(), WithBaseURL(srv.URL))

	ok, reason := c.Available()
	assert.False(t, ok)
	assert.Contains(t, reason, "403")
}

func TestClient_Analyze(t *testing.T) {
	srv := httptest.NewServer(geminiHandler(t, validAnalysisJSON))
	defer srv.Close()

	c := NewClient(context.Background(), "test-key", testLogger(), WithBaseURL(srv.URL))

	ok, _ := c.Available()
	require.True(t, ok)

	analysis, err := c.Analyze(context.Background(), "python engineer", "python dev resume", "alice")
	require.NoError(t, err)
	assert.InDelta(t, 85.5, analysis.MatchPercentage, 1e-9)
}

func TestClient_AnalyzeFencedReply(t *testing.T) {
	fenced := "```json\n" + validAnalysisJSON + "\n```"
	srv := httptest.NewServer(geminiHandler(t, fenced))
	defer srv.Close()

	c := NewClient(context.Background(), "test-key", testLogger(), WithBaseURL(srv.URL))

	analysis, err := c.Analyze(context.Background(), "job", "resume", "bob")
	require.NoError(t, err)
	assert.Equal(t, "strong senior-level match", analysis.ExperienceAlignment)
}

func TestClient_AnalyzeUnparseableReply(t *testing.T) {
	srv := httptest.NewServer(geminiHandler(t, "sorry, I refuse"))
	defer srv.Close()

	c := NewClient(context.Background(), "test-key", testLogger(), WithBaseURL(srv.URL))

	_, err := c.Analyze(context.Background(), "job", "resume", "carol")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestClient_AnalyzeServerError(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /models/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("POST /models/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "internal", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(context.Background(), "test-key", testLogger(), WithBaseURL(srv.URL))

	_, err := c.Analyze(context.Background(), "job", "resume", "dave")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "500"))
	assert.Equal(t, 1, calls)
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt("senior go engineer", "ten years of go")
	assert.Contains(t, p, "senior go engineer")
	assert.Contains(t, p, "ten years of go")
	assert.Contains(t, p, "match_percentage")
	assert.Contains(t, p, "Return ONLY valid JSON")
}
