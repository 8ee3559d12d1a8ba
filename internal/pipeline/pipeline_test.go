package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens/internal/contextual"
	"github.com/hirelens/hirelens/internal/embedder"
	"github.com/hirelens/hirelens/internal/ensemble"
	"github.com/hirelens/hirelens/internal/storage"
	"github.com/hirelens/hirelens/pkg/types"
)

// stubAnalyzer returns canned analyses keyed by candidate name. Names
// in failFor get an error instead.
type stubAnalyzer struct {
	available bool
	reason    string
	analyses  map[string]*types.ContextualAnalysis
	failFor   map[string]bool
}

func (s *stubAnalyzer) Available() (bool, string) { return s.available, s.reason }

func (s *stubAnalyzer) Analyze(_ context.Context, _, _, name string) (*types.ContextualAnalysis, error) {
	if s.failFor[name] {
		return nil, errors.New("model unavailable")
	}
	if a, ok := s.analyses[name]; ok {
		return a, nil
	}
	return nil, contextual.ErrEmptyResponse
}

// failingEmbedder errors on every call to exercise the fatal path.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) (*embedder.Embedding, error) {
	return nil, embedder.ErrProviderFailed
}
func (failingEmbedder) EmbedBatch(context.Context, []string) ([]*embedder.Embedding, error) {
	return nil, embedder.ErrProviderFailed
}
func (failingEmbedder) Dimension() int   { return 0 }
func (failingEmbedder) Provider() string { return "failing" }
func (failingEmbedder) Close() error     { return nil }

func testLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	return logger
}

func newTestPipeline(t *testing.T, analyzer contextual.Analyzer, store storage.Storage) *Pipeline {
	t.Helper()
	emb := embedder.NewLocal(embedder.NewCache(64))
	t.Cleanup(func() { _ = emb.Close() })
	return New(emb, analyzer, store, ensemble.DefaultWeights(), testLogger())
}

func rankRequest(candidates ...types.Candidate) *types.RankRequest {
	return &types.RankRequest{
		JobDescription: "senior python engineer with aws and docker experience",
		Candidates:     candidates,
	}
}

func TestRun_ValidatesRequest(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	_, err := p.Run(context.Background(), &types.RankRequest{})
	assert.ErrorIs(t, err, types.ErrEmptyJobDescription)

	_, err = p.Run(context.Background(), &types.RankRequest{JobDescription: "job"})
	assert.ErrorIs(t, err, types.ErrNoCandidates)
}

func TestRun_AllEmptyTextsFatal(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	_, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "a", Text: ""},
		types.Candidate{Name: "b", Text: "   \n\t "},
	))
	assert.ErrorIs(t, err, types.ErrNoUsableInput)
}

func TestRun_DropsEmptyCandidates(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "empty", Text: "  "},
		types.Candidate{Name: "alice", Text: "python engineer with 5 years of experience in aws"},
	))
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "alice", resp.Results[0].Name)
	assert.Equal(t, 1, resp.Results[0].Rank)
}

func TestRun_SemanticFailureFatal(t *testing.T) {
	p := New(failingEmbedder{}, nil, nil, ensemble.DefaultWeights(), testLogger())

	_, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "alice", Text: "python engineer"},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, embedder.ErrProviderFailed)
}

func TestRun_FullEnsemble(t *testing.T) {
	analyzer := &stubAnalyzer{
		available: true,
		analyses: map[string]*types.ContextualAnalysis{
			"alice": {MatchPercentage: 90, Recommendation: "hire"},
			"bob":   {MatchPercentage: 30, Recommendation: "reject"},
		},
	}
	p := newTestPipeline(t, analyzer, nil)

	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "alice", Text: "python aws docker engineer with 8 years of experience"},
		types.Candidate{Name: "bob", Text: "junior marketing assistant, 1 year experience"},
	))
	require.NoError(t, err)
	require.NoError(t, resp.Validate())
	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.RunID)

	for _, res := range resp.Results {
		require.NotNil(t, res.ContextualScore, res.Name)
		require.NotNil(t, res.Analysis, res.Name)

		want := ensemble.Combine(res.LexicalScore, res.SemanticScore, res.Analysis, p.Weights())
		assert.InDelta(t, want, res.FinalScore, 0.02, res.Name)
	}

	assert.Equal(t, "alice", resp.Summary.BestCandidate)
	assert.Equal(t, 2, resp.Summary.TotalCandidates)
	assert.InDelta(t, resp.Results[0].FinalScore, resp.Summary.BestScore, 1e-9)
}

func TestRun_ExtractsMetadata(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "alice", Text: "Python and AWS developer with 6 years of experience using Docker"},
	))
	require.NoError(t, err)

	res := resp.Results[0]
	assert.Contains(t, res.Skills, "python")
	assert.Contains(t, res.Skills, "aws")
	assert.Contains(t, res.Skills, "docker")
	assert.Equal(t, 6, res.ExperienceYears)
}

func TestRun_PartialContextualFailure(t *testing.T) {
	analyzer := &stubAnalyzer{
		available: true,
		analyses: map[string]*types.ContextualAnalysis{
			"alice": {MatchPercentage: 80},
		},
		failFor: map[string]bool{"bob": true},
	}
	p := newTestPipeline(t, analyzer, nil)

	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "alice", Text: "python aws engineer"},
		types.Candidate{Name: "bob", Text: "python cloud developer"},
	))
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	byName := make(map[string]types.CandidateResult)
	for _, r := range resp.Results {
		byName[r.Name] = r
	}

	require.NotNil(t, byName["alice"].ContextualScore)
	assert.Nil(t, byName["bob"].ContextualScore)
	assert.Nil(t, byName["bob"].Analysis)

	// Bob's final score uses the two-signal fallback weights.
	bob := byName["bob"]
	want := ensemble.Combine(bob.LexicalScore, bob.SemanticScore, nil, p.Weights())
	assert.InDelta(t, want, bob.FinalScore, 0.02)
}

func TestRun_AnalyzerUnavailable(t *testing.T) {
	analyzer := &stubAnalyzer{available: false, reason: "no API key"}
	p := newTestPipeline(t, analyzer, nil)

	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "alice", Text: "python engineer"},
	))
	require.NoError(t, err)
	assert.Nil(t, resp.Results[0].ContextualScore)

	ok, reason := p.AnalyzerAvailable()
	assert.False(t, ok)
	assert.Equal(t, "no API key", reason)
}

func TestRun_TiesKeepSubmissionOrder(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	// Identical texts produce identical scores across every signal.
	text := "python aws docker engineer"
	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "first", Text: text},
		types.Candidate{Name: "second", Text: text},
		types.Candidate{Name: "third", Text: text},
	))
	require.NoError(t, err)

	assert.Equal(t, "first", resp.Results[0].Name)
	assert.Equal(t, "second", resp.Results[1].Name)
	assert.Equal(t, "third", resp.Results[2].Name)
}

func TestRun_RanksObviousMatchFirst(t *testing.T) {
	analyzer := &stubAnalyzer{
		available: true,
		analyses: map[string]*types.ContextualAnalysis{
			"developer": {MatchPercentage: 90, Recommendation: "hire"},
			"designer":  {MatchPercentage: 15, Recommendation: "reject"},
		},
	}
	p := newTestPipeline(t, analyzer, nil)

	req := &types.RankRequest{
		JobDescription: "Python backend engineer, 3+ years, REST APIs",
		Candidates: []types.Candidate{
			{Name: "designer", Text: "Graphic designer, Photoshop, Illustrator"},
			{Name: "developer", Text: "Senior Python developer, 5 years, built REST APIs"},
		},
	}

	// Same input, same ordering, every time.
	for i := 0; i < 3; i++ {
		resp, err := p.Run(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "developer", resp.Results[0].Name)
		assert.Equal(t, "designer", resp.Results[1].Name)
		assert.Greater(t, resp.Results[0].FinalScore, resp.Results[1].FinalScore)
	}
}

func TestRun_PersistsHistory(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	p := newTestPipeline(t, nil, store)

	resp, err := p.Run(context.Background(), rankRequest(
		types.Candidate{Name: "alice", Text: "python aws engineer with 4 years of experience"},
	))
	require.NoError(t, err)

	run, err := store.GetRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, resp.Summary, run.Summary)
	require.Len(t, run.Results, 1)
	assert.Equal(t, "alice", run.Results[0].Name)
	assert.True(t, strings.Contains(run.JobDescription, "python"))
}
