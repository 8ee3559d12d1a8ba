// Package pipeline orchestrates one ranking request end to end:
// candidate intake, the three scoring signals, ensemble combination,
// ranking, and run persistence.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hirelens/hirelens/internal/contextual"
	"github.com/hirelens/hirelens/internal/embedder"
	"github.com/hirelens/hirelens/internal/ensemble"
	"github.com/hirelens/hirelens/internal/extract"
	"github.com/hirelens/hirelens/internal/lexical"
	"github.com/hirelens/hirelens/internal/semantic"
	"github.com/hirelens/hirelens/internal/storage"
	"github.com/hirelens/hirelens/pkg/types"
)

// maxConcurrentAnalyses caps in-flight contextual model calls per
// request.
const maxConcurrentAnalyses = 4

// Pipeline wires the scoring stages together. Store may be nil when
// run history is disabled.
type Pipeline struct {
	emb      embedder.Embedder
	analyzer contextual.Analyzer
	store    storage.Storage
	weights  ensemble.Weights
	logger   *log.Logger
}

// New assembles a pipeline. The weight set must already be validated.
func New(emb embedder.Embedder, analyzer contextual.Analyzer, store storage.Storage, weights ensemble.Weights, logger *log.Logger) *Pipeline {
	return &Pipeline{
		emb:      emb,
		analyzer: analyzer,
		store:    store,
		weights:  weights,
		logger:   logger,
	}
}

// Weights returns the configured ensemble weights.
func (p *Pipeline) Weights() ensemble.Weights {
	return p.weights
}

// AnalyzerAvailable reports the contextual analyzer's status.
func (p *Pipeline) AnalyzerAvailable() (bool, string) {
	if p.analyzer == nil {
		return false, "not configured"
	}
	return p.analyzer.Available()
}

// candidate is the usable-intake view of one submission.
type candidate struct {
	name            string
	text            string
	skills          []string
	experienceYears int
}

// Run executes one ranking request. Candidates with empty text are
// dropped up front; an empty usable set fails the request. Lexical
// scoring degrades to a neutral signal on an unusable corpus, semantic
// scoring failures abort the request, and contextual failures cost only
// the affected candidate its contextual signal.
func (p *Pipeline) Run(ctx context.Context, req *types.RankRequest) (*types.RankResponse, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	usable := p.intake(req.Candidates)
	if len(usable) == 0 {
		return nil, types.ErrNoUsableInput
	}

	names := make([]string, len(usable))
	texts := make([]string, len(usable))
	for i, c := range usable {
		names[i] = c.name
		texts[i] = c.text
	}

	lexScores := p.scoreLexical(texts, req.JobDescription)

	semScores, err := p.scoreSemantic(ctx, names, texts, req.JobDescription)
	if err != nil {
		return nil, err
	}

	analyses := p.analyzeAll(ctx, req.JobDescription, usable)

	results := make([]types.CandidateResult, len(usable))
	for i, c := range usable {
		analysis := analyses[i]
		result := types.CandidateResult{
			Name:            c.name,
			LexicalScore:    ensemble.Round2(lexScores[i]),
			SemanticScore:   ensemble.Round2(semScores[i]),
			Analysis:        analysis,
			Skills:          c.skills,
			ExperienceYears: c.experienceYears,
		}
		if analysis != nil {
			ctxScore := analysis.MatchPercentage
			result.ContextualScore = &ctxScore
		}
		result.FinalScore = ensemble.Combine(lexScores[i], semScores[i], analysis, p.weights)
		results[i] = result
	}

	ensemble.Rank(results)

	resp := &types.RankResponse{
		RunID:   uuid.NewString(),
		Results: results,
		Summary: ensemble.Summarize(results),
	}

	p.persist(ctx, req.JobDescription, resp)

	p.logger.Info("ranking complete",
		"run_id", resp.RunID,
		"candidates", len(results),
		"best", resp.Summary.BestCandidate,
		"duration", time.Since(start))

	return resp, nil
}

// intake drops candidates whose text is empty after trimming and
// extracts per-candidate metadata from the rest.
func (p *Pipeline) intake(in []types.Candidate) []candidate {
	usable := make([]candidate, 0, len(in))
	for _, c := range in {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			p.logger.Warn("dropping candidate with empty text", "candidate", c.Name)
			continue
		}
		usable = append(usable, candidate{
			name:            c.Name,
			text:            text,
			skills:          extract.Skills(text),
			experienceYears: extract.ExperienceYears(text),
		})
	}
	return usable
}

// scoreLexical returns one normalized lexical score per candidate. An
// unusable corpus yields the neutral score for everyone rather than an
// error.
func (p *Pipeline) scoreLexical(texts []string, jobDescription string) []float64 {
	idx := lexical.NewIndex(texts)
	if !idx.Usable() {
		p.logger.Warn("lexical corpus unusable, scoring neutral")
		scores := make([]float64, len(texts))
		for i := range scores {
			scores[i] = lexical.NeutralScore
		}
		return scores
	}
	return ensemble.Normalize(idx.Scores(jobDescription))
}

// scoreSemantic returns one similarity score per candidate,
// index-aligned with names. Embedding failures are fatal to the
// request.
func (p *Pipeline) scoreSemantic(ctx context.Context, names, texts []string, jobDescription string) ([]float64, error) {
	idx, err := semantic.Build(ctx, p.emb, names, texts)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	scoreMap, err := idx.Scores(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	scores := make([]float64, len(names))
	for i, name := range names {
		if s, ok := scoreMap[name]; ok {
			scores[i] = s
		} else {
			scores[i] = semantic.FallbackScore
		}
	}
	return scores, nil
}

// analyzeAll fans contextual calls out across candidates. A failed or
// unavailable analysis leaves a nil entry; the ensemble falls back to
// the two-signal weights for that candidate.
func (p *Pipeline) analyzeAll(ctx context.Context, jobDescription string, usable []candidate) []*types.ContextualAnalysis {
	analyses := make([]*types.ContextualAnalysis, len(usable))
	if p.analyzer == nil {
		return analyses
	}
	if ok, reason := p.analyzer.Available(); !ok {
		p.logger.Debug("skipping contextual analysis", "reason", reason)
		return analyses
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnalyses)

	for i := range usable {
		g.Go(func() error {
			analysis, err := p.analyzer.Analyze(gctx, jobDescription, usable[i].text, usable[i].name)
			if err != nil {
				// Per-candidate degradation, not a request failure.
				return nil
			}
			analyses[i] = analysis
			return nil
		})
	}
	_ = g.Wait()

	return analyses
}

// persist saves the run when a store is configured. History is best
// effort: a storage failure is logged, not surfaced.
func (p *Pipeline) persist(ctx context.Context, jobDescription string, resp *types.RankResponse) {
	if p.store == nil {
		return
	}
	run := &storage.Run{
		ID:             resp.RunID,
		JobDescription: jobDescription,
		Summary:        resp.Summary,
		Results:        resp.Results,
	}
	if err := p.store.SaveRun(ctx, run); err != nil {
		p.logger.Error("failed to persist run", "run_id", resp.RunID, "error", err)
	}
}
