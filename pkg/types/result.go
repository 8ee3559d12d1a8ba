package types

// CandidateResult is the per-candidate outcome of a ranking request.
// LexicalScore and SemanticScore are normalized to [10,100];
// ContextualScore is nil when no contextual analysis was available.
type CandidateResult struct {
	Name string `json:"name"`
	Rank int    `json:"rank"` // 1-based position after sorting

	FinalScore      float64  `json:"final_score"` // rounded to 2 decimals
	LexicalScore    float64  `json:"lexical_score"`
	SemanticScore   float64  `json:"semantic_score"`
	ContextualScore *float64 `json:"contextual_score"`

	Analysis *ContextualAnalysis `json:"contextual_analysis,omitempty"`

	Skills          []string `json:"skills,omitempty"`
	ExperienceYears int      `json:"experience_years"`
}

// Summary aggregates a completed ranking.
type Summary struct {
	TotalCandidates int     `json:"total_candidates"`
	AverageScore    float64 `json:"average_score"`
	BestCandidate   string  `json:"best_candidate"`
	BestScore       float64 `json:"best_score"`
}

// RankResponse is the ordered result list plus summary for one request.
type RankResponse struct {
	RunID   string            `json:"run_id,omitempty"`
	Results []CandidateResult `json:"results"`
	Summary Summary           `json:"summary"`
}

// Validate checks result invariants: every candidate ranked exactly once
// with contiguous 1..N ranks and scores inside the normalized range.
func (r *RankResponse) Validate() error {
	seen := make(map[int]bool, len(r.Results))
	for i := range r.Results {
		res := &r.Results[i]
		if res.Rank < 1 || res.Rank > len(r.Results) {
			return ErrInvalidRank
		}
		if seen[res.Rank] {
			return ErrDuplicateRank
		}
		seen[res.Rank] = true
		if res.FinalScore < 0 || res.FinalScore > 100 {
			return ErrScoreOutOfRange
		}
	}
	return nil
}
