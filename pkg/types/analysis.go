package types

// ContextualAnalysis is the structured opinion returned by the
// qualitative-assessment collaborator for one (job description, resume)
// pair. A nil *ContextualAnalysis means the collaborator was unavailable,
// errored, or returned output that could not be parsed; the ensemble
// falls back to two-signal scoring in that case.
type ContextualAnalysis struct {
	MatchPercentage     float64  `json:"match_percentage"`
	MatchingSkills      []string `json:"matching_skills"`
	MissingRequirements []string `json:"missing_requirements"`
	ExperienceAlignment string   `json:"experience_alignment"`
	Strengths           []string `json:"strengths"`
	Concerns            []string `json:"concerns"`
	Recommendation      string   `json:"recommendation"`
}

// Validate checks the analysis carries a usable match percentage.
func (a *ContextualAnalysis) Validate() error {
	if a.MatchPercentage < 0 || a.MatchPercentage > 100 {
		return ErrInvalidMatchPercentage
	}
	return nil
}
