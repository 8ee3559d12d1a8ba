package types

// Candidate is one resume in a ranking request: an identifier unique
// within the request (typically the uploaded filename) and the extracted
// plain text. The candidate sequence is ordered; input order is the
// tie-break for equal final scores.
type Candidate struct {
	Name string `json:"name"`
	Text string `json:"text"`

	// Extraction-derived metadata, passed through to results unmodified.
	Skills          []string `json:"skills,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
}

// RankRequest is a single ranking operation: one job description against
// an ordered set of candidates. Neither the query nor the candidate set
// outlives the request.
type RankRequest struct {
	JobDescription string      `json:"job_description"`
	Candidates     []Candidate `json:"candidates"`
}

// Validate checks the request has the minimum shape to attempt ranking.
func (r *RankRequest) Validate() error {
	if r.JobDescription == "" {
		return ErrEmptyJobDescription
	}
	if len(r.Candidates) == 0 {
		return ErrNoCandidates
	}
	return nil
}
