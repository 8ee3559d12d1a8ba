// Package ensemble combines the per-signal scores into final rankings.
// All functions are pure: they take score slices and weights and return
// new values, leaving ordering decisions visible to the caller.
package ensemble

// Normalization bounds. Raw signal scores land on arbitrary scales
// (BM25 especially), so each signal is min-max rescaled into
// [ScaleMin, ScaleMax] before weighting.
const (
	ScaleMin = 10.0
	ScaleMax = 100.0

	// minSpread guards the divisor when all scores are equal. With a
	// spread this small every score maps to ScaleMin, which keeps a
	// uniform signal from dominating the ensemble.
	minSpread = 0.001
)

// Normalize rescales scores into [ScaleMin, ScaleMax], preserving
// relative order. Returns nil for empty input; callers are expected to
// have rejected empty candidate sets before scoring.
func Normalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	spread := maxScore - minScore
	if spread < minSpread {
		spread = minSpread
	}

	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = ScaleMin + (ScaleMax-ScaleMin)*((s-minScore)/spread)
	}
	return out
}
