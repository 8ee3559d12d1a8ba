package ensemble

import (
	"errors"
	"fmt"
	"math"

	"github.com/hirelens/hirelens/pkg/types"
)

// Default ensemble weights. The three-way split applies when a
// contextual analysis is present; the fallback pair applies when it is
// not. The fallback is its own weight set, not a renormalization of the
// three-way split, so lexical evidence carries more weight when the
// model's judgment is missing.
const (
	DefaultLexicalWeight    = 0.3
	DefaultSemanticWeight   = 0.3
	DefaultContextualWeight = 0.4

	FallbackLexicalWeight  = 0.6
	FallbackSemanticWeight = 0.4
)

// weightTolerance absorbs float literals like 0.3+0.3+0.4 not summing
// to exactly 1.
const weightTolerance = 1e-9

// ErrInvalidWeights is returned when a weight set cannot produce scores
// in the normalized range.
var ErrInvalidWeights = errors.New("invalid ensemble weights")

// Weights holds the three-way signal weights.
type Weights struct {
	Lexical    float64
	Semantic   float64
	Contextual float64
}

// DefaultWeights returns the standard 30/30/40 split.
func DefaultWeights() Weights {
	return Weights{
		Lexical:    DefaultLexicalWeight,
		Semantic:   DefaultSemanticWeight,
		Contextual: DefaultContextualWeight,
	}
}

// Validate rejects weight sets that are negative or do not sum to 1.
func (w Weights) Validate() error {
	if w.Lexical < 0 || w.Semantic < 0 || w.Contextual < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidWeights)
	}
	sum := w.Lexical + w.Semantic + w.Contextual
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Combine produces the final score for one candidate from normalized
// lexical and semantic scores plus an optional contextual analysis.
// The result is rounded to two decimals.
func Combine(lexical, semantic float64, analysis *types.ContextualAnalysis, w Weights) float64 {
	var score float64
	if analysis != nil {
		score = w.Lexical*lexical + w.Semantic*semantic + w.Contextual*analysis.MatchPercentage
	} else {
		score = FallbackLexicalWeight*lexical + FallbackSemanticWeight*semantic
	}
	return Round2(score)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
