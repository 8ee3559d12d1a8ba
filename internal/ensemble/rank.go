package ensemble

import (
	"sort"

	"github.com/hirelens/hirelens/pkg/types"
)

// Rank sorts results by final score, highest first, and assigns
// contiguous 1-based ranks. The sort is stable, so candidates with
// equal scores keep their submission order.
func Rank(results []types.CandidateResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// Summarize aggregates ranked results. Results must already be ranked:
// the best candidate is the one at rank 1.
func Summarize(results []types.CandidateResult) types.Summary {
	if len(results) == 0 {
		return types.Summary{}
	}

	var total float64
	for i := range results {
		total += results[i].FinalScore
	}

	return types.Summary{
		TotalCandidates: len(results),
		AverageScore:    Round2(total / float64(len(results))),
		BestCandidate:   results[0].Name,
		BestScore:       results[0].FinalScore,
	}
}
