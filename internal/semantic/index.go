// Package semantic scores candidates by embedding-space proximity to the
// query. A nearest-neighbor index is built per request over the
// candidate set's embeddings and discarded with the request; similarity
// search is brute-force cosine over unit vectors, which is exact and
// fast at resume-screening corpus sizes.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hirelens/hirelens/internal/embedder"
)

const (
	// FloorScore is the minimum similarity any retrieved candidate can
	// receive on the 0-100 scale.
	FloorScore = 10.0

	// FallbackScore is assigned to a candidate the neighbor query did
	// not return. With k equal to the candidate count that should not
	// happen, but every candidate must leave with a value.
	FallbackScore = 50.0
)

// ErrEmptyIndex is returned when the index is built over no candidates.
var ErrEmptyIndex = errors.New("semantic index has no candidates")

// Index is a per-request nearest-neighbor index over candidate vectors.
type Index struct {
	emb     embedder.Embedder
	names   []string
	vectors [][]float32
}

// Build embeds every candidate text and constructs the index. Any
// embedding failure is returned to the caller: semantic scoring is a
// required signal and the whole ranking request aborts without it.
func Build(ctx context.Context, emb embedder.Embedder, names []string, texts []string) (*Index, error) {
	if len(names) != len(texts) {
		return nil, fmt.Errorf("semantic: %d names for %d texts", len(names), len(texts))
	}
	if len(texts) == 0 {
		return nil, ErrEmptyIndex
	}

	embeddings, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed candidates: %w", err)
	}

	vectors := make([][]float32, len(embeddings))
	for i, e := range embeddings {
		vectors[i] = e.Vector
	}

	return &Index{emb: emb, names: names, vectors: vectors}, nil
}

// neighbor pairs a candidate position with its cosine distance to the
// query vector.
type neighbor struct {
	pos      int
	distance float64
}

// Scores embeds the query and returns a similarity score per candidate
// name. Distance converts to similarity as 100*(1-min(distance,1)),
// floored at FloorScore. Every indexed candidate is present in the map.
func (idx *Index) Scores(ctx context.Context, query string) (map[string]float64, error) {
	queryEmb, err := idx.emb.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}

	neighbors := idx.search(queryEmb.Vector, len(idx.vectors))

	scores := make(map[string]float64, len(idx.names))
	for _, name := range idx.names {
		scores[name] = FallbackScore
	}
	for _, n := range neighbors {
		scores[idx.names[n.pos]] = toSimilarity(n.distance)
	}
	return scores, nil
}

// search returns the k nearest candidates by cosine distance, ascending.
func (idx *Index) search(query []float32, k int) []neighbor {
	neighbors := make([]neighbor, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		if len(vec) != len(query) {
			continue // dimension mismatch, skip
		}
		neighbors = append(neighbors, neighbor{
			pos:      i,
			distance: 1 - cosineSimilarity(query, vec),
		})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].distance < neighbors[j].distance
	})

	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// toSimilarity converts a distance to the 0-100 similarity scale with
// the documented floor.
func toSimilarity(distance float64) float64 {
	similarity := 100 * (1 - math.Min(distance, 1))
	return math.Max(FloorScore, similarity)
}

// cosineSimilarity computes cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
