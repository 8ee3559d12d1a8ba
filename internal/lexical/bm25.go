// Package lexical scores candidates against a query by literal term
// overlap using the Okapi BM25 weighting scheme: term frequency damped
// by k1, document-length normalization controlled by b, and inverse
// document frequency computed across the request's candidate corpus.
//
// The index is built per request over exactly that request's candidate
// set and discarded afterwards; corpus statistics (document frequency,
// average length) therefore describe the current candidate pool only,
// which is why raw scores are relative, not an absolute relevance scale.
package lexical

import (
	"math"

	"github.com/hirelens/hirelens/internal/extract"
)

const (
	k1 = 1.5
	b  = 0.75

	// epsilon floors negative IDF values (terms present in most of the
	// corpus) at a small positive fraction of the average IDF, keeping
	// scores monotonically non-decreasing in term-overlap count.
	epsilon = 0.25

	// NeutralScore is returned as the single placeholder raw score when
	// the corpus is empty or yields no tokens; the scorer soft-degrades
	// instead of failing the request.
	NeutralScore = 50.0
)

// Index holds per-request BM25 corpus statistics.
type Index struct {
	termFreqs []map[string]int // one term->count map per document
	docLens   []float64
	avgDocLen float64
	idf       map[string]float64
	usable    bool
}

// NewIndex tokenizes every candidate text and builds corpus statistics.
// An index built from an empty corpus (no documents, or all documents
// tokenize to nothing) is still returned; Scores on such an index yields
// the neutral placeholder.
func NewIndex(texts []string) *Index {
	idx := &Index{
		termFreqs: make([]map[string]int, len(texts)),
		docLens:   make([]float64, len(texts)),
		idf:       make(map[string]float64),
	}

	var totalLen float64
	docFreq := make(map[string]int)

	for i, text := range texts {
		tokens := extract.Tokenize(text)
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		idx.termFreqs[i] = freqs
		idx.docLens[i] = float64(len(tokens))
		totalLen += float64(len(tokens))

		for term := range freqs {
			docFreq[term]++
		}
	}

	if len(texts) == 0 || totalLen == 0 {
		return idx
	}

	idx.usable = true
	idx.avgDocLen = totalLen / float64(len(texts))
	idx.computeIDF(docFreq, len(texts))
	return idx
}

// computeIDF fills the IDF table, flooring negative values at
// epsilon * average positive IDF per the Okapi variant.
func (idx *Index) computeIDF(docFreq map[string]int, numDocs int) {
	var idfSum float64
	var negative []string

	for term, df := range docFreq {
		val := math.Log((float64(numDocs) - float64(df) + 0.5) / (float64(df) + 0.5))
		idx.idf[term] = val
		idfSum += val
		if val < 0 {
			negative = append(negative, term)
		}
	}

	avgIDF := idfSum / float64(len(docFreq))
	floor := epsilon * avgIDF
	for _, term := range negative {
		idx.idf[term] = floor
	}
}

// Usable reports whether the index has corpus statistics to score with.
func (idx *Index) Usable() bool {
	return idx.usable
}

// Scores computes one raw BM25 score per indexed document for the given
// query text, index-aligned with the order texts were passed to NewIndex.
// On an unusable index it returns the single neutral placeholder.
func (idx *Index) Scores(query string) []float64 {
	if !idx.usable {
		return []float64{NeutralScore}
	}

	queryTokens := extract.Tokenize(query)
	scores := make([]float64, len(idx.termFreqs))

	for _, term := range queryTokens {
		termIDF, ok := idx.idf[term]
		if !ok {
			continue
		}
		for i, freqs := range idx.termFreqs {
			tf := float64(freqs[term])
			if tf == 0 {
				continue
			}
			denom := tf + k1*(1-b+b*idx.docLens[i]/idx.avgDocLen)
			scores[i] += termIDF * tf * (k1 + 1) / denom
		}
	}

	return scores
}
