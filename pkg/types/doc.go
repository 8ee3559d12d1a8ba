// Package types provides shared domain types for the HireLens ranking
// engine.
//
// A ranking request pairs one job description with an ordered candidate
// set:
//
//	req := types.RankRequest{
//	    JobDescription: "Senior Go engineer, 5+ years, gRPC",
//	    Candidates: []types.Candidate{
//	        {Name: "alice.pdf", Text: "..."},
//	        {Name: "bob.docx", Text: "..."},
//	    },
//	}
//
// The engine combines three relevance signals per candidate (lexical
// term overlap, dense semantic similarity, and an optional contextual
// assessment from an external collaborator) into a single final score,
// then returns a deterministically ordered RankResponse. Lexical and
// semantic scores are normalized onto a [10,100] scale before blending
// so that heterogeneous raw scorer outputs are comparable; the 10-point
// floor keeps the lowest-ranked candidate from reading as "no relevance"
// when raw scores are only relative within the request's corpus.
//
// ContextualAnalysis is deliberately optional: a nil analysis switches
// the ensemble to a two-signal fallback rather than failing the request.
package types
