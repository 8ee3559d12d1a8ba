package types

import "errors"

// Domain errors. The first group is fatal to a whole ranking request;
// the second group is validation of individual values.
var (
	ErrEmptyJobDescription = errors.New("job description cannot be empty")
	ErrNoCandidates        = errors.New("at least one candidate is required")
	ErrNoUsableInput       = errors.New("no usable input: every candidate produced empty text")

	ErrInvalidRank            = errors.New("rank must be between 1 and the candidate count")
	ErrDuplicateRank          = errors.New("duplicate rank assigned")
	ErrScoreOutOfRange        = errors.New("score must be between 0 and 100")
	ErrInvalidMatchPercentage = errors.New("match percentage must be between 0 and 100")
)
