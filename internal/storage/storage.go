package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hirelens/hirelens/pkg/types"
)

var (
	// ErrNotFound is returned when a requested run doesn't exist.
	ErrNotFound = errors.New("not found")
)

// Storage persists completed ranking runs and serves them back for
// review.
type Storage interface {
	// SaveRun records one completed ranking with its per-candidate
	// results.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun loads one run with its full result list.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ListRuns returns recent run summaries, newest first.
	ListRuns(ctx context.Context, limit int) ([]*RunSummary, error)

	// DeleteRun removes a run and its results.
	DeleteRun(ctx context.Context, runID string) error

	Close() error
}

// Run is one completed ranking request with its outcome.
type Run struct {
	ID             string
	JobDescription string
	Summary        types.Summary
	Results        []types.CandidateResult
	CreatedAt      time.Time
}

// RunSummary is the listing view of a run, without per-candidate
// results.
type RunSummary struct {
	ID             string
	JobDescription string
	Summary        types.Summary
	CreatedAt      time.Time
}
