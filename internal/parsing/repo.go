package parsing

import (
	"context"
	"time"
)

// Repo defines persistence operations for parsing jobs. Status updates must
// refuse to touch a terminal job and return ErrJobTerminal instead.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, jobID, candidateID string, completedAt time.Time) error
	MarkFailed(ctx context.Context, jobID, errorMessage string, completedAt time.Time) error
}
