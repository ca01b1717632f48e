package candidates

import "context"

// Repo defines persistence operations for candidate snapshots.
type Repo interface {
	Create(ctx context.Context, cand Candidate) error
	GetByID(ctx context.Context, candidateID string) (Candidate, error)
	List(ctx context.Context) ([]Candidate, error)
}
