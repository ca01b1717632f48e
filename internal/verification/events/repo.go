package events

import "context"

// Repo defines persistence for the append-only event ledger. List results
// are ordered by CreatedAt ascending.
type Repo interface {
	Append(ctx context.Context, ev Event) error
	ListByDocument(ctx context.Context, documentID string) ([]Event, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Event, error)
	ListByRequest(ctx context.Context, requestID string) ([]Event, error)
	ListTimeline(ctx context.Context, candidateID, documentID string, limit int) ([]Event, error)
}
