package events

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Event
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Append stores a new event.
func (r *MemoryRepo) Append(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, ev)
	return nil
}

// ListByDocument returns events for a document, oldest first.
func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]Event, error) {
	return r.filter(ctx, func(ev Event) bool { return ev.DocumentID == documentID }, 0)
}

// ListByCandidate returns events for a candidate, oldest first.
func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Event, error) {
	return r.filter(ctx, func(ev Event) bool { return ev.CandidateID == candidateID }, 0)
}

// ListByRequest returns events for a request, oldest first.
func (r *MemoryRepo) ListByRequest(ctx context.Context, requestID string) ([]Event, error) {
	return r.filter(ctx, func(ev Event) bool { return ev.RequestID == requestID }, 0)
}

// ListTimeline returns chronological events scoped by candidate and/or
// document. limit <= 0 means no limit.
func (r *MemoryRepo) ListTimeline(ctx context.Context, candidateID, documentID string, limit int) ([]Event, error) {
	return r.filter(ctx, func(ev Event) bool {
		if candidateID != "" && ev.CandidateID != candidateID {
			return false
		}
		if documentID != "" && ev.DocumentID != documentID {
			return false
		}
		return true
	}, limit)
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Event) bool, limit int) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for _, ev := range r.data {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
