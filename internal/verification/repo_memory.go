package verification

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByCandidate returns a candidate's documents, oldest first.
func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.data {
		if doc.CandidateID == candidateID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ApplyUpdate performs the guarded status transition.
func (r *MemoryRepo) ApplyUpdate(ctx context.Context, documentID, fromStatus string, upd Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.Status != fromStatus {
		return ErrInvalidTransition
	}
	doc.Status = upd.Status
	doc.ReasonCode = upd.ReasonCode
	doc.MismatchFields = upd.MismatchFields
	doc.ExtractedIdentity = upd.ExtractedIdentity
	if upd.DetectedCategory != "" {
		doc.DetectedCategory = upd.DetectedCategory
	}
	if upd.Confidence != nil {
		doc.Confidence = *upd.Confidence
	}
	doc.UpdatedAt = upd.UpdatedAt
	r.data[documentID] = doc
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
