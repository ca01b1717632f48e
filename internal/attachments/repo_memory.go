package attachments

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Attachment // attachmentId -> attachment
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Attachment),
	}
}

// Create stores a new attachment.
func (r *MemoryRepo) Create(ctx context.Context, att Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[att.ID] = att
	return nil
}

// GetByID returns an attachment by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, attachmentID string) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	att, ok := r.data[attachmentID]
	if !ok {
		return Attachment{}, ErrNotFound
	}
	return att, nil
}

// ListByMessage returns attachments for a message, oldest first.
func (r *MemoryRepo) ListByMessage(ctx context.Context, messageID string) ([]Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Attachment, 0)
	for _, att := range r.data {
		if att.MessageID == messageID {
			out = append(out, att)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
