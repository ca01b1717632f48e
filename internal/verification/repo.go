package verification

import (
	"context"
	"time"
)

// Update is one verification transition applied to a document. MismatchFields
// and ExtractedIdentity replace the stored values; Confidence is only written
// when non-nil.
type Update struct {
	Status            string
	ReasonCode        string
	MismatchFields    []string
	ExtractedIdentity map[string]string
	DetectedCategory  string
	Confidence        *float64
	UpdatedAt         time.Time
}

// Repo defines persistence for candidate documents. ApplyUpdate is a
// compare-and-swap on the current status: when the stored status no longer
// equals fromStatus the update is refused with ErrInvalidTransition, so of
// two racing writers exactly one wins.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Document, error)
	ApplyUpdate(ctx context.Context, documentID, fromStatus string, upd Update) error
}
