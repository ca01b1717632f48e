package attachments

import "context"

// Repo defines persistence operations for attachments.
type Repo interface {
	Create(ctx context.Context, att Attachment) error
	GetByID(ctx context.Context, attachmentID string) (Attachment, error)
	ListByMessage(ctx context.Context, messageID string) ([]Attachment, error)
}
