package attachments

import "time"

// Attachment represents a single uploaded file associated with an inbound message.
// Immutable once created; re-processing creates a new parsing job, never a new row.
type Attachment struct {
	ID         string
	MessageID  string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	CreatedAt  time.Time
}
