package attachments

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"intake-backend/internal/shared/storage/object"
)

// Service contains business logic for attachments.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload saves the file to object storage and records the attachment.
func (s *Service) Upload(ctx context.Context, messageID, fileName string, r io.Reader) (Attachment, error) {
	if messageID == "" || fileName == "" {
		return Attachment{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, messageID, fileName, r)
	if err != nil {
		return Attachment{}, err
	}

	att := Attachment{
		ID:         uuid.NewString(),
		MessageID:  messageID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, att); err != nil {
		return Attachment{}, err
	}

	return att, nil
}

// Get returns an attachment by ID.
func (s *Service) Get(ctx context.Context, attachmentID string) (Attachment, error) {
	if attachmentID == "" {
		return Attachment{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, attachmentID)
}
