package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving attachment bytes.
// Keys are scoped by the owning message so re-uploads never collide.
type ObjectStore interface {
	Save(ctx context.Context, messageID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
