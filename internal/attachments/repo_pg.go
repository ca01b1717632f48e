package attachments

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new attachment.
func (r *PGRepo) Create(ctx context.Context, att Attachment) error {
	const query = `
INSERT INTO attachments (id, message_id, file_name, mime_type, size_bytes, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var storageKey sql.NullString
	if att.StorageKey != "" {
		storageKey = sql.NullString{String: att.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		att.ID,
		att.MessageID,
		att.FileName,
		att.MimeType,
		att.SizeBytes,
		storageKey,
		att.CreatedAt,
	)
	return err
}

// GetByID fetches an attachment by ID.
func (r *PGRepo) GetByID(ctx context.Context, attachmentID string) (Attachment, error) {
	const query = `
SELECT id, message_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM attachments
WHERE id = $1
LIMIT 1`
	var att Attachment
	var storageKey sql.NullString
	err := r.DB.QueryRowContext(ctx, query, attachmentID).Scan(
		&att.ID,
		&att.MessageID,
		&att.FileName,
		&att.MimeType,
		&att.SizeBytes,
		&storageKey,
		&att.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attachment{}, ErrNotFound
		}
		return Attachment{}, err
	}
	if storageKey.Valid {
		att.StorageKey = storageKey.String
	}
	return att, nil
}

// ListByMessage lists attachments for a message, oldest first.
func (r *PGRepo) ListByMessage(ctx context.Context, messageID string) ([]Attachment, error) {
	const query = `
SELECT id, message_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM attachments
WHERE message_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var att Attachment
		var storageKey sql.NullString
		if err := rows.Scan(
			&att.ID,
			&att.MessageID,
			&att.FileName,
			&att.MimeType,
			&att.SizeBytes,
			&storageKey,
			&att.CreatedAt,
		); err != nil {
			return nil, err
		}
		if storageKey.Valid {
			att.StorageKey = storageKey.String
		}
		out = append(out, att)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
