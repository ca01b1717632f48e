package verification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. MismatchFields and
// ExtractedIdentity live in JSONB columns; the status guard sits in the
// UPDATE so racing writers resolve in the database.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, candidate_id, file_name, category, detected_category, confidence, verification_status, verification_reason_code, mismatch_fields, extracted_identity, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO candidate_documents (` + documentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	mismatch, identity, err := encodeJSONFields(doc.MismatchFields, doc.ExtractedIdentity)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.CandidateID,
		doc.FileName,
		doc.Category,
		doc.DetectedCategory,
		doc.Confidence,
		doc.Status,
		doc.ReasonCode,
		mismatch,
		identity,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM candidate_documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByCandidate returns a candidate's documents, oldest first.
func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM candidate_documents
WHERE candidate_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// ApplyUpdate performs the guarded status transition.
func (r *PGRepo) ApplyUpdate(ctx context.Context, documentID, fromStatus string, upd Update) error {
	const query = `
UPDATE candidate_documents
SET verification_status = $3,
    verification_reason_code = $4,
    mismatch_fields = $5,
    extracted_identity = $6,
    detected_category = CASE WHEN $7 = '' THEN detected_category ELSE $7 END,
    confidence = COALESCE($8, confidence),
    updated_at = $9
WHERE id = $1 AND verification_status = $2`

	mismatch, identity, err := encodeJSONFields(upd.MismatchFields, upd.ExtractedIdentity)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		documentID,
		fromStatus,
		upd.Status,
		upd.ReasonCode,
		mismatch,
		identity,
		upd.DetectedCategory,
		upd.Confidence,
		upd.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, documentID); err != nil {
		return err
	}
	return ErrInvalidTransition
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var mismatch, identity []byte
	err := row.Scan(
		&doc.ID,
		&doc.CandidateID,
		&doc.FileName,
		&doc.Category,
		&doc.DetectedCategory,
		&doc.Confidence,
		&doc.Status,
		&doc.ReasonCode,
		&mismatch,
		&identity,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if len(mismatch) > 0 {
		if err := json.Unmarshal(mismatch, &doc.MismatchFields); err != nil {
			return Document{}, fmt.Errorf("decode mismatch_fields: %w", err)
		}
	}
	if len(identity) > 0 {
		if err := json.Unmarshal(identity, &doc.ExtractedIdentity); err != nil {
			return Document{}, fmt.Errorf("decode extracted_identity: %w", err)
		}
	}
	if len(doc.MismatchFields) == 0 {
		doc.MismatchFields = nil
	}
	if len(doc.ExtractedIdentity) == 0 {
		doc.ExtractedIdentity = nil
	}
	return doc, nil
}

func encodeJSONFields(mismatchFields []string, identity map[string]string) ([]byte, []byte, error) {
	if mismatchFields == nil {
		mismatchFields = []string{}
	}
	if identity == nil {
		identity = map[string]string{}
	}
	mismatch, err := json.Marshal(mismatchFields)
	if err != nil {
		return nil, nil, err
	}
	ident, err := json.Marshal(identity)
	if err != nil {
		return nil, nil, err
	}
	return mismatch, ident, nil
}

var _ Repo = (*PGRepo)(nil)
