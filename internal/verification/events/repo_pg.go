package events

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const eventColumns = `id, document_id, candidate_id, request_id, event_type, event_status, reason_code, resulting_status, confidence, scan_duration_seconds, total_processing_seconds, details, created_at`

// Append inserts a new event row.
func (r *PGRepo) Append(ctx context.Context, ev Event) error {
	const query = `
INSERT INTO verification_events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	var candidateID sql.NullString
	if ev.CandidateID != "" {
		candidateID = sql.NullString{String: ev.CandidateID, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		ev.ID,
		ev.DocumentID,
		candidateID,
		ev.RequestID,
		ev.EventType,
		ev.EventStatus,
		ev.ReasonCode,
		ev.ResultingStatus,
		ev.Confidence,
		ev.ScanDurationSeconds,
		ev.TotalProcessingSeconds,
		ev.Details,
		ev.CreatedAt,
	)
	return err
}

// ListByDocument returns events for a document, oldest first.
func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM verification_events
WHERE document_id = $1
ORDER BY created_at ASC`
	return r.list(ctx, query, documentID)
}

// ListByCandidate returns events for a candidate, oldest first.
func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM verification_events
WHERE candidate_id = $1
ORDER BY created_at ASC`
	return r.list(ctx, query, candidateID)
}

// ListByRequest returns events for a request, oldest first.
func (r *PGRepo) ListByRequest(ctx context.Context, requestID string) ([]Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM verification_events
WHERE request_id = $1
ORDER BY created_at ASC`
	return r.list(ctx, query, requestID)
}

// ListTimeline returns chronological events scoped by candidate and/or
// document. limit <= 0 means no limit.
func (r *PGRepo) ListTimeline(ctx context.Context, candidateID, documentID string, limit int) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	if candidateID != "" {
		args = append(args, candidateID)
		where = append(where, fmt.Sprintf("candidate_id = $%d", len(args)))
	}
	if documentID != "" {
		args = append(args, documentID)
		where = append(where, fmt.Sprintf("document_id = $%d", len(args)))
	}

	query := `
SELECT ` + eventColumns + `
FROM verification_events`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY created_at ASC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf("\nLIMIT $%d", len(args))
	}

	return r.list(ctx, query, args...)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var candidateID sql.NullString
		var confidence, scanDur, totalDur sql.NullFloat64
		if err := rows.Scan(
			&ev.ID,
			&ev.DocumentID,
			&candidateID,
			&ev.RequestID,
			&ev.EventType,
			&ev.EventStatus,
			&ev.ReasonCode,
			&ev.ResultingStatus,
			&confidence,
			&scanDur,
			&totalDur,
			&ev.Details,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		if candidateID.Valid {
			ev.CandidateID = candidateID.String
		}
		if confidence.Valid {
			v := confidence.Float64
			ev.Confidence = &v
		}
		if scanDur.Valid {
			v := scanDur.Float64
			ev.ScanDurationSeconds = &v
		}
		if totalDur.Valid {
			v := totalDur.Float64
			ev.TotalProcessingSeconds = &v
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
