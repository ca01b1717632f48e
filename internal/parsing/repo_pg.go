package parsing

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. The status guard lives in the
// UPDATE itself so two writers racing on the same job cannot both win.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new parsing job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO parsing_jobs (id, attachment_id, status, error_message, candidate_id, created_at, started_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		job.ID,
		job.AttachmentID,
		job.Status,
		nullString(job.ErrorMessage),
		nullString(job.CandidateID),
		job.CreatedAt,
		job.StartedAt,
		job.CompletedAt,
	)
	return err
}

// GetByID fetches a parsing job by ID.
func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	const query = `
SELECT id, attachment_id, status, error_message, candidate_id, created_at, started_at, completed_at
FROM parsing_jobs
WHERE id = $1
LIMIT 1`
	var job Job
	var errMsg, candidateID sql.NullString
	var startedAt, completedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(
		&job.ID,
		&job.AttachmentID,
		&job.Status,
		&errMsg,
		&candidateID,
		&job.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}
	if errMsg.Valid {
		job.ErrorMessage = errMsg.String
	}
	if candidateID.Valid {
		job.CandidateID = candidateID.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	return job, nil
}

// MarkProcessing moves a queued job to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error {
	const query = `
UPDATE parsing_jobs
SET status = $2, started_at = $3
WHERE id = $1 AND status NOT IN ($4, $5)`
	res, err := r.DB.ExecContext(ctx, query, jobID, StatusProcessing, startedAt, StatusCompleted, StatusFailed)
	if err != nil {
		return err
	}
	return r.checkUpdated(ctx, res, jobID)
}

// MarkCompleted moves a job to the terminal completed status.
func (r *PGRepo) MarkCompleted(ctx context.Context, jobID, candidateID string, completedAt time.Time) error {
	const query = `
UPDATE parsing_jobs
SET status = $2, candidate_id = $3, completed_at = $4
WHERE id = $1 AND status NOT IN ($5, $6)`
	res, err := r.DB.ExecContext(ctx, query, jobID, StatusCompleted, nullString(candidateID), completedAt, StatusCompleted, StatusFailed)
	if err != nil {
		return err
	}
	return r.checkUpdated(ctx, res, jobID)
}

// MarkFailed moves a job to the terminal failed status.
func (r *PGRepo) MarkFailed(ctx context.Context, jobID, errorMessage string, completedAt time.Time) error {
	const query = `
UPDATE parsing_jobs
SET status = $2, error_message = $3, completed_at = $4
WHERE id = $1 AND status NOT IN ($5, $6)`
	res, err := r.DB.ExecContext(ctx, query, jobID, StatusFailed, nullString(errorMessage), completedAt, StatusCompleted, StatusFailed)
	if err != nil {
		return err
	}
	return r.checkUpdated(ctx, res, jobID)
}

// checkUpdated distinguishes a missing job from a terminal one when the
// guarded UPDATE matched no rows.
func (r *PGRepo) checkUpdated(ctx context.Context, res sql.Result, jobID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, jobID); err != nil {
		return err
	}
	return ErrJobTerminal
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
