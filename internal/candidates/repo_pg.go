package candidates

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new candidate snapshot.
func (r *PGRepo) Create(ctx context.Context, cand Candidate) error {
	const query = `
INSERT INTO candidates (id, name, email, phone, cnic, passport_number, reference_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		cand.ID,
		cand.Name,
		cand.Email,
		cand.Phone,
		cand.CNIC,
		cand.PassportNumber,
		cand.ReferenceText,
		cand.CreatedAt,
	)
	return err
}

// GetByID fetches a candidate by ID.
func (r *PGRepo) GetByID(ctx context.Context, candidateID string) (Candidate, error) {
	const query = `
SELECT id, name, email, phone, cnic, passport_number, reference_text, created_at
FROM candidates
WHERE id = $1
LIMIT 1`
	var cand Candidate
	err := r.DB.QueryRowContext(ctx, query, candidateID).Scan(
		&cand.ID,
		&cand.Name,
		&cand.Email,
		&cand.Phone,
		&cand.CNIC,
		&cand.PassportNumber,
		&cand.ReferenceText,
		&cand.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return cand, nil
}

// List returns all candidate snapshots, oldest first.
func (r *PGRepo) List(ctx context.Context) ([]Candidate, error) {
	const query = `
SELECT id, name, email, phone, cnic, passport_number, reference_text, created_at
FROM candidates
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var cand Candidate
		if err := rows.Scan(
			&cand.ID,
			&cand.Name,
			&cand.Email,
			&cand.Phone,
			&cand.CNIC,
			&cand.PassportNumber,
			&cand.ReferenceText,
			&cand.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
