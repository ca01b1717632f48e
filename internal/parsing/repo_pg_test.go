package parsing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoMarkCompletedGuardsTerminal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	// Guarded UPDATE matches nothing, follow-up SELECT finds a failed job.
	mock.ExpectExec("UPDATE parsing_jobs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{
		"id", "attachment_id", "status", "error_message", "candidate_id", "created_at", "started_at", "completed_at",
	}).AddRow("job-1", "att-1", StatusFailed, "OCR_FAILED: unreadable", nil, now, now, now)
	mock.ExpectQuery("SELECT id, attachment_id").WillReturnRows(rows)

	err = repo.MarkCompleted(context.Background(), "job-1", "cand-1", now)
	if !errors.Is(err, ErrJobTerminal) {
		t.Fatalf("err = %v, want ErrJobTerminal", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGRepoMarkProcessingUpdatesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE parsing_jobs").
		WithArgs("job-1", StatusProcessing, now, StatusCompleted, StatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkProcessing(context.Background(), "job-1", now); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, attachment_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}
