package parsing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"intake-backend/internal/attachments"
)

type stubExtractor struct {
	res Result
	err error
}

func (s stubExtractor) Extract(ctx context.Context, att attachments.Attachment) (Result, error) {
	return s.res, s.err
}

func seedAttachment(t *testing.T, repo attachments.Repo) attachments.Attachment {
	t.Helper()
	att := attachments.Attachment{
		ID:        "att-1",
		MessageID: "msg-1",
		FileName:  "passport.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 1024,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), att); err != nil {
		t.Fatalf("seed attachment: %v", err)
	}
	return att
}

func waitForTerminal(t *testing.T, svc *Service, jobID string) Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Status(context.Background(), jobID)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if Terminal(job.Status) {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal status")
	return Job{}
}

func TestSubmitUnknownAttachment(t *testing.T) {
	svc := NewService(NewMemoryRepo(), attachments.NewMemoryRepo(), stubExtractor{})

	_, err := svc.Submit(context.Background(), "missing")
	if !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("err = %v, want ErrAttachmentNotFound", err)
	}
}

func TestSubmitCompletesJob(t *testing.T) {
	attRepo := attachments.NewMemoryRepo()
	att := seedAttachment(t, attRepo)
	svc := NewService(NewMemoryRepo(), attRepo, stubExtractor{
		res: Result{Succeeded: true, Confidence: 0.9, CandidateID: "cand-1"},
	})

	job, err := svc.Submit(context.Background(), att.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("submit status = %q, want queued", job.Status)
	}

	done := waitForTerminal(t, svc, job.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed (err %q)", done.Status, done.ErrorMessage)
	}
	if done.CandidateID != "cand-1" {
		t.Fatalf("candidateId = %q, want cand-1", done.CandidateID)
	}
	if done.CompletedAt == nil {
		t.Fatal("completedAt not set")
	}
}

func TestSubmitRecordsOCRFailure(t *testing.T) {
	attRepo := attachments.NewMemoryRepo()
	att := seedAttachment(t, attRepo)
	svc := NewService(NewMemoryRepo(), attRepo, stubExtractor{
		res: Result{Succeeded: false, FailureStage: StageOCR, ErrorMessage: "unreadable scan"},
	})

	job, err := svc.Submit(context.Background(), att.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	done := waitForTerminal(t, svc, job.ID)
	if done.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", done.Status)
	}
	if !strings.HasPrefix(done.ErrorMessage, ErrorCodeOCR) {
		t.Fatalf("errorMessage = %q, want %s prefix", done.ErrorMessage, ErrorCodeOCR)
	}
}

func TestSubmitRejectsMalformedResult(t *testing.T) {
	attRepo := attachments.NewMemoryRepo()
	att := seedAttachment(t, attRepo)
	svc := NewService(NewMemoryRepo(), attRepo, stubExtractor{
		res: Result{Succeeded: true, Confidence: 3.2},
	})

	job, err := svc.Submit(context.Background(), att.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	done := waitForTerminal(t, svc, job.ID)
	if done.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", done.Status)
	}
	if !strings.HasPrefix(done.ErrorMessage, ErrorCodeProcessing) {
		t.Fatalf("errorMessage = %q, want %s prefix", done.ErrorMessage, ErrorCodeProcessing)
	}
}

func TestTerminalJobNeverChanges(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now().UTC()
	job := Job{ID: "job-1", AttachmentID: "att-1", Status: StatusCompleted, CreatedAt: now}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.MarkFailed(context.Background(), job.ID, "late failure", now); !errors.Is(err, ErrJobTerminal) {
		t.Fatalf("err = %v, want ErrJobTerminal", err)
	}
	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCompleted || got.ErrorMessage != "" {
		t.Fatalf("terminal job mutated: %+v", got)
	}
}
