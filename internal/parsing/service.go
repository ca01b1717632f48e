package parsing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"intake-backend/internal/attachments"
	"intake-backend/internal/shared/telemetry"
)

// Service orchestrates the parsing job lifecycle. Submit returns as soon as
// the job row exists; extraction runs in a background goroutine and flips the
// job to a terminal status when it finishes.
type Service struct {
	Repo        Repo
	Attachments attachments.Repo
	Extractor   Extractor

	// now is swappable in tests.
	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, attRepo attachments.Repo, ext Extractor) *Service {
	return &Service{
		Repo:        repo,
		Attachments: attRepo,
		Extractor:   ext,
		now:         time.Now,
	}
}

// Submit creates a queued job for the attachment and starts extraction in
// the background. A missing attachment is rejected before any job exists.
func (s *Service) Submit(ctx context.Context, attachmentID string) (Job, error) {
	att, err := s.Attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, attachments.ErrNotFound) {
			return Job{}, ErrAttachmentNotFound
		}
		return Job{}, err
	}

	job := Job{
		ID:           uuid.NewString(),
		AttachmentID: att.ID,
		Status:       StatusQueued,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}

	telemetry.Info("job.status", map[string]any{
		"job_id":        job.ID,
		"attachment_id": att.ID,
		"status":        job.Status,
	})

	go s.completeAsync(job, att)

	return job, nil
}

// Status returns the current job state. It never mutates the job.
func (s *Service) Status(ctx context.Context, jobID string) (Job, error) {
	return s.Repo.GetByID(ctx, jobID)
}

// completeAsync runs the extraction and records the terminal status. It uses
// a fresh context so an aborted submit request does not strand the job.
func (s *Service) completeAsync(job Job, att attachments.Attachment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.Repo.MarkProcessing(ctx, job.ID, s.now().UTC()); err != nil {
		s.failJob(ctx, job.ID, ErrorCodeProcessing, err)
		return
	}
	telemetry.Info("job.status", map[string]any{
		"job_id": job.ID,
		"status": StatusProcessing,
	})

	res, err := s.Extractor.Extract(ctx, att)
	if err != nil {
		s.failJob(ctx, job.ID, ErrorCodeProcessing, err)
		return
	}
	if err := ValidateResult(res); err != nil {
		s.failJob(ctx, job.ID, ErrorCodeProcessing, err)
		return
	}
	if !res.Succeeded {
		s.failJob(ctx, job.ID, ErrorCode(res), errors.New(res.ErrorMessage))
		return
	}

	if err := s.Repo.MarkCompleted(ctx, job.ID, res.CandidateID, s.now().UTC()); err != nil {
		telemetry.Error("job.complete_failed", map[string]any{
			"job_id": job.ID,
			"err":    err.Error(),
		})
		return
	}
	telemetry.Info("job.status", map[string]any{
		"job_id":     job.ID,
		"status":     StatusCompleted,
		"confidence": res.Confidence,
	})
}

func (s *Service) failJob(ctx context.Context, jobID, code string, cause error) {
	msg := code
	if cause != nil && cause.Error() != "" {
		msg = code + ": " + cause.Error()
	}
	if err := s.Repo.MarkFailed(ctx, jobID, msg, s.now().UTC()); err != nil {
		telemetry.Error("job.fail_failed", map[string]any{
			"job_id": jobID,
			"err":    err.Error(),
		})
		return
	}
	telemetry.Error("job.status", map[string]any{
		"job_id": jobID,
		"status": StatusFailed,
		"code":   code,
	})
}
