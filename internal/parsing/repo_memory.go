package parsing

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Job
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Job)}
}

// Create stores a new job.
func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[job.ID] = job
	return nil
}

// GetByID returns a job by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

// MarkProcessing moves a queued job to processing.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error {
	return r.update(ctx, jobID, func(job *Job) {
		job.Status = StatusProcessing
		job.StartedAt = &startedAt
	})
}

// MarkCompleted moves a job to the terminal completed status.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, jobID, candidateID string, completedAt time.Time) error {
	return r.update(ctx, jobID, func(job *Job) {
		job.Status = StatusCompleted
		job.CandidateID = candidateID
		job.CompletedAt = &completedAt
	})
}

// MarkFailed moves a job to the terminal failed status.
func (r *MemoryRepo) MarkFailed(ctx context.Context, jobID, errorMessage string, completedAt time.Time) error {
	return r.update(ctx, jobID, func(job *Job) {
		job.Status = StatusFailed
		job.ErrorMessage = errorMessage
		job.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, jobID string, apply func(*Job)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.data[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if Terminal(job.Status) {
		return ErrJobTerminal
	}
	apply(&job)
	r.data[jobID] = job
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
