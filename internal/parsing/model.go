package parsing

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is an asynchronous unit of work that extracts structured data from an
// attachment. Status is monotonic: completed and failed are terminal and a
// job never leaves them. Re-processing an attachment creates a new job.
type Job struct {
	ID           string     `json:"id"`
	AttachmentID string     `json:"attachmentId"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CandidateID  string     `json:"candidateId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// Terminal reports whether the status is one a job never leaves.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
