package events

import "time"

// Event types recorded in the verification ledger.
const (
	TypeUploadStarted         = "upload_started"
	TypeUploadCompleted       = "upload_completed"
	TypeAIScanStarted         = "ai_scan_started"
	TypeAIScanCompleted       = "ai_scan_completed"
	TypeAIScanFailed          = "ai_scan_failed"
	TypeVerificationStarted   = "verification_started"
	TypeVerificationCompleted = "verification_completed"
	TypeStatusChanged         = "verification_status_changed"
	TypeManualReviewRequested = "manual_review_requested"
	TypeManualReviewCompleted = "manual_review_completed"
	TypeError                 = "error"
)

// Event statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusPending = "pending"
)

// Event is one append-only entry in the verification ledger. Events are
// never updated or deleted; corrections are new events.
type Event struct {
	ID                     string    `json:"id"`
	DocumentID             string    `json:"documentId"`
	CandidateID            string    `json:"candidateId,omitempty"`
	RequestID              string    `json:"requestId,omitempty"`
	EventType              string    `json:"eventType"`
	EventStatus            string    `json:"eventStatus"`
	ReasonCode             string    `json:"reasonCode,omitempty"`
	ResultingStatus        string    `json:"resultingStatus,omitempty"`
	Confidence             *float64  `json:"confidence,omitempty"`
	ScanDurationSeconds    *float64  `json:"scanDurationSeconds,omitempty"`
	TotalProcessingSeconds *float64  `json:"totalProcessingSeconds,omitempty"`
	Details                string    `json:"details,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
}

// TimelineEntry is an event enriched with a display label for audit views.
type TimelineEntry struct {
	Event
	Label string `json:"label"`
}

// Stats summarizes a slice of events. Computed on read, never stored.
type Stats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failure int `json:"failure"`
	Pending int `json:"pending"`
}

var labels = map[string]string{
	TypeUploadStarted:         "Upload started",
	TypeUploadCompleted:       "Upload completed",
	TypeAIScanStarted:         "AI scan started",
	TypeAIScanCompleted:       "AI scan completed",
	TypeAIScanFailed:          "AI scan failed",
	TypeVerificationStarted:   "Verification started",
	TypeVerificationCompleted: "Verification completed",
	TypeStatusChanged:         "Verification status changed",
	TypeManualReviewRequested: "Manual review requested",
	TypeManualReviewCompleted: "Manual review completed",
	TypeError:                 "Error",
}

// Label returns the display label for an event type.
func Label(eventType string) string {
	if l, ok := labels[eventType]; ok {
		return l
	}
	return eventType
}

func validType(t string) bool {
	_, ok := labels[t]
	return ok
}

func validStatus(s string) bool {
	return s == StatusSuccess || s == StatusFailure || s == StatusPending
}
