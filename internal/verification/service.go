package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"intake-backend/internal/candidates"
	"intake-backend/internal/parsing"
	"intake-backend/internal/shared/telemetry"
	"intake-backend/internal/verification/events"
)

// Service drives the document verification state machine. Every transition
// appends its ledger event before the document row changes, so the log
// never claims less than the state does.
type Service struct {
	Repo       Repo
	Candidates candidates.Repo
	Events     *events.Service
	Engine     Engine

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, candRepo candidates.Repo, evs *events.Service, engine Engine) *Service {
	return &Service{
		Repo:       repo,
		Candidates: candRepo,
		Events:     evs,
		Engine:     engine,
		now:        time.Now,
	}
}

// CreateDocument registers an uploaded document as pending_ai for a known
// candidate.
func (s *Service) CreateDocument(ctx context.Context, candidateID, fileName, category, requestID string) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, ErrInvalidInput
	}
	if _, err := s.Candidates.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return Document{}, ErrCandidateNotFound
		}
		return Document{}, err
	}

	now := s.now().UTC()
	doc := Document{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		FileName:    fileName,
		Category:    category,
		Status:      StatusPendingAI,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.Events.Append(ctx, events.Event{
		DocumentID:      doc.ID,
		CandidateID:     candidateID,
		RequestID:       requestID,
		EventType:       events.TypeUploadCompleted,
		EventStatus:     events.StatusSuccess,
		ResultingStatus: StatusPendingAI,
		Details:         fileName,
	}); err != nil {
		return Document{}, err
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	telemetry.Info("document.verification", map[string]any{
		"document_id":  doc.ID,
		"candidate_id": candidateID,
		"status":       StatusPendingAI,
	})
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, documentID)
}

// ListByCandidate returns a candidate's documents, oldest first.
func (s *Service) ListByCandidate(ctx context.Context, candidateID string) ([]Document, error) {
	if _, err := s.Candidates.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return s.Repo.ListByCandidate(ctx, candidateID)
}

// HandleExtraction applies an extraction result to a pending_ai document.
// Any other current status is a refused transition: the first writer won
// and this result is discarded.
func (s *Service) HandleExtraction(ctx context.Context, documentID string, res parsing.Result, scanDuration *float64, requestID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.Status != StatusPendingAI {
		return Document{}, ErrInvalidTransition
	}
	cand, err := s.Candidates.GetByID(ctx, doc.CandidateID)
	if err != nil {
		return Document{}, err
	}

	decision := s.Engine.Evaluate(cand, res)

	scanType, scanStatus := events.TypeAIScanCompleted, events.StatusSuccess
	if !res.Succeeded {
		scanType, scanStatus = events.TypeAIScanFailed, events.StatusFailure
	}
	if _, err := s.Events.Append(ctx, events.Event{
		DocumentID:          doc.ID,
		CandidateID:         doc.CandidateID,
		RequestID:           requestID,
		EventType:           scanType,
		EventStatus:         scanStatus,
		Confidence:          &res.Confidence,
		ScanDurationSeconds: scanDuration,
		Details:             res.ErrorMessage,
	}); err != nil {
		return Document{}, err
	}

	upd := Update{
		Status:            decision.Status,
		ReasonCode:        decision.ReasonCode,
		MismatchFields:    decision.MismatchFields,
		ExtractedIdentity: extractIdentity(res.Fields),
		DetectedCategory:  strings.TrimSpace(res.Fields["category"]),
		Confidence:        &res.Confidence,
		UpdatedAt:         s.now().UTC(),
	}
	if err := s.transition(ctx, doc, StatusPendingAI, upd, events.TypeVerificationCompleted, requestID); err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, documentID)
}

// Review applies a manual decision. Reject keeps the recorded mismatch
// fields; approve clears them.
func (s *Service) Review(ctx context.Context, documentID string, approve bool, notes, requestID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	decision, err := s.Engine.Review(doc.Status, approve)
	if err != nil {
		return Document{}, err
	}

	if _, err := s.Events.Append(ctx, events.Event{
		DocumentID:  doc.ID,
		CandidateID: doc.CandidateID,
		RequestID:   requestID,
		EventType:   events.TypeManualReviewRequested,
		EventStatus: events.StatusPending,
		Details:     notes,
	}); err != nil {
		return Document{}, err
	}

	upd := Update{
		Status:            decision.Status,
		ReasonCode:        decision.ReasonCode,
		ExtractedIdentity: doc.ExtractedIdentity,
		UpdatedAt:         s.now().UTC(),
	}
	if !approve {
		upd.MismatchFields = doc.MismatchFields
	}
	if err := s.transition(ctx, doc, doc.Status, upd, events.TypeManualReviewCompleted, requestID); err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, documentID)
}

// transition appends the single transition event, then flips the document
// with the status guard. A failed append aborts the flip; a lost race is
// recorded as an error event and surfaced as ErrInvalidTransition.
func (s *Service) transition(ctx context.Context, doc Document, fromStatus string, upd Update, eventType, requestID string) error {
	eventStatus := events.StatusSuccess
	switch upd.Status {
	case StatusNeedsReview:
		eventStatus = events.StatusPending
	case StatusFailed, StatusRejectedMismatch:
		eventStatus = events.StatusFailure
	}

	totalSeconds := upd.UpdatedAt.Sub(doc.CreatedAt).Seconds()
	if _, err := s.Events.Append(ctx, events.Event{
		DocumentID:             doc.ID,
		CandidateID:            doc.CandidateID,
		RequestID:              requestID,
		EventType:              eventType,
		EventStatus:            eventStatus,
		ReasonCode:             upd.ReasonCode,
		ResultingStatus:        upd.Status,
		Confidence:             upd.Confidence,
		TotalProcessingSeconds: &totalSeconds,
		Details:                ReasonMessage(upd.ReasonCode),
	}); err != nil {
		telemetry.Error("document.event_append_failed", map[string]any{
			"document_id": doc.ID,
			"err":         err.Error(),
		})
		return err
	}

	if err := s.Repo.ApplyUpdate(ctx, doc.ID, fromStatus, upd); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			if _, evErr := s.Events.Append(ctx, events.Event{
				DocumentID:  doc.ID,
				CandidateID: doc.CandidateID,
				RequestID:   requestID,
				EventType:   events.TypeError,
				EventStatus: events.StatusFailure,
				Details:     "concurrent update, no status change applied",
			}); evErr != nil {
				telemetry.Error("document.event_append_failed", map[string]any{
					"document_id": doc.ID,
					"err":         evErr.Error(),
				})
			}
		}
		return err
	}

	telemetry.Info("document.verification", map[string]any{
		"document_id":       doc.ID,
		"candidate_id":      doc.CandidateID,
		"status_transition": fromStatus + " -> " + upd.Status,
		"reason_code":       upd.ReasonCode,
	})
	return nil
}
