package verification

import (
	"context"
	"errors"
	"testing"

	"intake-backend/internal/candidates"
	"intake-backend/internal/parsing"
	"intake-backend/internal/verification/events"
)

type fixture struct {
	svc    *Service
	docs   *MemoryRepo
	events *events.MemoryRepo
}

func newFixture(t *testing.T, engine Engine) fixture {
	t.Helper()
	candRepo := candidates.NewMemoryRepo()
	if err := candRepo.Create(context.Background(), testCandidate); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	docs := NewMemoryRepo()
	evRepo := events.NewMemoryRepo()
	return fixture{
		svc:    NewService(docs, candRepo, events.NewService(evRepo), engine),
		docs:   docs,
		events: evRepo,
	}
}

func (f fixture) createDocument(t *testing.T) Document {
	t.Helper()
	doc, err := f.svc.CreateDocument(context.Background(), testCandidate.ID, "passport.pdf", "passport", "req-1")
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}

func (f fixture) eventsOfType(t *testing.T, documentID, eventType string) []events.Event {
	t.Helper()
	all, err := f.events.ListByDocument(context.Background(), documentID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	var out []events.Event
	for _, ev := range all {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestCreateDocumentStartsPending(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	if doc.Status != StatusPendingAI {
		t.Fatalf("status = %q, want pending_ai", doc.Status)
	}
	if got := f.eventsOfType(t, doc.ID, events.TypeUploadCompleted); len(got) != 1 {
		t.Fatalf("upload events = %d, want 1", len(got))
	}
}

func TestCreateDocumentUnknownCandidate(t *testing.T) {
	f := newFixture(t, Engine{})
	_, err := f.svc.CreateDocument(context.Background(), "missing", "cv.pdf", "", "req-1")
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("err = %v, want ErrCandidateNotFound", err)
	}
}

func TestHandleExtractionLowConfidence(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	got, err := f.svc.HandleExtraction(context.Background(), doc.ID, parsing.Result{
		Succeeded:  true,
		Confidence: 0.5,
		Fields:     map[string]string{"name": "Ahmed Hassan"},
	}, nil, "req-2")
	if err != nil {
		t.Fatalf("handle extraction: %v", err)
	}

	if got.Status != StatusNeedsReview || got.ReasonCode != ReasonLowConfidence {
		t.Fatalf("document = %+v, want needs_review LOW_CONFIDENCE", got)
	}
	transitions := f.eventsOfType(t, doc.ID, events.TypeVerificationCompleted)
	if len(transitions) != 1 {
		t.Fatalf("transition events = %d, want exactly 1", len(transitions))
	}
	if transitions[0].ResultingStatus != StatusNeedsReview {
		t.Fatalf("event resultingStatus = %q, want needs_review", transitions[0].ResultingStatus)
	}
	if transitions[0].TotalProcessingSeconds == nil || *transitions[0].TotalProcessingSeconds < 0 {
		t.Fatalf("totalProcessingSeconds = %v, want elapsed time since upload", transitions[0].TotalProcessingSeconds)
	}
}

func TestHandleExtractionPassportConflict(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	got, err := f.svc.HandleExtraction(context.Background(), doc.ID, parsing.Result{
		Succeeded:  true,
		Confidence: 0.95,
		Fields: map[string]string{
			"name":     "Ahmed Hassan",
			"passport": "XY9999999",
		},
	}, nil, "req-2")
	if err != nil {
		t.Fatalf("handle extraction: %v", err)
	}

	if got.Status != StatusRejectedMismatch || got.ReasonCode != ReasonPassportMismatch {
		t.Fatalf("document = %+v, want rejected_mismatch PASSPORT_MISMATCH", got)
	}
	if len(got.MismatchFields) != 1 || got.MismatchFields[0] != FieldPassport {
		t.Fatalf("mismatchFields = %v, want [passport]", got.MismatchFields)
	}
}

func TestHandleExtractionOnlyFromPending(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	res := parsing.Result{Succeeded: true, Confidence: 0.95, Fields: map[string]string{"name": "Ahmed Hassan"}}
	if _, err := f.svc.HandleExtraction(context.Background(), doc.ID, res, nil, "req-2"); err != nil {
		t.Fatalf("first extraction: %v", err)
	}
	if _, err := f.svc.HandleExtraction(context.Background(), doc.ID, res, nil, "req-3"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second extraction err = %v, want ErrInvalidTransition", err)
	}

	got, err := f.svc.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusVerified {
		t.Fatalf("first verdict was overwritten: %+v", got)
	}
}

func TestReviewApproveClearsMismatch(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	if _, err := f.svc.HandleExtraction(context.Background(), doc.ID, parsing.Result{
		Succeeded:  true,
		Confidence: 0.95,
		Fields:     map[string]string{"passport": "XY9999999"},
	}, nil, "req-2"); err != nil {
		t.Fatalf("handle extraction: %v", err)
	}

	got, err := f.svc.Review(context.Background(), doc.ID, true, "checked with embassy", "req-3")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != StatusVerified || got.ReasonCode != ReasonManualReviewApproved {
		t.Fatalf("document = %+v, want verified MANUAL_REVIEW_APPROVED", got)
	}
	if len(got.MismatchFields) != 0 {
		t.Fatalf("approve must clear mismatchFields, got %v", got.MismatchFields)
	}
	if got := f.eventsOfType(t, doc.ID, events.TypeManualReviewCompleted); len(got) != 1 {
		t.Fatalf("review events = %d, want 1", len(got))
	}
}

func TestReviewVerifiedRejectedWithoutOverride(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	if _, err := f.svc.HandleExtraction(context.Background(), doc.ID, parsing.Result{
		Succeeded:  true,
		Confidence: 0.95,
		Fields:     map[string]string{"name": "Ahmed Hassan"},
	}, nil, "req-2"); err != nil {
		t.Fatalf("handle extraction: %v", err)
	}

	eventsBefore := len(f.eventsOfType(t, doc.ID, events.TypeManualReviewCompleted))
	_, err := f.svc.Review(context.Background(), doc.ID, false, "", "req-3")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	got, getErr := f.svc.Get(context.Background(), doc.ID)
	if getErr != nil {
		t.Fatalf("get: %v", getErr)
	}
	if got.Status != StatusVerified {
		t.Fatalf("status = %q, verified verdict must stand", got.Status)
	}
	if after := len(f.eventsOfType(t, doc.ID, events.TypeManualReviewCompleted)); after != eventsBefore {
		t.Fatal("refused review must not append a transition event")
	}
}

func TestReviewVerifiedAllowedWithOverride(t *testing.T) {
	f := newFixture(t, Engine{AllowVerifiedOverride: true})
	doc := f.createDocument(t)

	if _, err := f.svc.HandleExtraction(context.Background(), doc.ID, parsing.Result{
		Succeeded:  true,
		Confidence: 0.95,
		Fields:     map[string]string{"name": "Ahmed Hassan"},
	}, nil, "req-2"); err != nil {
		t.Fatalf("handle extraction: %v", err)
	}

	got, err := f.svc.Review(context.Background(), doc.ID, false, "identity doubt", "req-3")
	if err != nil {
		t.Fatalf("review with override: %v", err)
	}
	if got.Status != StatusRejectedMismatch || got.ReasonCode != ReasonManualReviewRejected {
		t.Fatalf("document = %+v, want rejected_mismatch MANUAL_REVIEW_REJECTED", got)
	}
}

func TestExtractionFailureMarksDocumentFailed(t *testing.T) {
	f := newFixture(t, Engine{})
	doc := f.createDocument(t)

	got, err := f.svc.HandleExtraction(context.Background(), doc.ID, parsing.Result{
		Succeeded:    false,
		FailureStage: parsing.StageOCR,
		ErrorMessage: "unreadable scan",
	}, nil, "req-2")
	if err != nil {
		t.Fatalf("handle extraction: %v", err)
	}
	if got.Status != StatusFailed || got.ReasonCode != ReasonOCRFailed {
		t.Fatalf("document = %+v, want failed OCR_FAILED", got)
	}
	if scans := f.eventsOfType(t, doc.ID, events.TypeAIScanFailed); len(scans) != 1 {
		t.Fatalf("scan-failed events = %d, want 1", len(scans))
	}
}
