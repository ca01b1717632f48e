package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service validates and records verification events and serves the audit
// read paths.
type Service struct {
	Repo Repo

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// Append validates and stores an event. Append errors propagate to the
// caller so a failed write is never silently dropped.
func (s *Service) Append(ctx context.Context, ev Event) (Event, error) {
	if ev.DocumentID == "" {
		return Event{}, fmt.Errorf("%w: document id is required", ErrInvalidEvent)
	}
	if !validType(ev.EventType) {
		return Event{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, ev.EventType)
	}
	if !validStatus(ev.EventStatus) {
		return Event{}, fmt.Errorf("%w: unknown event status %q", ErrInvalidEvent, ev.EventStatus)
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now().UTC()
	}
	if err := s.Repo.Append(ctx, ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// ListByDocument returns the event history for a document with stats.
func (s *Service) ListByDocument(ctx context.Context, documentID string) ([]Event, Stats, error) {
	evs, err := s.Repo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, Stats{}, err
	}
	return evs, ComputeStats(evs), nil
}

// ListByCandidate returns the event history for a candidate with stats.
func (s *Service) ListByCandidate(ctx context.Context, candidateID string) ([]Event, Stats, error) {
	evs, err := s.Repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, Stats{}, err
	}
	return evs, ComputeStats(evs), nil
}

// ListByRequest returns the event history for a request with stats.
func (s *Service) ListByRequest(ctx context.Context, requestID string) ([]Event, Stats, error) {
	evs, err := s.Repo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, Stats{}, err
	}
	return evs, ComputeStats(evs), nil
}

// Timeline returns a chronological, labeled view for audit screens.
func (s *Service) Timeline(ctx context.Context, candidateID, documentID string, limit int) ([]TimelineEntry, error) {
	evs, err := s.Repo.ListTimeline(ctx, candidateID, documentID, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]TimelineEntry, 0, len(evs))
	for _, ev := range evs {
		entries = append(entries, TimelineEntry{Event: ev, Label: Label(ev.EventType)})
	}
	return entries, nil
}

// ComputeStats tallies event statuses.
func ComputeStats(evs []Event) Stats {
	st := Stats{Total: len(evs)}
	for _, ev := range evs {
		switch ev.EventStatus {
		case StatusSuccess:
			st.Success++
		case StatusFailure:
			st.Failure++
		case StatusPending:
			st.Pending++
		}
	}
	return st
}
