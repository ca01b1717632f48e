package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAppendValidates(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	cases := []struct {
		name string
		ev   Event
	}{
		{"missing document", Event{EventType: TypeUploadCompleted, EventStatus: StatusSuccess}},
		{"unknown type", Event{DocumentID: "doc-1", EventType: "uploaded", EventStatus: StatusSuccess}},
		{"unknown status", Event{DocumentID: "doc-1", EventType: TypeUploadCompleted, EventStatus: "ok"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Append(context.Background(), tc.ev); !errors.Is(err, ErrInvalidEvent) {
				t.Fatalf("err = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestAppendFillsDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	ev, err := svc.Append(context.Background(), Event{
		DocumentID:  "doc-1",
		EventType:   TypeVerificationCompleted,
		EventStatus: StatusSuccess,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ev.ID == "" {
		t.Fatal("expected generated id")
	}
	if ev.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
}

func TestTimelineOrderAndLabels(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	seed := []Event{
		{ID: "e2", DocumentID: "doc-1", CandidateID: "cand-1", EventType: TypeAIScanCompleted, EventStatus: StatusSuccess, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "e1", DocumentID: "doc-1", CandidateID: "cand-1", EventType: TypeUploadCompleted, EventStatus: StatusSuccess, CreatedAt: base},
		{ID: "e3", DocumentID: "doc-2", CandidateID: "cand-1", EventType: TypeUploadCompleted, EventStatus: StatusSuccess, CreatedAt: base.Add(time.Minute)},
	}
	for _, ev := range seed {
		if err := repo.Append(context.Background(), ev); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	entries, err := svc.Timeline(context.Background(), "cand-1", "", 0)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].ID != "e1" || entries[1].ID != "e3" || entries[2].ID != "e2" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if entries[0].Label != "Upload completed" {
		t.Fatalf("label = %q", entries[0].Label)
	}

	scoped, err := svc.Timeline(context.Background(), "cand-1", "doc-1", 1)
	if err != nil {
		t.Fatalf("timeline scoped: %v", err)
	}
	if len(scoped) != 1 || scoped[0].ID != "e1" {
		t.Fatalf("scoped = %+v", scoped)
	}
}

func TestListByRequest(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	seed := []Event{
		{ID: "e2", DocumentID: "doc-1", RequestID: "req-1", EventType: TypeVerificationCompleted, EventStatus: StatusFailure, CreatedAt: base.Add(time.Minute)},
		{ID: "e1", DocumentID: "doc-1", RequestID: "req-1", EventType: TypeAIScanCompleted, EventStatus: StatusSuccess, CreatedAt: base},
		{ID: "e3", DocumentID: "doc-1", RequestID: "req-2", EventType: TypeManualReviewCompleted, EventStatus: StatusSuccess, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, ev := range seed {
		if err := repo.Append(context.Background(), ev); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	evs, stats, err := svc.ListByRequest(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("list by request: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("len = %d, want 2", len(evs))
	}
	if evs[0].ID != "e1" || evs[1].ID != "e2" {
		t.Fatalf("unexpected order: %s %s", evs[0].ID, evs[1].ID)
	}
	if stats.Success != 1 || stats.Failure != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestComputeStats(t *testing.T) {
	evs := []Event{
		{EventStatus: StatusSuccess},
		{EventStatus: StatusSuccess},
		{EventStatus: StatusFailure},
		{EventStatus: StatusPending},
	}
	st := ComputeStats(evs)
	if st.Total != 4 || st.Success != 2 || st.Failure != 1 || st.Pending != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
