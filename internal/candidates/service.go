package candidates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"intake-backend/internal/match"
)

// Service contains business logic for candidate snapshots and duplicate checks.
type Service struct {
	Repo Repo
}

// CheckDuplicates runs the matcher for a proposed candidate against the
// current pool snapshot. An empty result means no duplicate was found and the
// caller proceeds with creation; that fail-open behavior is deliberate.
func (s *Service) CheckDuplicates(ctx context.Context, in match.Input) ([]match.Match, error) {
	pool, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]match.Record, 0, len(pool))
	for _, cand := range pool {
		records = append(records, match.Record{
			ID:            cand.ID,
			Name:          cand.Name,
			Email:         cand.Email,
			Phone:         cand.Phone,
			ReferenceText: referenceText(cand),
		})
	}
	return match.FindDuplicates(in, records), nil
}

// Create stores a new candidate snapshot.
func (s *Service) Create(ctx context.Context, cand Candidate) (Candidate, error) {
	if strings.TrimSpace(cand.Name) == "" {
		return Candidate{}, ErrInvalidInput
	}
	if cand.ID == "" {
		cand.ID = uuid.NewString()
	}
	if cand.CreatedAt.IsZero() {
		cand.CreatedAt = time.Now().UTC()
	}
	if err := s.Repo.Create(ctx, cand); err != nil {
		return Candidate{}, err
	}
	return cand, nil
}

// Get returns a candidate by ID.
func (s *Service) Get(ctx context.Context, candidateID string) (Candidate, error) {
	if candidateID == "" {
		return Candidate{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, candidateID)
}

// referenceText is the stored free text searched for passport numbers. The
// candidate's own passport field counts as reference text so a re-submitted
// passport still matches.
func referenceText(cand Candidate) string {
	if cand.PassportNumber == "" {
		return cand.ReferenceText
	}
	if cand.ReferenceText == "" {
		return cand.PassportNumber
	}
	return cand.ReferenceText + " " + cand.PassportNumber
}
