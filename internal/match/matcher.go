package match

import (
	"sort"
	"strings"
)

// Calibrated scoring weights. Changing any of these is a product policy
// decision, not a refactor; stored confidences were produced with them.
const (
	EmailWeight       = 40.0
	PhoneWeight       = 35.0
	PassportWeight    = 30.0
	NameWeight        = 25.0
	NameSimilarityMin = 0.8
	MaxConfidence     = 100.0
)

// MatchType classifies how a candidate matched.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchSimilar MatchType = "similar"
)

// Field labels reported in MatchFields.
const (
	FieldEmail    = "Email"
	FieldPhone    = "Phone"
	FieldPassport = "Passport Number"
	FieldName     = "Name"
)

// Input is the proposed new candidate record.
type Input struct {
	Name           string
	Email          string
	Phone          string
	PassportNumber string
}

// Record is the matching-relevant snapshot of an existing candidate.
// ReferenceText carries any stored free text (CV body, notes) searched for
// the passport number.
type Record struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	ReferenceText string
}

// Match is one ranked duplicate candidate. Derived, never persisted.
type Match struct {
	CandidateID string    `json:"candidateId"`
	MatchType   MatchType `json:"matchType"`
	MatchFields []string  `json:"matchFields"`
	Confidence  float64   `json:"confidence"`
}

// FindDuplicates compares the proposed candidate against the existing pool
// and returns ranked matches, highest confidence first. Candidates with no
// matched fields are excluded; an empty result means "no duplicate" and the
// caller proceeds without any confirmation gate. Malformed or missing input
// fields never error, they just contribute nothing.
func FindDuplicates(in Input, existing []Record) []Match {
	matches := make([]Match, 0)

	for _, rec := range existing {
		var fields []string
		matchType := MatchSimilar
		confidence := 0.0

		if in.Email != "" && strings.EqualFold(rec.Email, in.Email) {
			fields = append(fields, FieldEmail)
			confidence += EmailWeight
			matchType = MatchExact
		}

		if in.Phone != "" && digitsOnly(rec.Phone) == digitsOnly(in.Phone) && digitsOnly(in.Phone) != "" {
			fields = append(fields, FieldPhone)
			confidence += PhoneWeight
			matchType = MatchExact
		}

		if in.PassportNumber != "" && strings.Contains(rec.ReferenceText, in.PassportNumber) {
			fields = append(fields, FieldPassport)
			confidence += PassportWeight
			matchType = MatchExact
		}

		if sim := NameSimilarity(in.Name, rec.Name); sim > NameSimilarityMin {
			fields = append(fields, FieldName)
			confidence += sim * NameWeight
		}

		if len(fields) == 0 {
			continue
		}
		if confidence > MaxConfidence {
			confidence = MaxConfidence
		}
		matches = append(matches, Match{
			CandidateID: rec.ID,
			MatchType:   matchType,
			MatchFields: fields,
			Confidence:  confidence,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// NameSimilarity returns a 0..1 similarity for two names, computed as
// 1 - distance/maxLen over lower-cased, trimmed runes. Identical normalized
// names score 1.0.
func NameSimilarity(a, b string) float64 {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))

	if na == nb {
		if na == "" {
			return 0
		}
		return 1.0
	}

	ra := []rune(na)
	rb := []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}
	return 1.0 - float64(Levenshtein(na, nb))/float64(maxLen)
}

// Levenshtein computes the edit distance between two strings over Unicode
// code points, with unit cost for insert, delete and substitute.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j-1]+cost, // substitute
				curr[j-1]+1,    // insert
				prev[j]+1,      // delete
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
