package match

import (
	"math"
	"testing"
)

func TestLevenshteinBasics(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"ahmed", "ahmad", 1},
		{"résumé", "resume", 2},
	}
	for _, tc := range cases {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got, rev := Levenshtein(tc.a, tc.b), Levenshtein(tc.b, tc.a); got != rev {
			t.Errorf("Levenshtein not symmetric for %q/%q: %d vs %d", tc.a, tc.b, got, rev)
		}
	}
}

func TestLevenshteinIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "Ahmed Hassan", "محمد", "O'Brien"} {
		if got := Levenshtein(s, s); got != 0 {
			t.Errorf("Levenshtein(%q, %q) = %d, want 0", s, s, got)
		}
	}
}

func TestNameSimilarity(t *testing.T) {
	if got := NameSimilarity("Ahmed Hassan", "ahmed hassan  "); got != 1.0 {
		t.Fatalf("normalized-equal names: got %v, want 1.0", got)
	}
	a, b := NameSimilarity("Ahmed Hassan", "Ahmad Hasan"), NameSimilarity("Ahmad Hasan", "Ahmed Hassan")
	if a != b {
		t.Fatalf("NameSimilarity not symmetric: %v vs %v", a, b)
	}
	if a <= 0.8 {
		t.Fatalf("expected similarity > 0.8 for Ahmed Hassan/Ahmad Hasan, got %v", a)
	}
	if got := NameSimilarity("", ""); got != 0 {
		t.Fatalf("empty names: got %v, want 0", got)
	}
}

func TestFindDuplicatesEmailExact(t *testing.T) {
	in := Input{Email: "a@x.com", Phone: "+92-300-1111111"}
	pool := []Record{{ID: "c1", Name: "Someone Else", Email: "A@X.COM", Phone: "0999"}}

	got := FindDuplicates(in, pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	m := got[0]
	if m.CandidateID != "c1" {
		t.Fatalf("expected candidate c1, got %s", m.CandidateID)
	}
	if !containsField(m.MatchFields, FieldEmail) {
		t.Fatalf("expected Email in matchFields, got %v", m.MatchFields)
	}
	if m.Confidence < EmailWeight {
		t.Fatalf("expected confidence >= %v, got %v", EmailWeight, m.Confidence)
	}
	if m.MatchType != MatchExact {
		t.Fatalf("expected exact match, got %s", m.MatchType)
	}
}

func TestFindDuplicatesPhoneNormalization(t *testing.T) {
	in := Input{Phone: "+92 (300) 111-1111"}
	pool := []Record{{ID: "c1", Phone: "923001111111"}}

	got := FindDuplicates(in, pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Confidence != PhoneWeight {
		t.Fatalf("expected confidence %v, got %v", PhoneWeight, got[0].Confidence)
	}
	if got[0].MatchType != MatchExact {
		t.Fatalf("expected exact match for phone, got %s", got[0].MatchType)
	}
}

func TestFindDuplicatesNameOnlyIsSimilar(t *testing.T) {
	in := Input{Name: "Ahmed Hassan"}
	pool := []Record{{ID: "c1", Name: "Ahmad Hasan"}}

	got := FindDuplicates(in, pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	m := got[0]
	if m.MatchType != MatchSimilar {
		t.Fatalf("name-only match must be similar, got %s", m.MatchType)
	}
	if !containsField(m.MatchFields, FieldName) {
		t.Fatalf("expected Name in matchFields, got %v", m.MatchFields)
	}
	sim := NameSimilarity(in.Name, pool[0].Name)
	if math.Abs(m.Confidence-sim*NameWeight) > 1e-9 {
		t.Fatalf("expected confidence %v, got %v", sim*NameWeight, m.Confidence)
	}
}

func TestFindDuplicatesPassportInReferenceText(t *testing.T) {
	in := Input{PassportNumber: "AB1234567"}
	pool := []Record{{ID: "c1", ReferenceText: "passport no AB1234567 issued 2019"}}

	got := FindDuplicates(in, pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if !containsField(got[0].MatchFields, FieldPassport) {
		t.Fatalf("expected Passport Number in matchFields, got %v", got[0].MatchFields)
	}
	if got[0].MatchType != MatchExact {
		t.Fatalf("expected exact match, got %s", got[0].MatchType)
	}
}

func TestFindDuplicatesConfidenceCapAndOrdering(t *testing.T) {
	in := Input{
		Name:           "Ahmed Hassan",
		Email:          "a@x.com",
		Phone:          "+92-300-1111111",
		PassportNumber: "AB1234567",
	}
	pool := []Record{
		{ID: "weak", Name: "Ahmad Hasan"},
		{ID: "strong", Name: "Ahmed Hassan", Email: "a@x.com", Phone: "923001111111", ReferenceText: "AB1234567"},
	}

	got := FindDuplicates(in, pool)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].CandidateID != "strong" {
		t.Fatalf("expected strongest match first, got %s", got[0].CandidateID)
	}
	if got[0].Confidence != MaxConfidence {
		t.Fatalf("expected capped confidence %v, got %v", MaxConfidence, got[0].Confidence)
	}
	for _, m := range got {
		if m.Confidence < 0 || m.Confidence > MaxConfidence {
			t.Fatalf("confidence out of bounds: %v", m.Confidence)
		}
	}
}

func TestFindDuplicatesNoMatchesIsEmpty(t *testing.T) {
	in := Input{Name: "Completely Different", Email: "x@y.com", Phone: "111"}
	pool := []Record{{ID: "c1", Name: "Zulfiqar", Email: "z@q.com", Phone: "999"}}

	got := FindDuplicates(in, pool)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFindDuplicatesMissingInputFields(t *testing.T) {
	// Empty input must not error and must not match anything spuriously.
	got := FindDuplicates(Input{}, []Record{{ID: "c1", Name: "Ahmed", Email: "", Phone: ""}})
	if len(got) != 0 {
		t.Fatalf("expected no matches for empty input, got %v", got)
	}
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
