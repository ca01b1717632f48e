package verification

import (
	"strings"

	"intake-backend/internal/candidates"
	"intake-backend/internal/match"
	"intake-backend/internal/parsing"
)

// DefaultConfidenceThreshold is the minimum extraction confidence for an
// automatic verdict. Below it a human decides.
const DefaultConfidenceThreshold = 0.70

// nameAgreementMin is the name similarity above which two names are
// treated as the same person.
const nameAgreementMin = 0.8

// Decision is the outcome of evaluating one transition.
type Decision struct {
	Status         string
	ReasonCode     string
	MismatchFields []string
}

// Engine holds the verification policy. The zero value uses the default
// threshold and keeps manual override of verified documents off.
type Engine struct {
	// ConfidenceThreshold overrides DefaultConfidenceThreshold when > 0.
	ConfidenceThreshold float64
	// AllowVerifiedOverride permits manual review to reopen a verified
	// document. Off by default: an automatic verdict stands.
	AllowVerifiedOverride bool
}

func (e Engine) threshold() float64 {
	if e.ConfidenceThreshold > 0 {
		return e.ConfidenceThreshold
	}
	return DefaultConfidenceThreshold
}

// Evaluate maps an extraction result onto the document's next status.
// Precedence: extraction failure, then no identity found, then field
// comparison, then confidence. A conflicting field rejects the document
// outright; low confidence only demotes results that otherwise agree.
func (e Engine) Evaluate(cand candidates.Candidate, res parsing.Result) Decision {
	if !res.Succeeded {
		code := ReasonProcessingError
		if res.FailureStage == parsing.StageOCR {
			code = ReasonOCRFailed
		}
		return Decision{Status: StatusFailed, ReasonCode: code}
	}

	identity := extractIdentity(res.Fields)
	if len(identity) == 0 {
		return Decision{Status: StatusNeedsReview, ReasonCode: ReasonNoIDFound}
	}

	mismatches := compareIdentity(cand, identity)
	switch len(mismatches) {
	case 0:
		if res.Confidence < e.threshold() {
			return Decision{Status: StatusNeedsReview, ReasonCode: ReasonLowConfidence}
		}
		return Decision{Status: StatusVerified, ReasonCode: ReasonVerified}
	case 1:
		return Decision{
			Status:         StatusRejectedMismatch,
			ReasonCode:     mismatchReason(mismatches[0]),
			MismatchFields: mismatches,
		}
	default:
		return Decision{
			Status:         StatusRejectedMismatch,
			ReasonCode:     ReasonIdentityMismatch,
			MismatchFields: mismatches,
		}
	}
}

// Review maps a manual decision onto the document's next status. The
// current status gates whether review is allowed at all.
func (e Engine) Review(currentStatus string, approve bool) (Decision, error) {
	switch currentStatus {
	case StatusNeedsReview, StatusRejectedMismatch, StatusFailed:
	case StatusVerified:
		if !e.AllowVerifiedOverride {
			return Decision{}, ErrInvalidTransition
		}
	default:
		return Decision{}, ErrInvalidTransition
	}

	if approve {
		return Decision{Status: StatusVerified, ReasonCode: ReasonManualReviewApproved}, nil
	}
	return Decision{Status: StatusRejectedMismatch, ReasonCode: ReasonManualReviewRejected}, nil
}

// extractIdentity keeps only the comparable identity fields, trimmed.
func extractIdentity(fields map[string]string) map[string]string {
	out := make(map[string]string)
	for _, key := range []string{FieldCNIC, FieldPassport, FieldEmail, FieldName} {
		if v := strings.TrimSpace(fields[key]); v != "" {
			out[key] = v
		}
	}
	return out
}

// compareIdentity returns the identity fields that disagree with the
// candidate record, in a fixed order. A field missing on either side is
// not a mismatch.
func compareIdentity(cand candidates.Candidate, identity map[string]string) []string {
	var mismatches []string
	check := func(field, extracted, recorded string, agree func(a, b string) bool) {
		if extracted == "" || strings.TrimSpace(recorded) == "" {
			return
		}
		if !agree(extracted, recorded) {
			mismatches = append(mismatches, field)
		}
	}

	check(FieldCNIC, identity[FieldCNIC], cand.CNIC, idNumbersAgree)
	check(FieldPassport, identity[FieldPassport], cand.PassportNumber, idNumbersAgree)
	check(FieldEmail, identity[FieldEmail], cand.Email, strings.EqualFold)
	check(FieldName, identity[FieldName], cand.Name, namesAgree)
	return mismatches
}

// idNumbersAgree compares identity numbers ignoring case and separators, so
// "AB-123 456" matches "ab123456".
func idNumbersAgree(a, b string) bool {
	return strings.EqualFold(alphanumeric(a), alphanumeric(b))
}

func namesAgree(a, b string) bool {
	return match.NameSimilarity(a, b) > nameAgreementMin
}

func alphanumeric(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func mismatchReason(field string) string {
	switch field {
	case FieldCNIC:
		return ReasonCNICMismatch
	case FieldPassport:
		return ReasonPassportMismatch
	case FieldEmail:
		return ReasonEmailMismatch
	case FieldName:
		return ReasonNameMismatch
	}
	return ReasonIdentityMismatch
}
