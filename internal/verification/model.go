package verification

import "time"

// Document verification statuses. A document is created pending_ai and
// moves exactly once per applied transition.
const (
	StatusPendingAI        = "pending_ai"
	StatusVerified         = "verified"
	StatusNeedsReview      = "needs_review"
	StatusRejectedMismatch = "rejected_mismatch"
	StatusFailed           = "failed"
)

// Reason codes attached to every verification outcome.
const (
	ReasonVerified             = "VERIFIED"
	ReasonCNICMismatch         = "CNIC_MISMATCH"
	ReasonPassportMismatch     = "PASSPORT_MISMATCH"
	ReasonEmailMismatch        = "EMAIL_MISMATCH"
	ReasonNameMismatch         = "NAME_MISMATCH"
	ReasonIdentityMismatch     = "IDENTITY_MISMATCH"
	ReasonLowConfidence        = "LOW_CONFIDENCE"
	ReasonNoIDFound            = "NO_ID_FOUND"
	ReasonOCRFailed            = "OCR_FAILED"
	ReasonProcessingError      = "AI_PROCESSING_ERROR"
	ReasonManualReviewApproved = "MANUAL_REVIEW_APPROVED"
	ReasonManualReviewRejected = "MANUAL_REVIEW_REJECTED"
)

// Identity field names compared during verification. They double as the
// entries of MismatchFields.
const (
	FieldCNIC     = "cnic"
	FieldPassport = "passport"
	FieldEmail    = "email"
	FieldName     = "name"
)

var reasonMessages = map[string]string{
	ReasonVerified:             "Document identity matches the candidate record.",
	ReasonCNICMismatch:         "CNIC on the document does not match the candidate record.",
	ReasonPassportMismatch:     "Passport number on the document does not match the candidate record.",
	ReasonEmailMismatch:        "Email on the document does not match the candidate record.",
	ReasonNameMismatch:         "Name on the document does not match the candidate record.",
	ReasonIdentityMismatch:     "Multiple identity fields do not match the candidate record.",
	ReasonLowConfidence:        "Extraction confidence is below the verification threshold.",
	ReasonNoIDFound:            "No identity fields could be found in the document.",
	ReasonOCRFailed:            "The document could not be read.",
	ReasonProcessingError:      "Automated processing failed.",
	ReasonManualReviewApproved: "Approved by manual review.",
	ReasonManualReviewRejected: "Rejected by manual review.",
}

// ReasonMessage returns the human-readable message for a reason code.
func ReasonMessage(code string) string {
	if msg, ok := reasonMessages[code]; ok {
		return msg
	}
	return code
}

// Document is a candidate document moving through the verification state
// machine.
type Document struct {
	ID                string            `json:"id"`
	CandidateID       string            `json:"candidateId"`
	FileName          string            `json:"fileName"`
	Category          string            `json:"category,omitempty"`
	DetectedCategory  string            `json:"detectedCategory,omitempty"`
	Confidence        float64           `json:"confidence"`
	Status            string            `json:"verificationStatus"`
	ReasonCode        string            `json:"verificationReasonCode,omitempty"`
	MismatchFields    []string          `json:"mismatchFields,omitempty"`
	ExtractedIdentity map[string]string `json:"extractedIdentity,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ValidStatus reports whether s is a known verification status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingAI, StatusVerified, StatusNeedsReview, StatusRejectedMismatch, StatusFailed:
		return true
	}
	return false
}
