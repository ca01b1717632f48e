package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"intake-backend/internal/attachments"
)

// Failure stages reported by extractors. The stage picks the error code
// surfaced downstream: text recognition failures map to OCR_FAILED, anything
// after that maps to AI_PROCESSING_ERROR.
const (
	StageOCR      = "ocr"
	StageAnalysis = "analysis"
)

// Result is the outcome of one extraction attempt. Confidence is the
// extractor's self-reported certainty in [0, 1].
type Result struct {
	Succeeded    bool              `json:"succeeded"`
	Confidence   float64           `json:"confidence"`
	Fields       map[string]string `json:"fields,omitempty"`
	CandidateID  string            `json:"candidateId,omitempty"`
	FailureStage string            `json:"failureStage,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// Extractor turns an attachment into structured identity fields. The real
// implementation calls an external scanning provider; tests plug in fakes.
type Extractor interface {
	Extract(ctx context.Context, att attachments.Attachment) (Result, error)
}

// ValidateResult checks a result at the extractor boundary so malformed
// provider output never reaches the verification path.
func ValidateResult(res Result) error {
	if res.Confidence < 0 || res.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidResult, res.Confidence)
	}
	if !res.Succeeded {
		if res.FailureStage != StageOCR && res.FailureStage != StageAnalysis {
			return fmt.Errorf("%w: unknown failure stage %q", ErrInvalidResult, res.FailureStage)
		}
		return nil
	}
	for key := range res.Fields {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidResult)
		}
	}
	return nil
}

// ErrorCode maps a failed result to the error code recorded on the job.
func ErrorCode(res Result) string {
	if res.FailureStage == StageOCR {
		return ErrorCodeOCR
	}
	return ErrorCodeProcessing
}

// PlaceholderExtractor stands in when no scanning provider is configured.
// Every job it touches fails with a clear message rather than fabricating
// extraction output.
type PlaceholderExtractor struct{}

// Extract implements Extractor.
func (PlaceholderExtractor) Extract(ctx context.Context, att attachments.Attachment) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{}, errors.New("no extraction provider configured")
}

var _ Extractor = (*PlaceholderExtractor)(nil)
