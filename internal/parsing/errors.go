package parsing

import "errors"

var (
	ErrJobNotFound        = errors.New("parsing job not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrJobTerminal        = errors.New("parsing job already terminal")
	ErrInvalidResult      = errors.New("invalid extraction result")
	ErrPollTimeout        = errors.New("Processing timeout")
)

const (
	ErrorCodeOCR        = "OCR_FAILED"
	ErrorCodeProcessing = "AI_PROCESSING_ERROR"
)
