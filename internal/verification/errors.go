package verification

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidInput      = errors.New("invalid document input")
	ErrInvalidTransition = errors.New("invalid verification transition")
)
