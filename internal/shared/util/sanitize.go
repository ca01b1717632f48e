package util

import (
	"errors"
	"strings"
)

// SanitizeFileName normalizes a client-supplied document file name into a
// safe path segment for the object store. Traversal sequences are rejected
// rather than stripped.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	cleaned := strings.TrimSpace(name)
	cleaned = strings.ReplaceAll(cleaned, "/", "_")
	cleaned = strings.ReplaceAll(cleaned, "\\", "_")
	if cleaned == "" {
		return "", errors.New("invalid file name")
	}
	return cleaned, nil
}
