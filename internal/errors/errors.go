// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrArchiveUnavailable indicates the sermon archive could not be fetched.
	ErrArchiveUnavailable = errors.New("sermon archive unavailable")

	// ErrExtractionFailed indicates the LLM instruction extraction failed.
	// Callers recover with the deterministic raw-text fallback.
	ErrExtractionFailed = errors.New("instruction extraction failed")

	// ErrNoProvider indicates no LLM provider is configured.
	ErrNoProvider = errors.New("no LLM provider configured")

	// ErrRateLimitExceeded indicates a per-chat rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")
)

// ExtractionError represents an instruction-extraction failure with context.
// It wraps the underlying provider or decode error.
type ExtractionError struct {
	Provider string // "gemini", "groq", "decode"
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error (provider=%s): %v", e.Provider, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrExtractionFailed so callers can match the whole class.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// NewExtractionError creates a new extraction error.
func NewExtractionError(provider string, err error) *ExtractionError {
	return &ExtractionError{Provider: provider, Err: err}
}

// ArchiveError represents a record-source failure with context.
type ArchiveError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ArchiveError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("archive error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("archive error (url=%s): %v", e.URL, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrArchiveUnavailable so callers can match the whole class.
func (e *ArchiveError) Is(target error) bool {
	return target == ErrArchiveUnavailable
}

// NewArchiveError creates a new archive error.
func NewArchiveError(url string, statusCode int, err error) *ArchiveError {
	return &ArchiveError{URL: url, StatusCode: statusCode, Err: err}
}
