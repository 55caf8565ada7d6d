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
	// ErrEmptySnapshot indicates the keyword index has no rows loaded yet.
	ErrEmptySnapshot = errors.New("keyword index empty")

	// ErrNoProvider indicates no completion provider is configured.
	ErrNoProvider = errors.New("no completion provider configured")

	// ErrLowQualityRewrite indicates a tone rewrite failed the quality gate
	// and the original text should be used instead.
	ErrLowQualityRewrite = errors.New("low quality rewrite")
)

// ValidationError represents configuration validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// DataSourceError represents spreadsheet fetch or parse failures.
type DataSourceError struct {
	Source string // logical source name (e.g. "info", "pdf")
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source error (source=%s): %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// NewDataSourceError creates a new data source error.
func NewDataSourceError(source string, err error) *DataSourceError {
	return &DataSourceError{Source: source, Err: err}
}

// CompletionError represents a failure talking to a language model provider.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion error (provider=%s): %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// NewCompletionError creates a new completion error.
func NewCompletionError(provider string, err error) *CompletionError {
	return &CompletionError{Provider: provider, Err: err}
}

// DownloadError represents document download failures with context.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("download error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("download error (url=%s): %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError creates a new download error.
func NewDownloadError(url string, statusCode int, err error) *DownloadError {
	return &DownloadError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}
