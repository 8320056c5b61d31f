package invoice

import (
	"errors"
	"fmt"
)

// Common invoice processing errors
var (
	// ErrFileNotFound is returned when an input report does not exist or
	// cannot be opened.
	ErrFileNotFound = errors.New("input file not found")

	// ErrMalformedInput is returned when a required column is missing from a
	// report's header row. This is a structural defect of the file, not a
	// per-row problem.
	ErrMalformedInput = errors.New("malformed input file")

	// ErrInvalidInvoiceNumber is returned when an invoice number contains no
	// digit run at all, so no sort key can be derived from it.
	ErrInvalidInvoiceNumber = errors.New("invoice number contains no digits")
)

// ProcessingError wraps errors with additional context about which file and
// operation failed.
type ProcessingError struct {
	// Op is the operation that failed (e.g., "Load", "Merge").
	Op string

	// Err is the underlying error.
	Err error

	// File is the input file being processed (if any).
	File string

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	switch {
	case e.File != "" && e.Details != "":
		return fmt.Sprintf("invoice: %s failed for %s: %s: %v", e.Op, e.File, e.Details, e.Err)
	case e.File != "":
		return fmt.Sprintf("invoice: %s failed for %s: %v", e.Op, e.File, e.Err)
	case e.Details != "":
		return fmt.Sprintf("invoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ProcessingError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewProcessingError creates a new ProcessingError for the given operation.
func NewProcessingError(op string, err error, file, details string) *ProcessingError {
	return &ProcessingError{
		Op:      op,
		Err:     err,
		File:    file,
		Details: details,
	}
}
