package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/override-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Quiz specific errors
	ErrQuizNotFound = errors.New("quiz not found")

	// Import specific errors
	ErrInvalidImportMode     = errors.New("import mode must be user or group")
	ErrUnsupportedFileType   = errors.New("unsupported import file type")
	ErrEmptyImportFile       = errors.New("import file must have a header row and at least one data row")
	ErrBatchNotFound         = errors.New("import batch not found or expired")
	ErrBatchNotCommittable   = errors.New("import batch has validation errors and cannot be committed")
	ErrBatchAlreadyCommitted = errors.New("import batch was already committed")
	ErrBatchQuizMismatch     = errors.New("import batch belongs to a different quiz")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// HeaderMismatchError is the structural failure of an import run: the file's
// column header sequence differs from the exact sequence the mode requires.
// No rows are processed when it fires.
type HeaderMismatchError struct {
	Expected []string `json:"expected"`
	Actual   []string `json:"actual"`
}

func (he *HeaderMismatchError) Error() string {
	return fmt.Sprintf("unexpected column header: expected %q, found %q",
		strings.Join(he.Expected, ", "), strings.Join(he.Actual, ", "))
}

// CommitError wraps the storage failure that aborted a commit; the whole
// transaction was rolled back when it is returned.
type CommitError struct {
	BatchID   string `json:"batch_id"`
	RowNumber int    `json:"row_number"`
	Err       error  `json:"-"`
}

func (ce *CommitError) Error() string {
	return fmt.Sprintf("commit of batch %s aborted at row %d: %v (all changes rolled back)",
		ce.BatchID, ce.RowNumber, ce.Err)
}

func (ce *CommitError) Unwrap() error {
	return ce.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrBatchNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsHeaderMismatch checks if error is the structural header failure
func IsHeaderMismatch(err error) bool {
	var he *HeaderMismatchError
	return errors.As(err, &he)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrBatchNotCommittable) ||
		errors.Is(err, ErrBatchAlreadyCommitted) ||
		errors.Is(err, ErrBatchQuizMismatch)
}
