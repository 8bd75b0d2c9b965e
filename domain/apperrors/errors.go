package apperrors

import (
	"errors"
	"fmt"
)

// Error codes returned to the frontend.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeUploadFailed       = "UPLOAD_FAILED"
	CodeReconcileFailed    = "RECONCILE_FAILED"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrUnauthorized  = errors.New("unauthorized")
)

// ValidationError is bad user input. It is corrected by the user and never
// retried automatically.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidInputError covers malformed upload requests, e.g. a file over the
// configured size limit.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func NewInvalidInput(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// StorageUnavailableError wraps a document-store failure. Transient; the
// caller surfaces it with a retry affordance, the core never retries.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

func NewStorageUnavailable(err error) *StorageUnavailableError {
	return &StorageUnavailableError{Err: err}
}

// UploadFailedError is a batch-level failure: at least one file in the batch
// could not be stored, so the whole batch is rejected.
type UploadFailedError struct {
	File string
	Err  error
}

func (e *UploadFailedError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("upload failed for %q: %v", e.File, e.Err)
	}
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadFailedError) Unwrap() error { return e.Err }

func NewUploadFailed(file string, err error) *UploadFailedError {
	return &UploadFailedError{File: file, Err: err}
}

// ReconcileFailedError is the partial-success case: the batch's bytes are
// durably stored but the place's photo count could not be advanced. The
// count stays stale until the repair sweep or a manual refresh.
type ReconcileFailedError struct {
	Err error
}

func (e *ReconcileFailedError) Error() string {
	return fmt.Sprintf("photos saved but count update failed: %v", e.Err)
}

func (e *ReconcileFailedError) Unwrap() error { return e.Err }

func NewReconcileFailed(err error) *ReconcileFailedError {
	return &ReconcileFailedError{Err: err}
}

// Code maps a domain error to its frontend error code.
func Code(err error) string {
	var (
		validation *ValidationError
		invalid    *InvalidInputError
		storage    *StorageUnavailableError
		upload     *UploadFailedError
		reconcile  *ReconcileFailedError
	)
	switch {
	case errors.As(err, &validation):
		return CodeValidation
	case errors.As(err, &invalid):
		return CodeInvalidInput
	case errors.Is(err, ErrPlaceNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.As(err, &storage):
		return CodeStorageUnavailable
	case errors.As(err, &upload):
		return CodeUploadFailed
	case errors.As(err, &reconcile):
		return CodeReconcileFailed
	default:
		return ""
	}
}
