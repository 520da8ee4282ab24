package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation  ErrorCategory = "validation"  // Invalid input from the caller
	ErrCatGeneration  ErrorCategory = "generation"  // Model or schema failure
	ErrCatIntegrity   ErrorCategory = "integrity"   // Malformed generated content
	ErrCatPersistence ErrorCategory = "persistence" // Checkpoint read/write failure
	ErrCatNotFound    ErrorCategory = "not_found"   // Resource not found
	ErrCatConflict    ErrorCategory = "conflict"    // Concurrent modification
	ErrCatState       ErrorCategory = "state"       // Invalid phase or transition
	ErrCatInternal    ErrorCategory = "internal"    // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrGeneration creates a generation error.
func ErrGeneration(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatGeneration,
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// ErrIntegrity creates an integrity error for malformed generated content.
func ErrIntegrity(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatIntegrity,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrPersistence creates a persistence error. Persistence errors are
// always fatal to the current step; retrying belongs to the transport.
func ErrPersistence(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatPersistence,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category:  ErrCatNotFound,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("%s not found: %s", resource, id),
		Retryable: false,
	}
}

// ErrConflict creates a conflict error for concurrent checkpoint writes.
func ErrConflict(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatConflict,
		Code:      CodeCheckpointConflict,
		Message:   message,
		Retryable: true,
	}
}

// ErrState creates a state error.
func ErrState(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatState,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeCheckpointConflict = "CHECKPOINT_CONFLICT"
	CodeInvalidState       = "INVALID_STATE"

	// Validation error codes
	CodeFileNotFound      = "FILE_NOT_FOUND"
	CodeUnreadableContent = "UNREADABLE_CONTENT"
	CodeMissingContent    = "MISSING_CONTENT"
	CodeBadResumeValue    = "BAD_RESUME_VALUE"
	CodeNotSuspended      = "NOT_SUSPENDED"

	// Generation error codes
	CodePlanFailed     = "PLAN_GENERATION_FAILED"
	CodeQuizFailed     = "QUIZ_GENERATION_FAILED"
	CodeSchemaMismatch = "SCHEMA_MISMATCH"

	// Integrity error codes
	CodeNoQuestions   = "NO_QUESTIONS"
	CodeBadPlanSize   = "BAD_PLAN_SIZE"
	CodeMalformedMCQ  = "MALFORMED_MCQ"
	CodeStateCorrupt  = "STATE_CORRUPTED"
	CodeUnknownPhase  = "UNKNOWN_PHASE"
	CodeSaveFailed    = "SAVE_FAILED"
	CodeLoadFailed    = "LOAD_FAILED"
	CodeDeleteFailed  = "DELETE_FAILED"
	CodeListFailed    = "LIST_FAILED"
	CodeSchemaInvalid = "SCHEMA_INVALID"
)
