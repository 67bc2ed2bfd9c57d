// Package errors provides the error vocabulary shared by the eisen stores,
// storage backends and command layer.
//
// # Error Types
//
// Domain errors describe a failing subsystem:
//   - StorageError: a backend read or write failed for a key
//
// Semantic errors describe a failing request:
//   - NotFoundError: a task or category could not be resolved
//   - ValidationError: user input was rejected before reaching a store
//
// Store operations themselves never return errors for lookup misses; these
// types exist for the layers that sit around the stores (persistence and
// the CLI).
//
// # Usage
//
//	err := errors.NewStorageError("write", "task_manager.tasks.v1", cause).
//	    WithBackend("file").
//	    WithRetryable(true)
//
//	if errors.Is(err, errors.ErrBackendUnavailable) { ... }
//
//	var storageErr *errors.StorageError
//	if errors.As(err, &storageErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions so callers only need this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are only interesting while debugging.
	SeverityDebug Severity = iota
	// SeverityWarning is for errors the system recovers from locally.
	SeverityWarning
	// SeverityError is for errors that surface to the user.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Storage sentinel errors
var (
	// ErrBackendUnavailable indicates there is no usable storage backend
	// in this execution context.
	ErrBackendUnavailable = New("storage backend unavailable")
	// ErrKeyNotFound indicates that a key has never been written.
	ErrKeyNotFound = New("key not found")
	// ErrCorruptValue indicates that a stored value could not be decoded.
	ErrCorruptValue = New("stored value is corrupt")
	// ErrWriterClosed indicates a write was scheduled after the writer closed.
	ErrWriterClosed = New("writer closed")
)

// Lookup sentinel errors
var (
	// ErrTaskNotFound indicates that no task matches an id or id prefix.
	ErrTaskNotFound = New("task not found")
	// ErrAmbiguousID indicates that an id prefix matches more than one task.
	ErrAmbiguousID = New("ambiguous task id")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// EisenError is implemented by every error type in this package.
type EisenError interface {
	error
	Unwrap() error
	Severity() Severity
	IsRetryable() bool
}

type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error      { return e.cause }
func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }

// -----------------------------------------------------------------------------
// StorageError
// -----------------------------------------------------------------------------

// StorageError reports a failed backend operation for a key.
//
// Example:
//
//	err := errors.NewStorageError("write", "task_manager.tasks.v1", io.ErrShortWrite)
//	fmt.Println(err) // "storage write failed [key=task_manager.tasks.v1]: short write"
type StorageError struct {
	baseError
	Op      string
	Key     string
	Backend string
}

// NewStorageError creates a StorageError for the given operation and key.
func NewStorageError(op, key string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{
			message:  fmt.Sprintf("storage %s failed", op),
			cause:    cause,
			severity: SeverityWarning,
		},
		Op:  op,
		Key: key,
	}
}

// WithBackend records the backend name.
func (e *StorageError) WithBackend(name string) *StorageError {
	e.Backend = name
	return e
}

// WithRetryable marks whether a later attempt may succeed.
func (e *StorageError) WithRetryable(r bool) *StorageError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	var parts []string
	if e.Key != "" {
		parts = append(parts, "key="+e.Key)
	}
	if e.Backend != "" {
		parts = append(parts, "backend="+e.Backend)
	}

	msg := e.message
	if len(parts) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:  fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity: SeverityError,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Is reports a match against any *NotFoundError or the wrapped cause.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// ValidationError represents rejected input.
//
// Example:
//
//	err := errors.NewValidationError("category cannot be empty").WithField("category")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			cause:    ErrInvalidInput,
			severity: SeverityError,
		},
	}
}

// WithField records which field was invalid.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue records the rejected value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		if e.Value != nil {
			return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.message, e.Value)
		}
		return fmt.Sprintf("%s: %s", e.Field, e.message)
	}
	return e.message
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsRetryable returns true if a later attempt of the same operation may
// succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var eisenErr EisenError
	if As(err, &eisenErr) {
		return eisenErr.IsRetryable()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Errors from outside this package are SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var eisenErr EisenError
	if As(err, &eisenErr) {
		return eisenErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
