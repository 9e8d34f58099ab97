// Package errors provides centralized error definitions and error handling
// utilities for olatui. It defines domain sentinels, typed errors carrying
// patcher or data-source context, and classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - PatchError: errors raised while laying out or re-addressing devices
//   - SourceError: errors reading or writing the snapshot data source
//
// Semantic errors:
//   - NotFoundError: a universe, device or file does not exist
//   - ValidationError: invalid input such as an out-of-range start address
//
// # Usage
//
//	err := errors.NewPatchError("set start address", errors.ErrInvalidAddress).
//	    WithUID("7a70:00000001").WithUniverse(1)
//
//	if errors.Is(err, errors.ErrInvalidAddress) { ... }
//
//	var patchErr *errors.PatchError
//	if errors.As(err, &patchErr) { ... }
//
// # Contract violations
//
// The reconciler and the patcher report caller bugs (unsorted input,
// duplicate identity keys, re-entrant updates) with sentinel errors rather
// than panicking. Domain conditions such as a device overflowing channel
// 512 are never errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions so callers only import this package.
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
	// SeverityDebug is for errors that are useful for debugging only.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors.
	SeverityInfo
	// SeverityWarning is for errors that may indicate a problem.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Reconciler contract violations
var (
	// ErrUnsortedInput indicates items were not sorted by the comparator.
	ErrUnsortedInput = New("input is not sorted")
	// ErrDuplicateKey indicates two items compare equal within one pass.
	ErrDuplicateKey = New("duplicate identity key")
	// ErrReentrantUpdate indicates an update was started while another was running.
	ErrReentrantUpdate = New("re-entrant update")
)

// Patcher errors
var (
	// ErrDeviceNotFound indicates that a device uid is not part of the patch.
	ErrDeviceNotFound = New("device not found")
	// ErrInvalidAddress indicates a start address outside 1..512.
	ErrInvalidAddress = New("invalid start address")
	// ErrInvalidFootprint indicates a negative footprint.
	ErrInvalidFootprint = New("invalid footprint")
	// ErrDragInProgress indicates a drag was started while another is active.
	ErrDragInProgress = New("drag already in progress")
	// ErrNotDragging indicates a drag event arrived with no active drag.
	ErrNotDragging = New("no drag in progress")
)

// Data source errors
var (
	// ErrUniverseNotFound indicates that a universe does not exist.
	ErrUniverseNotFound = New("universe not found")
	// ErrSnapshotCorrupted indicates a snapshot file could not be decoded.
	ErrSnapshotCorrupted = New("snapshot data corrupted")
	// ErrServerReported indicates the record carried a non-empty error field.
	ErrServerReported = New("server reported an error")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// OlaError is the base interface for all olatui errors.
type OlaError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the message is safe to show in the UI.
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// formatWithContext renders "<kind> [k=v, ...]: message: cause".
func formatWithContext(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// PatchError represents errors raised by the patcher.
//
// Example:
//
//	err := errors.NewPatchError("move device", errors.ErrInvalidAddress).WithUID("7a70:00000001")
//	fmt.Println(err) // "patch error [uid=7a70:00000001]: move device: invalid start address"
type PatchError struct {
	baseError
	UID      string
	Universe int
}

// NewPatchError creates a new PatchError. Errors caused by a contract
// violation are not user facing.
func NewPatchError(message string, cause error) *PatchError {
	return &PatchError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: !IsContractViolation(cause),
		},
	}
}

// WithUID adds the device uid to the error context.
func (e *PatchError) WithUID(uid string) *PatchError {
	e.UID = uid
	return e
}

// WithUniverse adds the universe id to the error context.
func (e *PatchError) WithUniverse(id int) *PatchError {
	e.Universe = id
	return e
}

// WithSeverity sets the error severity.
func (e *PatchError) WithSeverity(s Severity) *PatchError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *PatchError) Error() string {
	var parts []string
	if e.Universe != 0 {
		parts = append(parts, fmt.Sprintf("universe=%d", e.Universe))
	}
	if e.UID != "" {
		parts = append(parts, fmt.Sprintf("uid=%s", e.UID))
	}
	return formatWithContext("patch error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *PatchError) Is(target error) bool {
	if _, ok := target.(*PatchError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SourceError represents errors reading or writing the snapshot source.
type SourceError struct {
	baseError
	Path string
}

// NewSourceError creates a new SourceError. Source errors are retryable:
// the next poll may find a complete file.
func NewSourceError(message string, cause error) *SourceError {
	return &SourceError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithPath adds the file path to the error context.
func (e *SourceError) WithPath(path string) *SourceError {
	e.Path = path
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *SourceError) WithRetryable(r bool) *SourceError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *SourceError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return formatWithContext("source error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *SourceError) Is(target error) bool {
	if _, ok := target.(*SourceError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("universe", "7")
//	fmt.Println(err) // "universe '7' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
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

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("start address out of range").
//	    WithField("start").WithValue(600)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var olaErr OlaError
	if As(err, &olaErr) {
		return olaErr.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display in the
// status line. Contract violations are internal and never user facing.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var olaErr OlaError
	if As(err, &olaErr) {
		return olaErr.IsUserFacing()
	}
	return false
}

// IsContractViolation reports whether err signals a caller bug rather than
// a runtime condition.
func IsContractViolation(err error) bool {
	return Is(err, ErrUnsortedInput) || Is(err, ErrDuplicateKey) || Is(err, ErrReentrantUpdate)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement OlaError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var olaErr OlaError
	if As(err, &olaErr) {
		return olaErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
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
