// Package errors provides structured error types for Myseum.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the placement engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Placement details (conflicting item ids, bounds violations) for UI feedback
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or placement validation failures
//   - *_NOT_FOUND: Resource not found
//   - *_INTERACTION: Placement engine state machine violations
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "item %q not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // refresh the view
//	}
//
//	var pe *errors.PlacementError
//	if errors.As(err, &pe) {
//	    fmt.Println(pe.ConflictIDs)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidPlacement Code = "INVALID_PLACEMENT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeWallNotFound    Code = "WALL_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Placement engine state errors
	ErrCodeConflictingInteraction Code = "CONFLICTING_INTERACTION"
	ErrCodeNoActiveInteraction    Code = "NO_ACTIVE_INTERACTION"

	// Authentication errors
	ErrCodeUnauthorized   Code = "UNAUTHORIZED"
	ErrCodeForbidden      Code = "FORBIDDEN"
	ErrCodeSessionExpired Code = "SESSION_EXPIRED"

	// Storage and internal errors
	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// PlacementError reports why a candidate placement was rejected.
// It is returned by commit and add operations of the placement engine.
type PlacementError struct {
	ItemID      string   // Item that could not be placed
	ConflictIDs []string // Items whose bounding boxes overlap the candidate
	OutOfBounds bool     // Candidate extends past the grid's horizontal bounds or origin
	Reason      string   // Optional free-form detail
}

// NewPlacementError creates a placement error for itemID.
func NewPlacementError(itemID string, conflictIDs []string, outOfBounds bool) *PlacementError {
	return &PlacementError{ItemID: itemID, ConflictIDs: conflictIDs, OutOfBounds: outOfBounds}
}

// Error implements the error interface.
func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeInvalidPlacement, e.Summary())
}

// Summary returns a short description suitable for display, e.g.
// "item a overlaps 2 items (b, c)" or "item a is out of bounds".
func (e *PlacementError) Summary() string {
	var parts []string
	if e.OutOfBounds {
		parts = append(parts, "is out of bounds")
	}
	switch n := len(e.ConflictIDs); {
	case n == 1:
		parts = append(parts, fmt.Sprintf("overlaps item %s", e.ConflictIDs[0]))
	case n > 1:
		parts = append(parts, fmt.Sprintf("overlaps %d items (%s)", n, strings.Join(e.ConflictIDs, ", ")))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(parts) == 0 {
		parts = append(parts, "cannot be placed")
	}
	return fmt.Sprintf("item %s %s", e.ItemID, strings.Join(parts, " and "))
}

// Code returns the error code for this error type.
func (e *PlacementError) Code() Code {
	return ErrCodeInvalidPlacement
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *PlacementError with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// As is a re-export of the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var pe *PlacementError
	if errors.As(err, &pe) {
		return pe.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var pe *PlacementError
	if errors.As(err, &pe) {
		return pe.Summary()
	}
	return err.Error()
}

// HTTPStatus maps an error to the HTTP status code the API should return.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeInvalidPlacement:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeWallNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeConflictingInteraction, ErrCodeNoActiveInteraction:
		return http.StatusConflict
	case ErrCodeUnauthorized, ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
