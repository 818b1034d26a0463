// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidCalibration indicates a rejected calibration input
	TypeInvalidCalibration Type = "INVALID_CALIBRATION"

	// TypeUncalibrated indicates a real-unit projection on an uncalibrated drawing
	TypeUncalibrated Type = "UNCALIBRATED_DRAWING"

	// TypeInvalidGeometry indicates geometry that cannot form the requested shape
	TypeInvalidGeometry Type = "INVALID_GEOMETRY"

	// TypeDisallowedKind indicates an entity kind blocked by the active design purpose
	TypeDisallowedKind Type = "DISALLOWED_KIND"

	// TypeNotFound indicates a missing entity or drawing
	TypeNotFound Type = "NOT_FOUND"

	// TypeNothingToUndo indicates an undo on an empty history
	TypeNothingToUndo Type = "NOTHING_TO_UNDO"

	// TypeNothingToRedo indicates a redo with no undone command
	TypeNothingToRedo Type = "NOTHING_TO_REDO"

	// TypePersistence indicates a save/load failure at the storage boundary
	TypePersistence Type = "PERSISTENCE_ERROR"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// TypeOf returns the domain type of an error, or TypeInternal for foreign errors
func TypeOf(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}

// InvalidCalibration creates a calibration validation error
func InvalidCalibration(message string) *Error {
	return New(TypeInvalidCalibration, message)
}

// Uncalibrated creates an uncalibrated-drawing error
func Uncalibrated(operation string) *Error {
	return Newf(TypeUncalibrated, "no calibration set: %s requires a calibrated drawing", operation)
}

// InvalidGeometry creates a geometry validation error
func InvalidGeometry(message string) *Error {
	return New(TypeInvalidGeometry, message)
}

// DisallowedKind creates a design-purpose gate error
func DisallowedKind(kind, purpose string) *Error {
	return Newf(TypeDisallowedKind, "entity kind %q is not allowed under design purpose %q", kind, purpose)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// NothingToUndo creates an empty-undo-stack signal
func NothingToUndo() *Error {
	return New(TypeNothingToUndo, "undo stack is empty")
}

// NothingToRedo creates an empty-redo-stack signal
func NothingToRedo() *Error {
	return New(TypeNothingToRedo, "redo stack is empty")
}

// Persistence creates a persistence error
func Persistence(message string, cause error) *Error {
	return Wrap(TypePersistence, message, cause)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
