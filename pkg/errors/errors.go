// Package errors provides structured error types for flamelink.
//
// Every failure the composer can report carries a machine-readable [Code] so
// callers (the flame loader, the CLI, the HTTP API) can decide whether to skip
// the offending input and continue or to abort the whole composition.
//
// # Error Codes
//
// Codes fall into two classes:
//   - Recoverable: the input references something this build does not know
//     (UNKNOWN_VARIATION, UNKNOWN_PARAMETER, INCOMPATIBLE_GEOMETRY). A loader
//     may drop the placement, report it, and keep going.
//   - Fatal: a catalog-authoring defect (MISSING_LIBRARY_FUNCTION,
//     DEPENDENCY_RESOLUTION, DEPENDENCY_CYCLE, UNBOUND_PARAMETER, ...). The
//     whole composition is aborted.
//
// Use [IsRecoverable] to tell the two apart.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownVariation, "unknown variation %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownVariation) {
//	    // skip and continue
//	}
//
//	// Wrap existing errors, attaching identifying context
//	err := errors.Wrap(errors.ErrCodeDependencyResolution, cause, "plugin %q", plugin).
//	    With("plugin", plugin).With("id", id)
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidTemplate  Code = "INVALID_TEMPLATE"

	// Lookup errors a flame loader may recover from
	ErrCodeUnknownVariation     Code = "UNKNOWN_VARIATION"
	ErrCodeUnknownParameter     Code = "UNKNOWN_PARAMETER"
	ErrCodeIncompatibleGeometry Code = "INCOMPATIBLE_GEOMETRY"

	// Catalog-authoring defects
	ErrCodeMissingLibraryFunction Code = "MISSING_LIBRARY_FUNCTION"
	ErrCodeDependencyResolution   Code = "DEPENDENCY_RESOLUTION"
	ErrCodeDependencyCycle        Code = "DEPENDENCY_CYCLE"
	ErrCodeConflictingOrder       Code = "CONFLICTING_ORDER"
	ErrCodeUnboundParameter       Code = "UNBOUND_PARAMETER"
	ErrCodeDuplicateVariation     Code = "DUPLICATE_VARIATION"

	// Output errors
	ErrCodeShaderInvalid Code = "SHADER_INVALID"

	// Infrastructure errors
	ErrCodeCache    Code = "CACHE_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

var recoverable = map[Code]bool{
	ErrCodeUnknownVariation:     true,
	ErrCodeUnknownParameter:     true,
	ErrCodeIncompatibleGeometry: true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code              // Machine-readable error code
	Message string            // Human-readable message
	Cause   error             // Underlying error (optional)
	Details map[string]string // Identifying context such as plugin or library id (optional)
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

// With attaches a detail key to the error and returns it for chaining.
func (e *Error) With(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key, searching the whole chain.
func Detail(err error, key string) string {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if v, ok := e.Details[key]; ok {
				return v
			}
		}
		err = errors.Unwrap(err)
	}
	return ""
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

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted; use [Has] to search
// wrapped causes as well.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in the chain carries the given code.
func Has(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRecoverable reports whether the outermost code marks an input the caller
// may skip while continuing with the rest of the flame.
func IsRecoverable(err error) bool {
	return recoverable[GetCode(err)]
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// any details in key order.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for _, k := range slices.Sorted(maps.Keys(e.Details)) {
		parts = append(parts, k+"="+e.Details[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}
