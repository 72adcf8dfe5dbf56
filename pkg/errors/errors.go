// Package errors provides structured error types for the pedigree core.
//
// Every mutation of a pedigree graph is validated before any state changes.
// When validation fails the caller receives an [*Error] whose [Code] says
// which rule was broken, so the editor layer can present the rejection
// without parsing messages.
//
// # Error Codes
//
//   - NOT_FOUND: an unknown node or edge ID was referenced
//   - INVALID_RELATIONSHIP: self-partnership, duplicate partnership, wrong kinds
//   - TOO_MANY_PARENTS: the child already has a parent partnership
//   - CYCLE: the mutation would make someone their own ancestor
//   - INCONSISTENT_RANK: partners would be forced onto different generations
//   - VALIDATION: a bulk snapshot load failed an invariant
//   - INVALID_PROPERTY: a property setter received an unknown value
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "node %d does not exist", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle unknown node
//	}
//
//	// Wrap the first violation found during a snapshot load
//	err := errors.Wrap(errors.ErrCodeValidation, cause, "snapshot rejected")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes raised by the pedigree core.
const (
	// Graph mutation errors
	ErrCodeNotFound            Code = "NOT_FOUND"
	ErrCodeInvalidRelationship Code = "INVALID_RELATIONSHIP"
	ErrCodeTooManyParents      Code = "TOO_MANY_PARENTS"
	ErrCodeCycle               Code = "CYCLE"
	ErrCodeInconsistentRank    Code = "INCONSISTENT_RANK"
	ErrCodeValidation          Code = "VALIDATION"
	ErrCodeInvalidProperty     Code = "INVALID_PROPERTY"

	// Input errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Nodes   []int  // Offending node IDs, if any
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

// WithNodes attaches the IDs of the nodes involved and returns e.
func (e *Error) WithNodes(ids ...int) *Error {
	e.Nodes = append(e.Nodes, ids...)
	return e
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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

// NodesOf returns the node IDs attached to the outermost *Error in err's chain.
func NodesOf(err error) []int {
	var e *Error
	if errors.As(err, &e) {
		return e.Nodes
	}
	return nil
}

// Innermost returns the deepest *Error in err's chain, or nil if there is
// none. For a rejected snapshot this is the rule that was broken.
func Innermost(err error) *Error {
	var found *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			found = e
		}
		err = errors.Unwrap(err)
	}
	return found
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
