package circuit

import (
	"errors"
	"fmt"
)

// Error reports a malformed circuit request.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Label is the offending qubit, cross or basis label, if any.
	Label string
}

// ErrorCode categorizes circuit errors.
type ErrorCode string

const (
	// ErrCodeInvalidBasis indicates a Pauli label outside {I,X,Y,Z} or an
	// eigenstate index outside {0,1}.
	ErrCodeInvalidBasis ErrorCode = "INVALID_BASIS_SPECIFIER"

	// ErrCodeUnknownLabel indicates a qubit or cross not in the layout.
	ErrCodeUnknownLabel ErrorCode = "UNKNOWN_LABEL"

	// ErrCodeInvalidLayout indicates an inconsistent qubit/cross declaration.
	ErrCodeInvalidLayout ErrorCode = "INVALID_LAYOUT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Code, e.Message, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidBasis returns true if err is an invalid basis specifier error.
func IsInvalidBasis(err error) bool {
	return hasCode(err, ErrCodeInvalidBasis)
}

// IsUnknownLabel returns true if err names a qubit or cross outside the layout.
func IsUnknownLabel(err error) bool {
	return hasCode(err, ErrCodeUnknownLabel)
}

// IsInvalidLayout returns true if err is a layout validation error.
func IsInvalidLayout(err error) bool {
	return hasCode(err, ErrCodeInvalidLayout)
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

func newError(code ErrorCode, label, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Label: label}
}
