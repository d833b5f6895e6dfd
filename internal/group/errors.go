package group

import (
	"errors"
	"fmt"
)

// Error reports a sampler that cannot satisfy a request.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes group errors.
type ErrorCode string

const (
	// ErrCodeExhausted indicates a request for more distinct elements than
	// the group holds.
	ErrCodeExhausted ErrorCode = "GROUP_EXHAUSTED"

	// ErrCodeUnsupportedQubits indicates a qubit count with no group table.
	ErrCodeUnsupportedQubits ErrorCode = "UNSUPPORTED_QUBITS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsExhausted returns true if err is a GROUP_EXHAUSTED error.
// Uses errors.As to handle wrapped errors.
func IsExhausted(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeExhausted
	}
	return false
}

// IsUnsupportedQubits returns true if err is an UNSUPPORTED_QUBITS error.
func IsUnsupportedQubits(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeUnsupportedQubits
	}
	return false
}
