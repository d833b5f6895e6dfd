package job

import (
	"errors"
	"fmt"
)

// Error reports a broken executor contract or a misuse of a job.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the offending job position, or -1 when not applicable.
	Index int
}

// ErrorCode categorizes job errors.
type ErrorCode string

const (
	// ErrCodeContractViolation indicates the executor dropped, reordered or
	// left unfilled a job, or returned an unnormalised result.
	ErrCodeContractViolation ErrorCode = "EXECUTOR_CONTRACT_VIOLATION"

	// ErrCodeResultAlreadySet indicates a second SetResult on one job.
	ErrCodeResultAlreadySet ErrorCode = "RESULT_ALREADY_SET"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (job=%d)", e.Code, e.Message, e.Index)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsContractViolation returns true if err is an executor contract violation.
// Uses errors.As to handle wrapped errors.
func IsContractViolation(err error) bool {
	var je *Error
	if errors.As(err, &je) {
		return je.Code == ErrCodeContractViolation
	}
	return false
}

// IsResultAlreadySet returns true if err reports a double SetResult.
func IsResultAlreadySet(err error) bool {
	var je *Error
	if errors.As(err, &je) {
		return je.Code == ErrCodeResultAlreadySet
	}
	return false
}

func violation(index int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeContractViolation, Message: fmt.Sprintf(format, args...), Index: index}
}
