package decompose

import (
	"errors"
	"fmt"
)

// Error reports a matrix the decomposer cannot express in the native gate set.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Dim is the dimension of the rejected matrix.
	Dim int
}

// ErrorCode categorizes decomposition errors.
type ErrorCode string

const (
	// ErrCodeSingularMatrix indicates a zero (or numerically zero) determinant.
	ErrCodeSingularMatrix ErrorCode = "SINGULAR_MATRIX"

	// ErrCodeDecomposition indicates a non-unitary input or a failed factorization.
	ErrCodeDecomposition ErrorCode = "DECOMPOSITION_ERROR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (dim=%d)", e.Code, e.Message, e.Dim)
}

// IsSingularMatrix returns true if err is a singular-matrix error.
// Uses errors.As to handle wrapped errors.
func IsSingularMatrix(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeSingularMatrix
	}
	return false
}

// IsDecompositionError returns true if err is a decomposition error.
// Uses errors.As to handle wrapped errors.
func IsDecompositionError(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeDecomposition
	}
	return false
}

func singular(dim int) *Error {
	return &Error{Code: ErrCodeSingularMatrix, Message: "determinant is zero", Dim: dim}
}

func failed(dim int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeDecomposition, Message: fmt.Sprintf(format, args...), Dim: dim}
}
