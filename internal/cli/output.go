package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/config"
	"github.com/roach88/qcal/internal/decompose"
	"github.com/roach88/qcal/internal/fit"
	"github.com/roach88/qcal/internal/group"
	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/rb"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Run failure (executor error, fit divergence, contract violation)
	ExitCommandError = 2 // Command error (invalid config, database not found, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Error codes for failures outside config loading. Config errors keep the
// E0xx/E2xx code of their config.LoadError.
const (
	ErrCodeGeneric      = "E001"
	ErrCodeCircuit      = "E301" // Invalid basis, unknown label or layout
	ErrCodeDecompose    = "E302" // Singular matrix or failed decomposition
	ErrCodeContract     = "E303" // Executor broke the result contract
	ErrCodeDivergence   = "E304" // Fit did not converge
	ErrCodeGroup        = "E305" // Group exhausted or unsupported qubit count
	ErrCodeState        = "E306" // Protocol operation called in the wrong state
	ErrCodeStore        = "E401" // Database error
	ErrCodeWriteFailed  = "E402" // Output file error
	ErrCodeRunNotFound  = "E403" // No such run in the database
	ErrCodeInvalidInput = "E404" // Bad command argument
)

// ErrorCode maps an error to its CLI code.
func ErrorCode(err error) string {
	var le *config.LoadError
	switch {
	case errors.As(err, &le):
		return le.Code
	case circuit.IsInvalidBasis(err), circuit.IsUnknownLabel(err), circuit.IsInvalidLayout(err):
		return ErrCodeCircuit
	case decompose.IsSingularMatrix(err), decompose.IsDecompositionError(err):
		return ErrCodeDecompose
	case job.IsContractViolation(err), job.IsResultAlreadySet(err):
		return ErrCodeContract
	case fit.IsDivergence(err):
		return ErrCodeDivergence
	case group.IsExhausted(err), group.IsUnsupportedQubits(err):
		return ErrCodeGroup
	case rb.IsStateError(err):
		return ErrCodeState
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty"`  // error details
	RunID  string    `json:"run_id,omitempty"` // stored run, when one was written
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E201", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// textRenderer is implemented by payloads with a custom text form.
type textRenderer interface {
	Text() string
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	return f.SuccessWithRun("", data)
}

// SuccessWithRun is Success with the stored run ID attached.
func (f *OutputFormatter) SuccessWithRun(runID string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
			RunID:  runID,
		})
	}

	if r, ok := data.(textRenderer); ok {
		fmt.Fprint(f.Writer, r.Text())
		return nil
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err through Error and returns it wrapped with exitCode.
func (f *OutputFormatter) Fail(exitCode int, message string, err error) error {
	_ = f.Error(ErrorCode(err), fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exitCode, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
