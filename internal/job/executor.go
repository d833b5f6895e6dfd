package job

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// ProbabilityTolerance bounds |Σp - 1| for an accepted result.
const ProbabilityTolerance = 1e-6

// Executor fills every job's result, in submission order, before
// returning. It must not add, drop or reorder jobs. Retry policy belongs to
// the executor.
type Executor interface {
	Execute(ctx context.Context, t *Table) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, t *Table) error

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, t *Table) error { return f(ctx, t) }

// Dispatch hands t to exec and blocks until it returns, then verifies the
// executor contract. Executor errors are wrapped and returned as-is.
func Dispatch(ctx context.Context, exec Executor, t *Table) error {
	before := t.Jobs()
	slog.Debug("dispatching job table", "jobs", len(before))

	if err := exec.Execute(ctx, t); err != nil {
		return fmt.Errorf("executor: %w", err)
	}

	if t.Len() != len(before) {
		return violation(-1, "executor changed job count from %d to %d", len(before), t.Len())
	}
	for i, j := range t.All() {
		if j != before[i] {
			return violation(i, "executor reordered jobs")
		}
	}
	if err := Verify(t); err != nil {
		return err
	}
	slog.Debug("job table executed", "jobs", len(before))
	return nil
}

// Verify checks that every job in t carries a normalised result.
func Verify(t *Table) error {
	for i, j := range t.All() {
		if err := checkResult(i, j); err != nil {
			return err
		}
	}
	return nil
}

func checkResult(i int, j *Job) error {
	r, ok := j.Result()
	if !ok {
		return violation(i, "result not set")
	}
	var total float64
	for outcome, p := range r {
		if p < 0 || math.IsNaN(p) {
			return violation(i, "outcome %q has invalid probability %v", outcome, p)
		}
		total += p
	}
	if math.Abs(total-1) > ProbabilityTolerance {
		return violation(i, "probabilities sum to %v", total)
	}
	return nil
}
