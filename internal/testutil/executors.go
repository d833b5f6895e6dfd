package testutil

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/qcal/internal/job"
)

// IdealExecutor reports every job as returning the all-zeros outcome of
// width qubits with certainty.
func IdealExecutor(width int) job.ExecutorFunc {
	zeros := strings.Repeat("0", width)
	return func(_ context.Context, t *job.Table) error {
		for _, j := range t.All() {
			if err := j.SetResult(map[string]float64{zeros: 1}); err != nil {
				return err
			}
		}
		return nil
	}
}

// DecayExecutor reports the all-zeros population a·p^length + b for every
// job, with the remainder on the all-ones outcome.
func DecayExecutor(width int, a, b, p float64) job.ExecutorFunc {
	zeros, ones := strings.Repeat("0", width), strings.Repeat("1", width)
	return func(_ context.Context, t *job.Table) error {
		for i, j := range t.All() {
			l, err := job.Condition[int](j, job.KeyLength)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			y := a*math.Pow(p, float64(l)) + b
			if err := j.SetResult(map[string]float64{zeros: y, ones: 1 - y}); err != nil {
				return err
			}
		}
		return nil
	}
}
