package executor

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"math/rand"
	"slices"

	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/statevec"
)

// Simulator computes results from simulation-backend snapshots. Each job's
// state passes through a global depolarizing channel of strength Error once
// per logical gate before readout.
type Simulator struct {
	// Error is the per-gate depolarizing probability; 0 is noiseless.
	Error float64

	// SampleShots draws the job's shot count from the distribution instead
	// of reporting exact probabilities.
	SampleShots bool

	// Seed drives shot sampling.
	Seed int64
}

// Execute implements job.Executor.
func (s *Simulator) Execute(ctx context.Context, t *job.Table) error {
	if s.Error < 0 || s.Error > 1 {
		return fmt.Errorf("simulator: depolarizing error %v outside [0, 1]", s.Error)
	}
	rng := rand.New(rand.NewSource(s.Seed))
	for i, j := range t.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := s.result(j, rng)
		if err != nil {
			return fmt.Errorf("simulator: job %d: %w", i, err)
		}
		if err := j.SetResult(r); err != nil {
			return fmt.Errorf("simulator: job %d: %w", i, err)
		}
	}
	slog.Debug("simulated job table", "jobs", t.Len(), "error", s.Error)
	return nil
}

func (s *Simulator) result(j *job.Job, rng *rand.Rand) (map[string]float64, error) {
	raw, ok := j.Get(job.KeySequence)
	if !ok {
		return nil, fmt.Errorf("no compiled sequence")
	}
	state, ok := raw.(*statevec.State)
	if !ok {
		return nil, fmt.Errorf("sequence is %T, want a simulation snapshot", raw)
	}

	measured, ok := optional[[]int](j, job.KeyMeasured)
	if !ok {
		measured = make([]int, state.NumQubits())
		for q := range measured {
			measured[q] = q
		}
	}
	dist := state.Marginal(measured)

	gates, _ := optional[int](j, job.KeyGateCount)
	survive := math.Pow(1-s.Error, float64(gates))
	uniform := (1 - survive) / float64(len(dist))
	for outcome, p := range dist {
		dist[outcome] = survive*p + uniform
	}

	shots, _ := optional[int](j, job.KeyShots)
	if s.SampleShots && shots > 0 {
		return sample(dist, shots, rng)
	}
	for outcome, p := range dist {
		if p < 1e-14 {
			delete(dist, outcome)
		}
	}
	return Normalize(dist)
}

// sample draws shots outcomes from dist and returns their frequencies.
func sample(dist map[string]float64, shots int, rng *rand.Rand) (map[string]float64, error) {
	outcomes := slices.Sorted(maps.Keys(dist))
	counts := make(map[string]float64)
	for range shots {
		u := rng.Float64()
		pick := outcomes[len(outcomes)-1]
		for _, o := range outcomes {
			u -= dist[o]
			if u < 0 {
				pick = o
				break
			}
		}
		counts[pick]++
	}
	return Normalize(counts)
}

func optional[T any](j *job.Job, key string) (T, bool) {
	v, err := job.Condition[T](j, key)
	return v, err == nil
}
