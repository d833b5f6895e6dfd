package rb

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/roach88/qcal/internal/fit"
	"github.com/roach88/qcal/internal/job"
)

// Fidelity converts a depolarizing decay rate into average gate fidelity
// on n qubits: (1 + (2ⁿ-1)·p) / 2ⁿ.
func Fidelity(n int, p float64) float64 {
	d := float64(int(1) << n)
	return (1 + (d-1)*p) / d
}

// Parity returns the expectation of Z⊗…⊗Z under result: outcomes with an
// odd number of ones count negatively.
func Parity(result map[string]float64) float64 {
	var e float64
	for outcome, p := range result {
		if strings.Count(outcome, "1")%2 == 0 {
			e += p
		} else {
			e -= p
		}
	}
	return e
}

// groupByLength collects observe(job) per sequence length, preserving job
// order within each length.
func groupByLength(t *job.Table, observe func(*job.Job) float64) (map[int][]float64, error) {
	data := make(map[int][]float64)
	for i, j := range t.All() {
		l, err := job.Condition[int](j, job.KeyLength)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		data[l] = append(data[l], observe(j))
	}
	return data, nil
}

// Histograms returns the raw results of t grouped by sequence length.
func Histograms(t *job.Table) (map[int][]map[string]float64, error) {
	out := make(map[int][]map[string]float64)
	for i, j := range t.All() {
		l, err := job.Condition[int](j, job.KeyLength)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		r, ok := j.Result()
		if !ok {
			return nil, &job.Error{Code: job.ErrCodeContractViolation, Message: "result not set", Index: i}
		}
		out[l] = append(out[l], r)
	}
	return out, nil
}

// Decay is an a·pˣ+b fit of per-length averages.
type Decay struct {
	Lengths []int
	Data    map[int][]float64
	Mean    []float64
	Std     []float64

	A, B, P  float64
	Fidelity float64
	Fit      *fit.Result
}

// fitDecay fits the all-zeros population of every job in t.
func fitDecay(cfg Config, t *job.Table) (*Decay, error) {
	n := cfg.numQubits()
	zeros := strings.Repeat("0", n)
	data, err := groupByLength(t, func(j *job.Job) float64 { return j.Probability(zeros) })
	if err != nil {
		return nil, err
	}

	d := &Decay{Lengths: cfg.lengths(), Data: data}
	x := make([]float64, len(d.Lengths))
	for i, l := range d.Lengths {
		x[i] = float64(l)
		mean, std := stat.PopMeanStdDev(data[l], nil)
		d.Mean = append(d.Mean, mean)
		d.Std = append(d.Std, std)
	}

	floor := 1 / float64(int(1)<<n)
	a0, b0 := 1-floor, floor
	if cfg.InitialInverse {
		a0, b0 = -(1 - floor), 1-floor
	}
	guess := []float64{a0, b0, fit.DecayRateGuess(x, d.Mean, a0, b0)}

	res, err := fit.Curve(fit.ExpDecay, x, d.Mean, guess)
	if err != nil {
		return nil, fmt.Errorf("fit population decay: %w", err)
	}
	d.Fit = res
	d.A, d.B, d.P = res.Params[0], res.Params[1], res.Params[2]
	d.Fidelity = Fidelity(n, d.P)
	return d, nil
}

// bases lists every assignment of X, Y, Z to n qubits, first qubit slowest.
func bases(n int) []string {
	out := []string{""}
	for range n {
		var next []string
		for _, prefix := range out {
			for _, p := range "XYZ" {
				next = append(next, prefix+string(p))
			}
		}
		out = next
	}
	return out
}
