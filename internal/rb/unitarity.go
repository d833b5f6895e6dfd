package rb

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/roach88/qcal/internal/fit"
	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/report"
)

// Unitarity measures every sequence, without an inversion gate, in each
// basis of {X,Y,Z}ⁿ. Per length, the sum over bases of the mean parity
// tracks leakage and the sum of the variances tracks unitarity; each is fit
// to a·pˣ+b.
type Unitarity struct {
	lifecycle
	cfg    Config
	bases  []string
	table  *job.Table
	result *UnitarityResult
	report *report.Report
}

// UnitarityResult holds the per-length observables and both fits.
type UnitarityResult struct {
	Lengths []int

	// Parity[length][basis] holds one expectation per repetition.
	Parity map[int]map[string][]float64

	Mean     []float64
	Variance []float64

	Leakage      float64
	Unitarity    float64
	LeakageFit   *fit.Result
	UnitarityFit *fit.Result
}

// NewUnitarity validates cfg and builds the job table.
func NewUnitarity(cfg Config) (*Unitarity, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	u := &Unitarity{
		lifecycle: lifecycle{name: "unitarity_randomized_benchmarking"},
		cfg:       cfg,
		bases:     bases(cfg.numQubits()),
		table:     job.NewTable(),
	}
	if err := u.Build(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Unitarity) Name() string { return u.name }

func (u *Unitarity) Tables() []*job.Table { return []*job.Table{u.table} }

// Bases returns the measurement bases, first qubit slowest.
func (u *Unitarity) Bases() []string { return append([]string(nil), u.bases...) }

func (u *Unitarity) Build() error {
	if err := u.require("build", StateReset); err != nil {
		return err
	}
	u.table.Reset()
	for _, seq := range u.cfg.Sequences {
		arrays, err := sequences(u.cfg, seq, u.cfg.Interleave, false)
		if err != nil {
			return fmt.Errorf("%s: %w", u.name, err)
		}
		for _, basis := range u.bases {
			for rep, gates := range arrays {
				c, err := u.cfg.Template.New()
				if err != nil {
					return err
				}
				n, err := apply(c, u.cfg, gates, u.cfg.Interleave)
				if err != nil {
					return fmt.Errorf("%s: length %d repetition %d: %w", u.name, seq.Length, rep, err)
				}
				for i, q := range u.cfg.Qubits {
					if err := c.Measurement(basis[i:i+1], q); err != nil {
						return err
					}
				}
				u.table.Submit(job.New(job.Conditions{
					job.KeyLength:    seq.Length,
					job.KeyGateArray: gates,
					job.KeyShots:     seq.Shots,
					job.KeySequence:  c.Snapshot(),
					job.KeyGateCount: n,
					job.KeyMeasured:  u.cfg.measured(),
					KeyRepetition:    rep,
					KeyObservedPauli: basis,
				}))
			}
		}
	}
	slog.Debug("benchmarking jobs built", "protocol", u.name, "jobs", u.table.Len(), "bases", len(u.bases))
	u.state = StateBuilt
	return nil
}

func (u *Unitarity) Execute(ctx context.Context, exec job.Executor) error {
	if err := u.require("execute", StateBuilt); err != nil {
		return err
	}
	if err := job.Dispatch(ctx, exec, u.table); err != nil {
		return fmt.Errorf("%s: %w", u.name, err)
	}
	u.state = StateExecuted
	return nil
}

func (u *Unitarity) Analyze() (*report.Report, error) {
	if err := u.require("analyze", StateExecuted); err != nil {
		return nil, err
	}
	if err := job.Verify(u.table); err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}

	res := &UnitarityResult{Lengths: u.cfg.lengths(), Parity: make(map[int]map[string][]float64)}
	for i, j := range u.table.All() {
		l, err := job.Condition[int](j, job.KeyLength)
		if err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", u.name, i, err)
		}
		basis, err := job.Condition[string](j, KeyObservedPauli)
		if err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", u.name, i, err)
		}
		if res.Parity[l] == nil {
			res.Parity[l] = make(map[string][]float64)
		}
		r, _ := j.Result()
		res.Parity[l][basis] = append(res.Parity[l][basis], Parity(r))
	}

	x := make([]float64, len(res.Lengths))
	for i, l := range res.Lengths {
		x[i] = float64(l)
		var mean, variance float64
		for _, basis := range u.bases {
			m, v := stat.PopMeanVariance(res.Parity[l][basis], nil)
			mean += m
			variance += v
		}
		res.Mean = append(res.Mean, mean)
		res.Variance = append(res.Variance, variance)
	}

	leak, err := fit.Curve(fit.ExpDecay, x, res.Mean, []float64{res.Mean[0], 0, fit.DefaultDecayRate})
	if err != nil {
		return nil, fmt.Errorf("%s: fit leakage: %w", u.name, err)
	}
	unit, err := fit.Curve(fit.ExpDecay, x, res.Variance, []float64{res.Variance[0], 0, fit.DefaultDecayRate})
	if err != nil {
		return nil, fmt.Errorf("%s: fit unitarity: %w", u.name, err)
	}
	res.LeakageFit, res.Leakage = leak, leak.Params[2]
	res.UnitarityFit, res.Unitarity = unit, unit.Params[2]
	u.result = res

	r := report.New(u.name)
	r.Add("fit params for leakage", leak.Params)
	r.Add("fit params for unitarity", unit.Params)
	r.Add("unitarity", res.Unitarity)
	r.Add("leakage", res.Leakage)
	r.Add("pauli", res.Parity)
	addRunInfo(r, u.cfg)
	u.report = r

	slog.Info("unitarity benchmarking analyzed", "unitarity", res.Unitarity, "leakage", res.Leakage)
	u.state = StateAnalyzed
	return r, nil
}

func (u *Unitarity) Reset() {
	u.table.Reset()
	u.result = nil
	u.report = nil
	u.state = StateReset
}

// Result returns the analysis, or nil before Analyze.
func (u *Unitarity) Result() *UnitarityResult { return u.result }

// FastUnitarity estimates unitarity from the Z-basis parity alone: one job
// per sequence, variance across repetitions fit to a·pˣ+b.
type FastUnitarity struct {
	lifecycle
	cfg       Config
	table     *job.Table
	parity    map[int][]float64
	variance  []float64
	unitarity float64
	fit       *fit.Result
	report    *report.Report
}

// NewFastUnitarity validates cfg and builds the job table.
func NewFastUnitarity(cfg Config) (*FastUnitarity, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	f := &FastUnitarity{
		lifecycle: lifecycle{name: "fast_unitarity_randomized_benchmarking"},
		cfg:       cfg,
		table:     job.NewTable(),
	}
	if err := f.Build(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FastUnitarity) Name() string { return f.name }

func (f *FastUnitarity) Tables() []*job.Table { return []*job.Table{f.table} }

func (f *FastUnitarity) Build() error {
	if err := f.require("build", StateReset); err != nil {
		return err
	}
	f.table.Reset()
	for _, seq := range f.cfg.Sequences {
		arrays, err := sequences(f.cfg, seq, f.cfg.Interleave, false)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		for rep, gates := range arrays {
			c, err := f.cfg.Template.New()
			if err != nil {
				return err
			}
			n, err := apply(c, f.cfg, gates, f.cfg.Interleave)
			if err != nil {
				return fmt.Errorf("%s: length %d repetition %d: %w", f.name, seq.Length, rep, err)
			}
			if err := measureAll(c, f.cfg.Qubits); err != nil {
				return err
			}
			f.table.Submit(job.New(job.Conditions{
				job.KeyLength:    seq.Length,
				job.KeyGateArray: gates,
				job.KeyShots:     seq.Shots,
				job.KeySequence:  c.Snapshot(),
				job.KeyGateCount: n,
				job.KeyMeasured:  f.cfg.measured(),
				KeyRepetition:    rep,
			}))
		}
	}
	f.state = StateBuilt
	return nil
}

func (f *FastUnitarity) Execute(ctx context.Context, exec job.Executor) error {
	if err := f.require("execute", StateBuilt); err != nil {
		return err
	}
	if err := job.Dispatch(ctx, exec, f.table); err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	f.state = StateExecuted
	return nil
}

func (f *FastUnitarity) Analyze() (*report.Report, error) {
	if err := f.require("analyze", StateExecuted); err != nil {
		return nil, err
	}
	if err := job.Verify(f.table); err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	parity, err := groupByLength(f.table, func(j *job.Job) float64 {
		r, _ := j.Result()
		return Parity(r)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}

	lengths := f.cfg.lengths()
	x := make([]float64, len(lengths))
	variance := make([]float64, len(lengths))
	for i, l := range lengths {
		x[i] = float64(l)
		variance[i] = stat.PopVariance(parity[l], nil)
	}
	res, err := fit.Curve(fit.ExpDecay, x, variance, []float64{variance[0], 0, fit.DefaultDecayRate})
	if err != nil {
		return nil, fmt.Errorf("%s: fit unitarity: %w", f.name, err)
	}
	f.parity, f.variance, f.fit = parity, variance, res
	f.unitarity = res.Params[2]

	r := report.New(f.name)
	r.Add("fit params for unitarity", res.Params)
	r.Add("unitarity", f.unitarity)
	r.Add("pauli", parity)
	addRunInfo(r, f.cfg)
	f.report = r

	slog.Info("fast unitarity benchmarking analyzed", "unitarity", f.unitarity)
	f.state = StateAnalyzed
	return r, nil
}

func (f *FastUnitarity) Reset() {
	f.table.Reset()
	f.parity = nil
	f.variance = nil
	f.fit = nil
	f.report = nil
	f.state = StateReset
}

// Unitarity returns the fitted decay rate of the parity variance.
func (f *FastUnitarity) Unitarity() float64 { return f.unitarity }

// Variance returns the per-length parity variance.
func (f *FastUnitarity) Variance() []float64 { return f.variance }
