package rb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/qcal/internal/fit"
	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/report"
)

// Adjoint runs the same sequences with and without an initial bit flip and
// fits the mean squared difference of their populations to
// p1ˣ/3 + 2·p2ˣ/3.
type Adjoint struct {
	lifecycle
	standard *Standard
	inversed *Standard
	variance []float64
	p1, p2   float64
	fit      *fit.Result
	report   *report.Report
}

// NewAdjoint builds both sub-protocols. cfg.InitialInverse is ignored.
func NewAdjoint(cfg Config) (*Adjoint, error) {
	cfg.InitialInverse = false
	std, err := newStandard("randomized_benchmarking", cfg, cfg.Interleave)
	if err != nil {
		return nil, err
	}
	cfg.InitialInverse = true
	inv, err := newStandard("randomized_benchmarking_inversed", cfg, cfg.Interleave)
	if err != nil {
		return nil, err
	}
	return &Adjoint{
		lifecycle: lifecycle{name: "adjoint_randomized_benchmarking", state: StateBuilt},
		standard:  std,
		inversed:  inv,
	}, nil
}

func (p *Adjoint) Name() string { return p.name }

func (p *Adjoint) Tables() []*job.Table {
	return []*job.Table{p.standard.table, p.inversed.table}
}

// Standard returns the sub-protocol without the initial flip.
func (p *Adjoint) Standard() *Standard { return p.standard }

// Inversed returns the sub-protocol with the initial flip.
func (p *Adjoint) Inversed() *Standard { return p.inversed }

func (p *Adjoint) Build() error {
	if err := p.require("build", StateReset); err != nil {
		return err
	}
	if err := p.standard.Build(); err != nil {
		return err
	}
	if err := p.inversed.Build(); err != nil {
		return err
	}
	p.state = StateBuilt
	return nil
}

func (p *Adjoint) Execute(ctx context.Context, exec job.Executor) error {
	if err := p.require("execute", StateBuilt); err != nil {
		return err
	}
	if err := p.standard.Execute(ctx, exec); err != nil {
		return err
	}
	if err := p.inversed.Execute(ctx, exec); err != nil {
		return err
	}
	p.state = StateExecuted
	return nil
}

func (p *Adjoint) Analyze() (*report.Report, error) {
	if err := p.require("analyze", StateExecuted); err != nil {
		return nil, err
	}
	std, err := p.standard.Analyze()
	if err != nil {
		return nil, err
	}
	inv, err := p.inversed.Analyze()
	if err != nil {
		return nil, err
	}

	lengths := p.standard.decay.Lengths
	x := make([]float64, len(lengths))
	p.variance = make([]float64, len(lengths))
	for i, l := range lengths {
		a, b := p.standard.decay.Data[l], p.inversed.decay.Data[l]
		if len(a) != len(b) {
			return nil, fmt.Errorf("%s: length %d has %d and %d repetitions", p.name, l, len(a), len(b))
		}
		var sum float64
		for k := range a {
			diff := a[k] - b[k]
			sum += diff * diff
		}
		p.variance[i] = sum / float64(len(a))
		x[i] = float64(l)
	}

	guess := p.standard.decay.P
	res, err := fit.Curve(fit.DoubleExpDecay, x, p.variance, []float64{guess, guess})
	if err != nil {
		return nil, fmt.Errorf("%s: fit variance decay: %w", p.name, err)
	}
	p.fit = res
	p.p1, p.p2 = res.Params[0], res.Params[1]

	r := report.New(p.name)
	r.Add("variance", p.variance)
	r.Add("p1", p.p1)
	r.Add("p2", p.p2)
	r.Add("standard_report", std)
	r.Add("inversed_report", inv)
	p.report = r

	slog.Info("adjoint benchmarking analyzed", "p1", p.p1, "p2", p.p2)
	p.state = StateAnalyzed
	return r, nil
}

func (p *Adjoint) Reset() {
	p.standard.Reset()
	p.inversed.Reset()
	p.variance = nil
	p.fit = nil
	p.report = nil
	p.state = StateReset
}

// Variance returns the per-length mean squared population difference.
func (p *Adjoint) Variance() []float64 { return p.variance }

// Rates returns the fitted (p1, p2).
func (p *Adjoint) Rates() (float64, float64) { return p.p1, p.p2 }
