package rb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/report"
)

// Interleaved runs a reference standard protocol and a second one with the
// reference gate after every random gate. The ratio of their decay rates
// gives the fidelity of that gate.
type Interleaved struct {
	lifecycle
	standard    *Standard
	interleaved *Standard
	ratio       float64
	fidelity    float64
	report      *report.Report
}

// NewInterleaved builds both sub-protocols from cfg and il.
func NewInterleaved(cfg Config, il Interleave) (*Interleaved, error) {
	cfg.Interleave = nil
	std, err := newStandard("randomized_benchmarking", cfg, nil)
	if err != nil {
		return nil, err
	}
	cfg.Interleave = &il
	irb, err := newStandard("randomized_benchmarking_interleaved_"+il.Name, cfg, &il)
	if err != nil {
		return nil, err
	}
	return &Interleaved{
		lifecycle:   lifecycle{name: "interleaved_randomized_benchmarking", state: StateBuilt},
		standard:    std,
		interleaved: irb,
	}, nil
}

func (p *Interleaved) Name() string { return p.name }

func (p *Interleaved) Tables() []*job.Table {
	return []*job.Table{p.standard.table, p.interleaved.table}
}

// Standard returns the reference sub-protocol.
func (p *Interleaved) Standard() *Standard { return p.standard }

// Interleaved returns the sub-protocol carrying the reference gate.
func (p *Interleaved) Interleaved() *Standard { return p.interleaved }

func (p *Interleaved) Build() error {
	if err := p.require("build", StateReset); err != nil {
		return err
	}
	if err := p.standard.Build(); err != nil {
		return err
	}
	if err := p.interleaved.Build(); err != nil {
		return err
	}
	p.state = StateBuilt
	return nil
}

func (p *Interleaved) Execute(ctx context.Context, exec job.Executor) error {
	if err := p.require("execute", StateBuilt); err != nil {
		return err
	}
	if err := p.standard.Execute(ctx, exec); err != nil {
		return err
	}
	if err := p.interleaved.Execute(ctx, exec); err != nil {
		return err
	}
	p.state = StateExecuted
	return nil
}

// Analyze fits both decays. The gate's decay rate is p_interleaved/p_standard.
func (p *Interleaved) Analyze() (*report.Report, error) {
	if err := p.require("analyze", StateExecuted); err != nil {
		return nil, err
	}
	std, err := p.standard.Analyze()
	if err != nil {
		return nil, err
	}
	irb, err := p.interleaved.Analyze()
	if err != nil {
		return nil, err
	}
	ps, pi := p.standard.decay.P, p.interleaved.decay.P
	if ps == 0 {
		return nil, fmt.Errorf("%s: reference decay rate is zero", p.name)
	}
	p.ratio = pi / ps
	p.fidelity = Fidelity(p.standard.cfg.numQubits(), p.ratio)

	r := report.New(p.name)
	r.Add("average gate fidelity", p.fidelity)
	r.Add("decay ratio", p.ratio)
	r.Add("standard_report", std)
	r.Add("interleaved_report", irb)
	p.report = r

	slog.Info("interleaved benchmarking analyzed", "gate", p.interleaved.interleave.Name, "ratio", p.ratio, "fidelity", p.fidelity)
	p.state = StateAnalyzed
	return r, nil
}

func (p *Interleaved) Reset() {
	p.standard.Reset()
	p.interleaved.Reset()
	p.report = nil
	p.state = StateReset
}

// Fidelity returns the interleaved gate fidelity after Analyze.
func (p *Interleaved) Fidelity() float64 { return p.fidelity }

// Ratio returns p_interleaved/p_standard after Analyze.
func (p *Interleaved) Ratio() float64 { return p.ratio }
