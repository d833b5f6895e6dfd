package rb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/report"
)

// Protocol is the lifecycle shared by every benchmarking variant.
type Protocol interface {
	Name() string
	State() State
	Build() error
	Execute(ctx context.Context, exec job.Executor) error
	Analyze() (*report.Report, error)
	Reset()

	// Tables returns the protocol's job tables in dispatch order.
	Tables() []*job.Table
}

// Standard is single-decay randomized benchmarking. With an Interleave in
// its config it is the interleaved half of Interleaved.
type Standard struct {
	lifecycle
	cfg        Config
	interleave *Interleave
	table      *job.Table
	decay      *Decay
	report     *report.Report
}

// NewStandard validates cfg and builds the job table.
func NewStandard(cfg Config) (*Standard, error) {
	return newStandard("randomized_benchmarking", cfg, cfg.Interleave)
}

func newStandard(name string, cfg Config, interleave *Interleave) (*Standard, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Standard{
		lifecycle:  lifecycle{name: name},
		cfg:        cfg,
		interleave: interleave,
		table:      job.NewTable(),
	}
	if err := s.Build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Standard) Name() string { return s.name }

func (s *Standard) Tables() []*job.Table { return []*job.Table{s.table} }

// Table returns the job table.
func (s *Standard) Table() *job.Table { return s.table }

// Build samples every sequence and submits one job per sequence.
func (s *Standard) Build() error {
	if err := s.require("build", StateReset); err != nil {
		return err
	}
	s.table.Reset()
	for _, seq := range s.cfg.Sequences {
		arrays, err := sequences(s.cfg, seq, s.interleave, true)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		for rep, gates := range arrays {
			c, err := s.cfg.Template.New()
			if err != nil {
				return err
			}
			if s.cfg.InitialInverse {
				for _, q := range s.cfg.Qubits {
					if err := c.X(q); err != nil {
						return err
					}
				}
			}
			n, err := apply(c, s.cfg, gates, s.interleave)
			if err != nil {
				return fmt.Errorf("%s: length %d repetition %d: %w", s.name, seq.Length, rep, err)
			}
			if err := measureAll(c, s.cfg.Qubits); err != nil {
				return err
			}
			s.table.Submit(job.New(job.Conditions{
				job.KeyLength:     seq.Length,
				job.KeyGateArray:  gates,
				job.KeyShots:      seq.Shots,
				job.KeySequence:   c.Snapshot(),
				job.KeyGateCount:  n,
				job.KeyMeasured:   s.cfg.measured(),
				KeyRepetition:     rep,
				KeyInterleaved:    s.interleave != nil,
				KeyInitialInverse: s.cfg.InitialInverse,
			}))
		}
	}
	slog.Debug("benchmarking jobs built", "protocol", s.name, "jobs", s.table.Len(), "seed", s.cfg.Seed)
	s.state = StateBuilt
	return nil
}

// Execute dispatches the job table to exec and waits for every result.
func (s *Standard) Execute(ctx context.Context, exec job.Executor) error {
	if err := s.require("execute", StateBuilt); err != nil {
		return err
	}
	if err := job.Dispatch(ctx, exec, s.table); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	s.state = StateExecuted
	return nil
}

// Analyze fits the population decay and returns the report.
func (s *Standard) Analyze() (*report.Report, error) {
	if err := s.require("analyze", StateExecuted); err != nil {
		return nil, err
	}
	if err := job.Verify(s.table); err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	d, err := fitDecay(s.cfg, s.table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	s.decay = d

	r := report.New(s.name)
	r.Add("average gate fidelity", d.Fidelity)
	r.Add("fit params : a, b, p", []float64{d.A, d.B, d.P})
	if se := d.Fit.StdErr(); se != nil {
		r.Add("fit standard errors : a, b, p", se)
	}
	r.Add("population : average", d.Mean)
	r.Add("population : standard deviation", d.Std)
	r.Add("data table", d.Data)
	addRunInfo(r, s.cfg)
	s.report = r

	slog.Info("benchmarking analyzed", "protocol", s.name, "p", d.P, "fidelity", d.Fidelity)
	s.state = StateAnalyzed
	return r, nil
}

// Reset clears jobs and analysis. Build must run before the next Execute.
func (s *Standard) Reset() {
	s.table.Reset()
	s.decay = nil
	s.report = nil
	s.state = StateReset
}

// Decay returns the fit, or nil before Analyze.
func (s *Standard) Decay() *Decay { return s.decay }

// Report returns the last report, or nil before Analyze.
func (s *Standard) Report() *report.Report { return s.report }

// Histograms groups the raw results by length. It is available once the
// protocol has executed.
func (s *Standard) Histograms() (map[int][]map[string]float64, error) {
	if s.state != StateExecuted && s.state != StateAnalyzed {
		return nil, &StateError{Protocol: s.name, Op: "read histograms", State: s.state, Want: StateExecuted}
	}
	return Histograms(s.table)
}

func measureAll(c *circuit.Circuit, qubits []string) error {
	for _, q := range qubits {
		if err := c.Measurement("Z", q); err != nil {
			return err
		}
	}
	return nil
}

func addRunInfo(r *report.Report, cfg Config) {
	r.Add("sequence", cfg.Sequences)
	r.Add("seed", cfg.Seed)
	r.Add("qubits", cfg.Qubits)
}
