package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/config"
	"github.com/roach88/qcal/internal/estimation"
	"github.com/roach88/qcal/internal/executor"
	"github.com/roach88/qcal/internal/group"
	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/linalg"
	"github.com/roach88/qcal/internal/metrics"
	"github.com/roach88/qcal/internal/rb"
	"github.com/roach88/qcal/internal/report"
)

// experiment is the part of a protocol lifecycle the commands drive.
type experiment interface {
	Name() string
	Execute(ctx context.Context, exec job.Executor) error
	Analyze() (*report.Report, error)
	Tables() []*job.Table
}

// newExperiment builds the configured protocol. Construction compiles every
// job, so a returned experiment is ready to execute.
func newExperiment(cfg *config.Config) (experiment, error) {
	tmpl, err := cfg.Device.Template()
	if err != nil {
		return nil, err
	}
	e := cfg.Experiment

	if e.Protocol == config.ProtocolDirectEstimation {
		var ansatz estimation.Ansatz
		if e.Ansatz != "" {
			g, err := config.Gate(e.Ansatz)
			if err != nil {
				return nil, err
			}
			ansatz = gateAnsatz(g, e.Qubits)
		}
		return estimation.New(tmpl, e.Qubits, ansatz, e.SPAM)
	}

	sampler, err := newSampler(e.Group, len(e.Qubits))
	if err != nil {
		return nil, err
	}
	rcfg := rb.Config{
		Template:       tmpl,
		Qubits:         e.Qubits,
		Group:          sampler,
		Sequences:      e.Sequences,
		Seed:           e.Seed,
		InitialInverse: e.InitialInverse,
	}

	switch e.Protocol {
	case config.ProtocolStandard:
		return rb.NewStandard(rcfg)
	case config.ProtocolInterleaved:
		g, err := config.Gate(e.Interleave)
		if err != nil {
			return nil, err
		}
		return rb.NewInterleaved(rcfg, rb.Interleave{Name: strings.ToLower(e.Interleave), Gate: g})
	case config.ProtocolAdjoint:
		return rb.NewAdjoint(rcfg)
	case config.ProtocolUnitarity:
		return rb.NewUnitarity(rcfg)
	case config.ProtocolFastUnitarity:
		return rb.NewFastUnitarity(rcfg)
	}
	return nil, fmt.Errorf("unknown protocol %q", e.Protocol)
}

func newSampler(name string, n int) (group.Sampler, error) {
	switch name {
	case "clifford", "":
		return group.NewClifford(n)
	case "haar":
		return group.NewHaar(n)
	}
	return nil, fmt.Errorf("unknown group %q", name)
}

// gateAnsatz plays a one-qubit gate on every qubit, or a two-qubit gate on
// the cross between the first two.
func gateAnsatz(g linalg.Matrix, qubits []string) estimation.Ansatz {
	return func(c *circuit.Circuit) error {
		if g.Dim() == 4 {
			if len(qubits) != 2 {
				return fmt.Errorf("two-qubit ansatz needs 2 qubits, got %d", len(qubits))
			}
			return c.SU4(g, qubits[0]+"-"+qubits[1])
		}
		for _, q := range qubits {
			if err := c.SU2(g, q); err != nil {
				return err
			}
		}
		return nil
	}
}

// newExecutor builds the configured executor, wrapped for metrics and
// recording. The recorder captures results in dispatch order. A non-nil
// fixture replaces the configured executor.
func newExecutor(cfg *config.Config, protocol string, m *metrics.Metrics, fixture *executor.Fixture) (job.Executor, *executor.Recorder, error) {
	x := cfg.Experiment.Executor
	var inner job.Executor
	switch {
	case fixture != nil:
		x.Kind = "replay"
		inner = executor.NewReplay(fixture)
	case x.Kind == "simulator" || x.Kind == "":
		if cfg.Device.Backend != circuit.KindSimulation {
			return nil, nil, fmt.Errorf("simulator executor needs the simulation backend, device uses %q", cfg.Device.Backend)
		}
		inner = &executor.Simulator{Error: x.Error, SampleShots: x.SampleShots, Seed: x.Seed}
	case x.Kind == "replay":
		f, err := executor.LoadFixtureFile(x.Fixture)
		if err != nil {
			return nil, nil, err
		}
		inner = executor.NewReplay(f)
	default:
		return nil, nil, fmt.Errorf("unknown executor %q", x.Kind)
	}

	rec := executor.NewRecorder(inner, protocol)
	if m == nil {
		return rec, rec, nil
	}
	return &executor.Instrumented{Name: x.Kind, Inner: rec, Metrics: m}, rec, nil
}
