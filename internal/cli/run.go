package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/qcal/internal/config"
	"github.com/roach88/qcal/internal/executor"
	"github.com/roach88/qcal/internal/metrics"
	"github.com/roach88/qcal/internal/report"
	"github.com/roach88/qcal/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database   string
	MetricsOut string
	Record     string

	// ReplayRun replays the stored results of an earlier run instead of
	// calling the configured executor.
	ReplayRun string

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDs store.IDGenerator
}

// RunResult is the run payload.
type RunResult struct {
	RunID    string         `json:"run_id"`
	Protocol string         `json:"protocol"`
	Jobs     int            `json:"jobs"`
	Report   *report.Report `json:"report"`
}

// Text renders the result for terminals.
func (r RunResult) Text() string {
	return fmt.Sprintf("%s run %s: %d jobs\n%s\n", okStyle.Render("✓"), r.RunID, r.Jobs, renderReport(r.Report))
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config-dir>",
		Short: "Execute and analyze an experiment",
		Long: `Load the device and experiment from a CUE config directory, build every
job, dispatch the jobs to the configured executor, fit the results and
store run, jobs and report in a SQLite database (created if missing).

Example:
  qcal run --db ./qcal.db ./calibration
  qcal run --db ./qcal.db ./calibration --metrics-out run.prom --record fixture.yaml
  qcal run --db ./qcal.db ./calibration --replay-run 0190f0c4-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.MetricsOut, "metrics-out", "", "write Prometheus metrics to file")
	cmd.Flags().StringVar(&opts.Record, "record", "", "write executor results to a YAML fixture")
	cmd.Flags().StringVar(&opts.ReplayRun, "replay-run", "", "replay the results of a stored run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExperiment(cmd *cobra.Command, opts *RunOptions, dir string) error {
	out := opts.formatter(cmd)

	slog.Info("loading config", "dir", dir)
	cfg, err := config.Load(dir)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to load config", err)
	}

	exp, err := newExperiment(cfg)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to build experiment", err)
	}
	jobs := 0
	for _, t := range exp.Tables() {
		jobs += t.Len()
	}
	slog.Info("experiment built", "protocol", exp.Name(), "tables", len(exp.Tables()), "jobs", jobs)

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var fixture *executor.Fixture
	if opts.ReplayRun != "" {
		results, err := st.ReadResults(ctx, opts.ReplayRun)
		if err != nil {
			_ = out.Error(ErrCodeRunNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read stored run", err)
		}
		fixture = &executor.Fixture{Protocol: exp.Name(), Results: results}
	}

	m := metrics.New()
	exec, rec, err := newExecutor(cfg, exp.Name(), m, fixture)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to build executor", err)
	}

	if err := exp.Execute(ctx, exec); err != nil {
		_ = writeMetrics(opts.MetricsOut, m)
		return out.Fail(ExitFailure, "execution failed", err)
	}
	if err := rec.Drained(); err != nil {
		_ = writeMetrics(opts.MetricsOut, m)
		return out.Fail(ExitFailure, "execution failed", err)
	}
	rep, err := exp.Analyze()
	if err != nil {
		_ = writeMetrics(opts.MetricsOut, m)
		return out.Fail(ExitFailure, "analysis failed", err)
	}
	recordMetrics(m, rep)

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	run, err := persist(ctx, st, ids.Generate(), exp, cfg, rep)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to store run", err)
	}
	slog.Info("run stored", "run_id", run.ID, "seq", run.Seq)

	if opts.Record != "" {
		if err := writeFixture(opts.Record, rec.Fixture()); err != nil {
			_ = out.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitFailure, "failed to write fixture", err)
		}
	}
	if err := writeMetrics(opts.MetricsOut, m); err != nil {
		_ = out.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to write metrics", err)
	}

	return out.SuccessWithRun(run.ID, RunResult{RunID: run.ID, Protocol: exp.Name(), Jobs: jobs, Report: rep})
}

func persist(ctx context.Context, st *store.Store, id string, exp experiment, cfg *config.Config, rep *report.Report) (store.Run, error) {
	run, err := st.CreateRun(ctx, id, exp.Name(), cfg.Experiment.Seed, cfg)
	if err != nil {
		return store.Run{}, err
	}
	for i, t := range exp.Tables() {
		if err := st.WriteTable(ctx, run.ID, i, t); err != nil {
			return store.Run{}, err
		}
	}
	if err := st.WriteReport(ctx, run.ID, rep); err != nil {
		return store.Run{}, err
	}
	return run, nil
}

// recordMetrics sets the fidelity and decay gauges from r and every report
// nested in it.
func recordMetrics(m *metrics.Metrics, r *report.Report) {
	if f, ok := r.Float("average gate fidelity"); ok {
		m.SetFidelity(r.Name, f)
	}
	if v, ok := r.Get("fit params : a, b, p"); ok {
		if p, ok := v.([]float64); ok && len(p) == 3 {
			m.SetDecay(r.Name, "p", p[2])
		}
	}
	for _, q := range []string{"unitarity", "leakage", "p1", "p2", "decay ratio"} {
		if f, ok := r.Float(q); ok {
			m.SetDecay(r.Name, strings.ReplaceAll(q, " ", "_"), f)
		}
	}
	for _, e := range r.Entries() {
		if sub, ok := e.Value.(*report.Report); ok {
			recordMetrics(m, sub)
		}
	}
}

func writeMetrics(path string, m *metrics.Metrics) error {
	if path == "" {
		return nil
	}
	return m.WriteFile(path)
}

func writeFixture(path string, f *executor.Fixture) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
