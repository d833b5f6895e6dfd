package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/config"
	"github.com/roach88/qcal/internal/job"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string
}

// CompiledJob is one job of a compile dump.
type CompiledJob struct {
	Table      int               `yaml:"table" json:"table"`
	Index      int               `yaml:"index" json:"index"`
	Conditions map[string]any    `yaml:"conditions" json:"conditions"`
	Streams    map[string]string `yaml:"streams" json:"streams"`
}

// CompileResult is the compile payload.
type CompileResult struct {
	Protocol string        `yaml:"protocol" json:"protocol"`
	Backend  circuit.Kind  `yaml:"backend" json:"backend"`
	Jobs     []CompiledJob `yaml:"jobs" json:"jobs"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <config-dir>",
		Short: "Compile an experiment into pulse token streams",
		Long: `Build every job of the configured experiment and dump the token stream
of each qubit and cross as YAML. The device backend must be hardware or
mitigated.

Example:
  qcal compile ./calibration
  qcal compile ./calibration -o jobs.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write YAML to file instead of stdout")

	return cmd
}

func runCompile(cmd *cobra.Command, opts *CompileOptions, dir string) error {
	out := opts.formatter(cmd)

	cfg, err := config.Load(dir)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to load config", err)
	}
	if cfg.Device.Backend == circuit.KindSimulation {
		err := fmt.Errorf("device backend is %q; compile needs hardware or mitigated", cfg.Device.Backend)
		_ = out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "nothing to compile", err)
	}

	exp, err := newExperiment(cfg)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to build experiment", err)
	}
	res := compileResult(exp, cfg.Device.Backend)
	out.VerboseLog("compiled %d jobs", len(res.Jobs))

	if opts.Format == "json" && opts.Output == "" {
		return out.Success(res)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return out.Fail(ExitFailure, "failed to encode jobs", err)
	}
	if err := enc.Close(); err != nil {
		return out.Fail(ExitFailure, "failed to encode jobs", err)
	}

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0644); err != nil {
		_ = out.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return out.Success(fmt.Sprintf("%s Wrote %d jobs to %s", okStyle.Render("✓"), len(res.Jobs), opts.Output))
}

func compileResult(exp experiment, backend circuit.Kind) CompileResult {
	res := CompileResult{Protocol: exp.Name(), Backend: backend, Jobs: []CompiledJob{}}
	for ti, t := range exp.Tables() {
		for i, j := range t.All() {
			cj := CompiledJob{Table: ti, Index: i, Conditions: map[string]any{}}
			for k, v := range j.Conditions() {
				switch k {
				case job.KeySequence:
					if seq, ok := v.(circuit.Sequence); ok {
						cj.Streams = seq.Map()
					}
				case job.KeyGateArray:
				default:
					cj.Conditions[k] = v
				}
			}
			res.Jobs = append(res.Jobs, cj)
		}
	}
	return res
}
