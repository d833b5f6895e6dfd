// Package config loads device and experiment descriptions from CUE.
//
// A config directory holds one CUE package with a device and an experiment
// struct. The package is unified with an embedded schema that closes both
// structs and fills defaults, then decoded into Config.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/estimation"
	"github.com/roach88/qcal/internal/rb"
)

//go:embed schema.cue
var schemaCUE string

// Protocol names an experiment kind.
type Protocol string

const (
	ProtocolStandard         Protocol = "standard"
	ProtocolInterleaved      Protocol = "interleaved"
	ProtocolAdjoint          Protocol = "adjoint"
	ProtocolUnitarity        Protocol = "unitarity"
	ProtocolFastUnitarity    Protocol = "fast_unitarity"
	ProtocolDirectEstimation Protocol = "direct_estimation"
)

// Config is a loaded config directory.
type Config struct {
	Device     Device     `json:"device"`
	Experiment Experiment `json:"experiment"`

	// FileCount is the number of CUE files found.
	FileCount int `json:"-"`
}

// Device describes the qubit layout and the backend circuits compile for.
type Device struct {
	Qubits     []string           `json:"qubits"`
	Crosses    []circuit.Cross    `json:"crosses"`
	Backend    circuit.Kind       `json:"backend"`
	Mitigation circuit.Mitigation `json:"mitigation"`
}

// Experiment describes one protocol run.
type Experiment struct {
	Protocol       Protocol          `json:"protocol"`
	Qubits         []string          `json:"qubits"`
	Group          string            `json:"group"`
	Seed           int64             `json:"seed"`
	InitialInverse bool              `json:"initial_inverse"`
	Sequences      []rb.Sequence     `json:"sequences"`
	Interleave     string            `json:"interleave"`
	Ansatz         string            `json:"ansatz"`
	SPAM           []estimation.SPAM `json:"spam"`
	Executor       Executor          `json:"executor"`
}

// Executor selects where jobs run.
type Executor struct {
	Kind        string  `json:"kind"`
	Error       float64 `json:"error"`
	SampleShots bool    `json:"sample_shots"`
	Seed        int64   `json:"seed"`
	Fixture     string  `json:"fixture"`
}

// LoadError represents an error that occurred during config loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeSchema     = "E201" // Schema violation
	ErrCodeDecode     = "E202" // Decoding into Go types failed
	ErrCodeLabel      = "E203" // Experiment qubit not on the device
	ErrCodeExperiment = "E204" // Protocol settings incomplete
)

// Load reads the CUE package in dir.
func Load(dir string) (*Config, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("embedded schema: %v", err)}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}

	cfg := &Config{FileCount: len(cueFiles)}
	if err := unified.Decode(cfg); err != nil {
		return nil, cueError(ErrCodeDecode, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// cueError keeps the first error's position.
func cueError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if pos := cueerrors.Positions(first); len(pos) > 0 {
		le.Pos = pos[0]
	}
	return le
}

func (c *Config) normalize() {
	for i, q := range c.Device.Qubits {
		c.Device.Qubits[i] = norm.NFC.String(q)
	}
	for i, x := range c.Device.Crosses {
		c.Device.Crosses[i].Control = norm.NFC.String(x.Control)
		c.Device.Crosses[i].Target = norm.NFC.String(x.Target)
	}
	for i, q := range c.Experiment.Qubits {
		c.Experiment.Qubits[i] = norm.NFC.String(q)
	}
}

func (c *Config) validate() error {
	known := make(map[string]bool, len(c.Device.Qubits))
	for _, q := range c.Device.Qubits {
		known[q] = true
	}
	for _, q := range c.Experiment.Qubits {
		if !known[q] {
			return &LoadError{Code: ErrCodeLabel, Message: fmt.Sprintf("experiment qubit %q is not on the device", q)}
		}
	}

	e := c.Experiment
	switch e.Protocol {
	case ProtocolDirectEstimation:
		if len(e.SPAM) == 0 {
			return &LoadError{Code: ErrCodeExperiment, Message: "direct_estimation needs at least one spam setting"}
		}
		if e.Ansatz != "" {
			if _, err := Gate(e.Ansatz); err != nil {
				return &LoadError{Code: ErrCodeExperiment, Message: err.Error()}
			}
		}
	default:
		if len(e.Sequences) == 0 {
			return &LoadError{Code: ErrCodeExperiment, Message: fmt.Sprintf("%s needs at least one sequence", e.Protocol)}
		}
	}
	if e.Protocol == ProtocolInterleaved && e.Interleave == "" {
		return &LoadError{Code: ErrCodeExperiment, Message: "interleaved needs an interleave gate"}
	}
	if e.Interleave != "" {
		if _, err := Gate(e.Interleave); err != nil {
			return &LoadError{Code: ErrCodeExperiment, Message: err.Error()}
		}
	}
	if e.Executor.Kind == "replay" && e.Executor.Fixture == "" {
		return &LoadError{Code: ErrCodeExperiment, Message: "replay executor needs a fixture path"}
	}
	return nil
}

// Template returns the circuit template for the device.
func (d Device) Template() (circuit.Template, error) {
	l, err := circuit.NewLayout(d.Qubits, d.Crosses)
	if err != nil {
		return circuit.Template{}, err
	}
	return circuit.Template{Layout: l, Kind: d.Backend, Mitigation: d.Mitigation}, nil
}
