package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/linalg"
	"github.com/roach88/qcal/internal/rb"
)

const device = `
package qcal

device: qubits: ["Q0"]
`

func writeConfig(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for i, content := range files {
		name := filepath.Join(dir, "f"+string(rune('a'+i))+".cue")
		require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	}
	return dir
}

func loadCode(t *testing.T, dir string) string {
	t.Helper()
	_, err := Load(dir)
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	return le.Code
}

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load("testdata/valid")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.FileCount)
	assert.Equal(t, []string{"Q0", "Q1"}, cfg.Device.Qubits)
	assert.Equal(t, []circuit.Cross{{Control: "Q0", Target: "Q1", Port: circuit.Port1}}, cfg.Device.Crosses)
	assert.Equal(t, circuit.KindHardware, cfg.Device.Backend)
	assert.Equal(t, circuit.Mitigation{Number: 2, Strategy: circuit.StrategyRepeat}, cfg.Device.Mitigation)

	e := cfg.Experiment
	assert.Equal(t, ProtocolInterleaved, e.Protocol)
	assert.Equal(t, "clifford", e.Group)
	assert.Equal(t, int64(42), e.Seed)
	assert.False(t, e.InitialInverse)
	assert.Equal(t, []rb.Sequence{
		{Length: 0, Repetitions: 10, Shots: 1000},
		{Length: 4, Repetitions: 10, Shots: 1000},
		{Length: 16, Repetitions: 10, Shots: 500},
	}, e.Sequences)
	assert.Equal(t, Executor{Kind: "simulator", Error: 0.01}, e.Executor)

	tmpl, err := cfg.Device.Template()
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.Layout.NumQubits())
	assert.Equal(t, circuit.KindHardware, tmpl.Kind)
}

func TestLoad_Defaults(t *testing.T) {
	dir := writeConfig(t, device, `
package qcal

experiment: {
	protocol: "unitarity"
	qubits: ["Q0"]
	sequences: [{length: 1, repetitions: 1}]
}
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, circuit.KindSimulation, cfg.Device.Backend)
	assert.Empty(t, cfg.Device.Crosses)
	assert.Equal(t, circuit.StrategyIdle, cfg.Device.Mitigation.Strategy)
	assert.Equal(t, "simulator", cfg.Experiment.Executor.Kind)
}

func TestLoad_NormalisesLabels(t *testing.T) {
	// Decomposed é: "e" followed by a combining acute accent.
	dir := writeConfig(t, `
package qcal

device: qubits: ["Qe\u0301"]
experiment: {
	protocol: "standard"
	qubits: ["Qe\u0301"]
	sequences: [{length: 1, repetitions: 1}]
}
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Q\u00e9", cfg.Device.Qubits[0])
	assert.Equal(t, "Q\u00e9", cfg.Experiment.Qubits[0])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		code  string
	}{
		{
			name:  "unknown field",
			files: []string{`package qcal
device: {qubits: ["Q0"], colour: "red"}
experiment: {protocol: "standard", qubits: ["Q0"], sequences: [{length: 1, repetitions: 1}]}
`},
			code: ErrCodeSchema,
		},
		{
			name: "unknown protocol",
			files: []string{device, `package qcal
experiment: {protocol: "tomography", qubits: ["Q0"]}
`},
			code: ErrCodeSchema,
		},
		{
			name: "negative length",
			files: []string{device, `package qcal
experiment: {protocol: "standard", qubits: ["Q0"], sequences: [{length: -1, repetitions: 1}]}
`},
			code: ErrCodeSchema,
		},
		{
			name: "missing experiment",
			files: []string{device},
			code:  ErrCodeSchema,
		},
		{
			name: "qubit not on device",
			files: []string{device, `package qcal
experiment: {protocol: "standard", qubits: ["Q7"], sequences: [{length: 1, repetitions: 1}]}
`},
			code: ErrCodeLabel,
		},
		{
			name: "no sequences",
			files: []string{device, `package qcal
experiment: {protocol: "adjoint", qubits: ["Q0"]}
`},
			code: ErrCodeExperiment,
		},
		{
			name: "interleaved without gate",
			files: []string{device, `package qcal
experiment: {protocol: "interleaved", qubits: ["Q0"], sequences: [{length: 1, repetitions: 1}]}
`},
			code: ErrCodeExperiment,
		},
		{
			name: "unknown gate",
			files: []string{device, `package qcal
experiment: {protocol: "interleaved", interleave: "T", qubits: ["Q0"], sequences: [{length: 1, repetitions: 1}]}
`},
			code: ErrCodeExperiment,
		},
		{
			name: "direct estimation without spam",
			files: []string{device, `package qcal
experiment: {protocol: "direct_estimation", qubits: ["Q0"]}
`},
			code: ErrCodeExperiment,
		},
		{
			name: "replay without fixture",
			files: []string{device, `package qcal
experiment: {protocol: "standard", qubits: ["Q0"], sequences: [{length: 1, repetitions: 1}], executor: kind: "replay"}
`},
			code: ErrCodeExperiment,
		},
		{
			name:  "syntax",
			files: []string{"package qcal\ndevice: {"},
			code:  ErrCodeLoadFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, loadCode(t, writeConfig(t, tt.files...)))
		})
	}
}

func TestLoad_DirectoryErrors(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, loadCode(t, filepath.Join(t.TempDir(), "missing")))
	assert.Equal(t, ErrCodeNoFiles, loadCode(t, t.TempDir()))

	file := filepath.Join(t.TempDir(), "x.cue")
	require.NoError(t, os.WriteFile(file, []byte(device), 0644))
	assert.Equal(t, ErrCodeNotFound, loadCode(t, file))
}

func TestLoadError_Position(t *testing.T) {
	dir := writeConfig(t, `package qcal
device: {qubits: ["Q0"], colour: "red"}
experiment: {protocol: "standard", qubits: ["Q0"], sequences: [{length: 1, repetitions: 1}]}
`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeSchema)
}

func TestGate(t *testing.T) {
	x, err := Gate("x")
	require.NoError(t, err)
	assert.Less(t, x.MaxAbsDiff(linalg.PauliX()), 1e-12)

	for _, name := range []string{"I", "X", "Y", "Z", "H", "S", "CNOT", "CZ", "SWAP"} {
		g, err := Gate(name)
		require.NoError(t, err, name)
		assert.True(t, g.IsUnitary(1e-12), name)
	}

	_, err = Gate("T")
	assert.ErrorContains(t, err, "unknown gate")
}
