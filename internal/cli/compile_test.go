package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const compileExperiment = `
package qcal

experiment: {
	protocol: "standard"
	qubits: ["Q0"]
	seed: 5
	sequences: [{length: 1, repetitions: 2}]
}
`

func TestCompile_YAMLToStdout(t *testing.T) {
	dir := writeConfig(t, hwDevice, compileExperiment)
	opts := &CompileOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.NoError(t, err)

	var res CompileResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "randomized_benchmarking", res.Protocol)
	assert.Equal(t, "hardware", string(res.Backend))
	require.Len(t, res.Jobs, 2)
	for i, j := range res.Jobs {
		assert.Equal(t, i, j.Index)
		assert.Equal(t, 1, j.Conditions["length"])
		assert.Equal(t, i, j.Conditions["repetition"])
		assert.Contains(t, j.Streams["Q0"], "HPIa")
		assert.Contains(t, j.Streams, "Q0-Q1:port1")
		assert.NotContains(t, j.Conditions, "sequence")
		assert.NotContains(t, j.Conditions, "gate_array")
	}
}

func TestCompile_OutputFile(t *testing.T) {
	dir := writeConfig(t, hwDevice, compileExperiment)
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	opts := &CompileOptions{RootOptions: &RootOptions{Format: "text"}, Output: path}

	out, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 jobs")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "protocol: randomized_benchmarking")
}

func TestCompile_JSON(t *testing.T) {
	dir := writeConfig(t, hwDevice, compileExperiment)
	opts := &CompileOptions{RootOptions: &RootOptions{Format: "json"}}

	out, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   CompileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.Jobs, 2)
}

func TestCompile_SameSeedSameStreams(t *testing.T) {
	dir := writeConfig(t, hwDevice, compileExperiment)
	opts := &CompileOptions{RootOptions: &RootOptions{Format: "text"}}

	first, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.NoError(t, err)
	second, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompile_RejectsSimulationBackend(t *testing.T) {
	dir := writeConfig(t, simDevice, compileExperiment)
	opts := &CompileOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E404]")
}

func TestCompile_BadConfig(t *testing.T) {
	dir := writeConfig(t, hwDevice)
	opts := &CompileOptions{RootOptions: &RootOptions{Format: "json"}}

	out, err := runIn(func(cmd *cobra.Command) error { return runCompile(cmd, opts, dir) })
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `"code":"E201"`)
}
