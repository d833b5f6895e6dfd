package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const simDevice = `
package qcal

device: qubits: ["Q0"]
`

const hwDevice = `
package qcal

device: {
	qubits: ["Q0", "Q1"]
	crosses: [{control: "Q0", target: "Q1"}]
	backend: "hardware"
}
`

// writeConfig writes each content as its own .cue file in a temp dir.
func writeConfig(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for i, content := range files {
		name := filepath.Join(dir, string(rune('a'+i))+".cue")
		require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	}
	return dir
}

// runIn calls fn with a bare command whose stdout is captured.
func runIn(fn func(cmd *cobra.Command) error) (string, error) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	err := fn(cmd)
	return buf.String(), err
}
