package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcal/internal/testutil"
)

// storedRun runs the standard benchmark once and returns the database path.
func storedRun(t *testing.T) string {
	t.Helper()
	dir := writeConfig(t, simDevice, standardExperiment)
	db := filepath.Join(t.TempDir(), "qcal.db")
	_, err := execRun(t, jsonRunOptions(db, testutil.NewFixedIDGenerator("run-1")), dir)
	require.NoError(t, err)
	return db
}

func execReport(format, db string, args ...string) (string, error) {
	opts := &ReportOptions{RootOptions: &RootOptions{Format: format}, Database: db}
	return runIn(func(cmd *cobra.Command) error { return runReport(cmd, opts, args) })
}

func TestReport_ListRuns(t *testing.T) {
	db := storedRun(t)

	out, err := execReport("json", db)
	require.NoError(t, err)
	var resp struct {
		Data RunList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, "run-1", resp.Data.Runs[0].ID)
	assert.Equal(t, int64(1), resp.Data.Runs[0].Seq)
	assert.Equal(t, "randomized_benchmarking", resp.Data.Runs[0].Protocol)
	assert.Equal(t, int64(11), resp.Data.Runs[0].Seed)

	text, err := execReport("text", db)
	require.NoError(t, err)
	assert.Contains(t, text, "SEQ")
	assert.Contains(t, text, "run-1")
}

func TestReport_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	out, err := execReport("text", db)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs stored")

	out, err = execReport("json", db)
	require.NoError(t, err)
	assert.Contains(t, out, `"runs":[]`)
}

func TestReport_ShowRun(t *testing.T) {
	db := storedRun(t)

	out, err := execReport("json", db, "run-1")
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Run     RunSummary       `json:"run"`
			Reports []map[string]any `json:"reports"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-1", resp.Data.Run.ID)
	require.Len(t, resp.Data.Reports, 1)
	assert.Equal(t, "randomized_benchmarking", resp.Data.Reports[0]["name"])
	assert.Contains(t, resp.Data.Reports[0], "average gate fidelity")

	text, err := execReport("text", db, "run-1")
	require.NoError(t, err)
	assert.Contains(t, text, "randomized_benchmarking")
	assert.Contains(t, text, "average gate fidelity")
}

func TestReport_UnknownRun(t *testing.T) {
	db := storedRun(t)

	out, err := execReport("text", db, "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E403]")
}
