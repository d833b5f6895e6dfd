// Package estimation builds direct-estimation experiments: prepare a Pauli
// eigenstate on every qubit, run an ansatz, rotate each qubit's measurement
// axis, and read out.
package estimation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/report"
)

// Job condition keys.
const (
	KeyPrepPauli = "prep_pauli"
	KeyPrepIndex = "prep_index"
	KeyMeasPauli = "meas_pauli"
)

// SPAM is one preparation/measurement setting. Character i of each field
// applies to qubit i: PrepPauli and MeasPauli over {I,X,Y,Z}, PrepIndex
// over {0,1}.
type SPAM struct {
	PrepPauli string `yaml:"prep_pauli" json:"prep_pauli"`
	PrepIndex string `yaml:"prep_index" json:"prep_index"`
	MeasPauli string `yaml:"meas_pauli" json:"meas_pauli"`
}

// Setting identifies the (preparation, measurement) Pauli pair a group of
// jobs shares.
type Setting struct {
	Prep string
	Meas string
}

// Ansatz is the circuit under test.
type Ansatz func(c *circuit.Circuit) error

// DirectEstimation holds one job per SPAM setting.
type DirectEstimation struct {
	template circuit.Template
	qubits   []string
	ansatz   Ansatz
	spam     []SPAM
	table    *job.Table
}

// New builds a job for every setting in spam. A nil ansatz is the identity.
func New(t circuit.Template, qubits []string, ansatz Ansatz, spam []SPAM) (*DirectEstimation, error) {
	d := &DirectEstimation{template: t, qubits: qubits, ansatz: ansatz, spam: spam, table: job.NewTable()}
	if err := d.Build(); err != nil {
		return nil, err
	}
	return d, nil
}

// Build recompiles every setting into a fresh table.
func (d *DirectEstimation) Build() error {
	d.table.Reset()
	for i, s := range d.spam {
		if len(s.PrepPauli) != len(d.qubits) || len(s.PrepIndex) != len(d.qubits) || len(s.MeasPauli) != len(d.qubits) {
			return fmt.Errorf("spam %d: settings %+v do not cover %d qubits", i, s, len(d.qubits))
		}
		measured := make([]int, len(d.qubits))
		seq, err := circuit.Compile(d.template, func(c *circuit.Circuit) error {
			for q, label := range d.qubits {
				idx := int(s.PrepIndex[q] - '0')
				if err := c.StatePreparation(s.PrepPauli[q:q+1], idx, label); err != nil {
					return err
				}
				measured[q], _ = c.Layout().QubitIndex(label)
			}
			if d.ansatz != nil {
				if err := d.ansatz(c); err != nil {
					return fmt.Errorf("ansatz: %w", err)
				}
			}
			for q, label := range d.qubits {
				if err := c.Measurement(s.MeasPauli[q:q+1], label); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("spam %d: %w", i, err)
		}
		d.table.Submit(job.New(job.Conditions{
			KeyPrepPauli:     s.PrepPauli,
			KeyPrepIndex:     s.PrepIndex,
			KeyMeasPauli:     s.MeasPauli,
			job.KeySequence:  seq,
			job.KeyMeasured:  measured,
			job.KeyGateCount: 0,
		}))
	}
	slog.Debug("direct estimation jobs built", "jobs", d.table.Len())
	return nil
}

// Name is the report name.
func (d *DirectEstimation) Name() string { return "direct_estimation" }

// Table returns the job table.
func (d *DirectEstimation) Table() *job.Table { return d.table }

// Tables returns the single job table.
func (d *DirectEstimation) Tables() []*job.Table { return []*job.Table{d.table} }

// Execute dispatches the table to exec.
func (d *DirectEstimation) Execute(ctx context.Context, exec job.Executor) error {
	return job.Dispatch(ctx, exec, d.table)
}

// Reset clears the job table.
func (d *DirectEstimation) Reset() { d.table.Reset() }

// DataTable groups results by setting, then by preparation index.
func (d *DirectEstimation) DataTable() (map[Setting]map[string]map[string]float64, error) {
	if err := job.Verify(d.table); err != nil {
		return nil, err
	}
	out := make(map[Setting]map[string]map[string]float64)
	for i, j := range d.table.All() {
		prep, err := job.Condition[string](j, KeyPrepPauli)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		meas, err := job.Condition[string](j, KeyMeasPauli)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		index, err := job.Condition[string](j, KeyPrepIndex)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		key := Setting{Prep: prep, Meas: meas}
		if out[key] == nil {
			out[key] = make(map[string]map[string]float64)
		}
		r, _ := j.Result()
		out[key][index] = r
	}
	return out, nil
}

// Analyze reports the transfer matrix element of every setting, keyed
// "transfer : <prep>,<meas>" in first-appearance order, plus the data table.
func (d *DirectEstimation) Analyze() (*report.Report, error) {
	data, err := d.DataTable()
	if err != nil {
		return nil, err
	}
	r := report.New(d.Name())
	seen := make(map[Setting]bool)
	table := make(map[string]map[string]map[string]float64, len(data))
	for _, s := range d.spam {
		key := Setting{Prep: s.PrepPauli, Meas: s.MeasPauli}
		if seen[key] {
			continue
		}
		seen[key] = true
		v, err := TransferElement(key, data[key])
		if err != nil {
			return nil, err
		}
		r.Add(fmt.Sprintf("transfer : %s,%s", key.Prep, key.Meas), v)
		table[key.Prep+","+key.Meas] = data[key]
	}
	r.Add("data table", table)
	r.Add("qubits", d.qubits)
	slog.Info("direct estimation analyzed", "settings", len(seen))
	return r, nil
}

// ExpectPauli returns Σ_b w(b)·∏(-1)^{b_i} over the positions i where pauli
// is not I. Keys of weights are bitstrings the width of pauli.
func ExpectPauli(pauli string, weights map[string]float64) (float64, error) {
	var e float64
	for b, w := range weights {
		if len(b) != len(pauli) {
			return 0, fmt.Errorf("outcome %q does not match pauli %q", b, pauli)
		}
		sign := 1.0
		for i := range pauli {
			if pauli[i] != 'I' && b[i] == '1' {
				sign = -sign
			}
		}
		e += sign * w
	}
	return e, nil
}

// TransferElement estimates the Pauli transfer matrix entry for s:
// 2⁻ⁿ Σ_index (-1)^{prep parity} ⟨meas⟩_index.
func TransferElement(s Setting, byIndex map[string]map[string]float64) (float64, error) {
	expect := make(map[string]float64, len(byIndex))
	for index, hist := range byIndex {
		e, err := ExpectPauli(s.Meas, hist)
		if err != nil {
			return 0, err
		}
		expect[index] = e
	}
	total, err := ExpectPauli(s.Prep, expect)
	if err != nil {
		return 0, err
	}
	return total / float64(int(1)<<len(s.Prep)), nil
}
