package rb

import (
	"fmt"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/group"
	"github.com/roach88/qcal/internal/linalg"
)

// Job condition keys specific to benchmarking.
const (
	KeyRepetition     = "repetition"
	KeyInterleaved    = "interleaved"
	KeyInitialInverse = "initial_inverse"
	KeyObservedPauli  = "observed_pauli"
)

// Sequence is one entry of the sequence list: Repetitions random sequences
// of Length gates, each measured with Shots shots.
type Sequence struct {
	Length      int `json:"length" yaml:"length"`
	Repetitions int `json:"repetitions" yaml:"repetitions"`
	Shots       int `json:"shots" yaml:"shots"`
}

// Interleave is the reference gate placed after every random gate.
type Interleave struct {
	Name string

	// Gate is the ideal unitary, folded into the inversion gate.
	Gate linalg.Matrix

	// Apply plays the gate on the circuit. When nil, Gate is decomposed
	// like a random gate.
	Apply func(c *circuit.Circuit, qubits []string) error
}

// Config describes one benchmarking run.
type Config struct {
	Template  circuit.Template
	Qubits    []string
	Group     group.Sampler
	Sequences []Sequence
	Seed      int64

	// Interleave is ignored by Interleaved, which supplies it to one of
	// its two sub-protocols only.
	Interleave *Interleave

	// InitialInverse flips every qubit before the sequence.
	InitialInverse bool
}

func (c Config) validate() error {
	if c.Template.Layout == nil {
		return fmt.Errorf("rb config: template has no layout")
	}
	if c.Group == nil {
		return fmt.Errorf("rb config: no group sampler")
	}
	n := c.Group.NumQubits()
	if n != 1 && n != 2 {
		return &group.Error{Code: group.ErrCodeUnsupportedQubits, Message: fmt.Sprintf("benchmarking over %d qubits", n)}
	}
	if len(c.Qubits) != n {
		return fmt.Errorf("rb config: group acts on %d qubits, %d given", n, len(c.Qubits))
	}
	for _, q := range c.Qubits {
		if _, err := c.Template.Layout.QubitIndex(q); err != nil {
			return fmt.Errorf("rb config: %w", err)
		}
	}
	if n == 2 {
		if _, err := c.Template.Layout.CrossIndex(c.cross()); err != nil {
			return fmt.Errorf("rb config: %w", err)
		}
	}
	if len(c.Sequences) == 0 {
		return fmt.Errorf("rb config: empty sequence list")
	}
	for i, s := range c.Sequences {
		if s.Length < 0 || s.Repetitions < 1 || s.Shots < 0 {
			return fmt.Errorf("rb config: sequence %d: invalid %+v", i, s)
		}
	}
	if c.Interleave != nil && c.Interleave.Gate.Dim() != 1<<n {
		return fmt.Errorf("rb config: interleaved gate %s is %dx%d, want %dx%d",
			c.Interleave.Name, c.Interleave.Gate.Dim(), c.Interleave.Gate.Dim(), 1<<n, 1<<n)
	}
	return nil
}

func (c Config) numQubits() int { return len(c.Qubits) }

// measured returns the layout indices of the benchmarked qubits.
func (c Config) measured() []int {
	out := make([]int, len(c.Qubits))
	for i, q := range c.Qubits {
		out[i], _ = c.Template.Layout.QubitIndex(q)
	}
	return out
}

// cross names the control-target pair for two-qubit gates.
func (c Config) cross() string {
	return c.Qubits[0] + "-" + c.Qubits[1]
}

// lengths returns the distinct sequence lengths in first-appearance order.
func (c Config) lengths() []int {
	var out []int
	seen := make(map[int]bool)
	for _, s := range c.Sequences {
		if !seen[s.Length] {
			seen[s.Length] = true
			out = append(out, s.Length)
		}
	}
	return out
}
