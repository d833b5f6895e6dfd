package statevec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcal/internal/linalg"
)

func TestNew_StartsInGroundState(t *testing.T) {
	s := New(3)
	assert.Equal(t, map[string]float64{"000": 1}, s.Probabilities())
}

func TestApply1_BitOrder(t *testing.T) {
	s := New(3)
	s.Apply1(linalg.PauliX(), 0)
	assert.Equal(t, map[string]float64{"100": 1}, s.Probabilities())

	s.Apply1(linalg.PauliX(), 2)
	assert.Equal(t, map[string]float64{"101": 1}, s.Probabilities())
}

func TestApply1_Superposition(t *testing.T) {
	s := New(1)
	s.Apply1(linalg.Hadamard(), 0)
	p := s.Probabilities()
	assert.InDelta(t, 0.5, p["0"], 1e-12)
	assert.InDelta(t, 0.5, p["1"], 1e-12)
}

func TestApply2_MatchesKron(t *testing.T) {
	// The first operand of Apply2 must be the most significant factor, even
	// when it is a higher qubit index than the second.
	s := New(2)
	s.Apply1(linalg.PauliX(), 1)
	s.Apply2(linalg.CNOT(), 1, 0)
	assert.Equal(t, map[string]float64{"11": 1}, s.Probabilities())

	s = New(3)
	s.Apply1(linalg.PauliX(), 0)
	s.Apply2(linalg.CNOT(), 0, 2)
	assert.Equal(t, map[string]float64{"101": 1}, s.Probabilities())
}

func TestApply2_SameQubitPanics(t *testing.T) {
	assert.Panics(t, func() { New(2).Apply2(linalg.CNOT(), 1, 1) })
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(1)
	c := s.Clone()
	s.Apply1(linalg.PauliX(), 0)
	assert.Equal(t, map[string]float64{"0": 1}, c.Probabilities())
}

func TestReset(t *testing.T) {
	s := New(2)
	s.Apply1(linalg.Hadamard(), 1)
	s.Reset()
	assert.Equal(t, map[string]float64{"00": 1}, s.Probabilities())
}

func TestNormPreserved(t *testing.T) {
	s := New(2)
	s.Apply1(linalg.RX(0.3), 0)
	s.Apply2(linalg.CNOT(), 0, 1)
	s.Apply1(linalg.RZ(1.1), 1)
	require.InDelta(t, 1, s.Norm(), 1e-12)

	a := New(1)
	b := New(1)
	b.Apply1(linalg.RX(math.Pi/2), 0)
	assert.InDelta(t, 0.5, Fidelity(a, b), 1e-12)
}

func TestMarginal(t *testing.T) {
	s := New(3)
	s.Apply1(linalg.PauliX(), 2)
	s.Apply1(linalg.Hadamard(), 0)

	m := s.Marginal([]int{2, 0})
	assert.Len(t, m, 4)
	assert.InDelta(t, 0.5, m["10"], 1e-12)
	assert.InDelta(t, 0.5, m["11"], 1e-12)
	assert.Zero(t, m["00"])
	assert.Zero(t, m["01"])

	assert.Equal(t, map[string]float64{"0": 1, "1": 0}, New(2).Marginal([]int{1}))
}
