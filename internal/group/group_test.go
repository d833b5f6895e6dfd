package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcal/internal/linalg"
)

func TestClifford_Order(t *testing.T) {
	one, err := NewClifford(1)
	require.NoError(t, err)
	assert.Equal(t, 24, one.Len())
	assert.Equal(t, 1, one.NumQubits())

	two, err := NewClifford(2)
	require.NoError(t, err)
	assert.Equal(t, 11520, two.Len())
}

func TestClifford_ClosedUnderMultiplication(t *testing.T) {
	c, err := NewClifford(1)
	require.NoError(t, err)
	for i := 0; i < c.Len(); i++ {
		a := c.Element(i)
		assert.True(t, a.IsUnitary(1e-9))
		for j := 0; j < c.Len(); j++ {
			assert.True(t, c.Contains(a.Mul(c.Element(j))), "product %d·%d", i, j)
		}
	}
	assert.True(t, c.Contains(linalg.PauliY().Scale(1i)))
	assert.False(t, c.Contains(linalg.RX(0.3)))
}

func TestClifford_TwoQubitMembership(t *testing.T) {
	c, err := NewClifford(2)
	require.NoError(t, err)
	swap := linalg.Product(linalg.CNOT(), linalg.Kron(linalg.Hadamard(), linalg.Hadamard()),
		linalg.CNOT(), linalg.Kron(linalg.Hadamard(), linalg.Hadamard()), linalg.CNOT())
	assert.True(t, c.Contains(swap))
	assert.True(t, c.Contains(linalg.Kron(linalg.PauliX(), linalg.PauliZ())))
	assert.False(t, c.Contains(linalg.Kron(linalg.RZ(0.1), linalg.I2())))
	assert.False(t, c.Contains(linalg.PauliX()))
}

func TestClifford_SampleIsDeterministic(t *testing.T) {
	c, err := NewClifford(1)
	require.NoError(t, err)

	a, err := c.Sample(40, 7)
	require.NoError(t, err)
	b, err := c.Sample(40, 7)
	require.NoError(t, err)
	other, err := c.Sample(40, 8)
	require.NoError(t, err)

	require.Len(t, a, 40)
	same := true
	for i := range a {
		assert.Equal(t, a[i].Rows(), b[i].Rows())
		if a[i].MaxAbsDiff(other[i]) > 1e-12 {
			same = false
		}
	}
	assert.False(t, same, "different seeds should give different draws")
}

func TestNewClifford_UnsupportedQubits(t *testing.T) {
	_, err := NewClifford(3)
	require.Error(t, err)
	assert.True(t, IsUnsupportedQubits(err))
	_, err = NewHaar(0)
	assert.True(t, IsUnsupportedQubits(err))
}

func TestHaar_SamplesUnitaries(t *testing.T) {
	h, err := NewHaar(2)
	require.NoError(t, err)
	ms, err := h.Sample(5, 1)
	require.NoError(t, err)
	again, err := h.Sample(5, 1)
	require.NoError(t, err)
	for i, m := range ms {
		assert.Equal(t, 4, m.Dim())
		assert.True(t, m.IsUnitary(1e-9))
		assert.Equal(t, m.Rows(), again[i].Rows())
	}
}

func TestPool_Exhausted(t *testing.T) {
	p, err := NewPool(1, []linalg.Matrix{linalg.PauliX(), linalg.PauliZ(), linalg.Hadamard()})
	require.NoError(t, err)

	got, err := p.Sample(3, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			assert.Greater(t, got[i].MaxAbsDiff(got[j]), 1e-9, "pool draws are distinct")
		}
	}

	_, err = p.Sample(4, 0)
	require.Error(t, err)
	assert.True(t, IsExhausted(err))
}

func TestNewPool_RejectsBadGates(t *testing.T) {
	_, err := NewPool(1, []linalg.Matrix{linalg.CNOT()})
	assert.Error(t, err)
	_, err = NewPool(1, []linalg.Matrix{linalg.Diag(1, 2)})
	assert.Error(t, err)
}
