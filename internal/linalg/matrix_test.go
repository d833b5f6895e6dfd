package linalg

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows_RejectsRagged(t *testing.T) {
	_, err := FromRows([][]complex128{{1, 0}, {0}})
	require.Error(t, err)

	_, err = FromRows(nil)
	require.Error(t, err)
}

func TestDet(t *testing.T) {
	assert.InDelta(t, -1, real(CNOT().Det()), 1e-12)
	assert.InDelta(t, -1, real(Hadamard().Det()), 1e-12)
	assert.Equal(t, complex128(0), MustFromRows([]complex128{1, 2}, []complex128{2, 4}).Det())

	m := MustFromRows([]complex128{0, 2}, []complex128{3i, 1})
	assert.InDelta(t, 0, cmplx.Abs(m.Det()-(-6i)), 1e-12)
}

func TestKron_PlacesFirstOperandOnHighBit(t *testing.T) {
	xi := Kron(PauliX(), I2())

	// |00> -> |10>
	assert.Equal(t, complex128(1), xi.At(2, 0))
	assert.Equal(t, complex128(0), xi.At(1, 0))
}

func TestCNOT_FromCliffordIdentity(t *testing.T) {
	// CNOT = (I⊗H)·CZ·(I⊗H)
	cz := Diag(1, 1, 1, -1)
	ih := Kron(I2(), Hadamard())
	assert.True(t, EqualUpToPhase(CNOT(), Product(ih, cz, ih), 1e-12))
}

func TestEqualUpToPhase(t *testing.T) {
	h := Hadamard()
	assert.True(t, EqualUpToPhase(h.Scale(cmplx.Exp(0.7i)), h, 1e-12))
	assert.False(t, EqualUpToPhase(h, PauliX(), 1e-9))
	assert.False(t, EqualUpToPhase(h, CNOT(), 1e-9))
}

func TestRotations(t *testing.T) {
	assert.True(t, EqualUpToPhase(RX(math.Pi), PauliX(), 1e-12))
	assert.True(t, EqualUpToPhase(RZ(math.Pi), PauliZ(), 1e-12))
	assert.True(t, EqualUpToPhase(RZ(math.Pi/2), SGate(), 1e-12))
	assert.True(t, EqualUpToPhase(RY(math.Pi), PauliY(), 1e-12))
	assert.InDelta(t, 1, real(RZ(0.3).Det()), 1e-12)
}

func TestRandomUnitary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{2, 4} {
		u := RandomUnitary(rng, n)
		assert.True(t, u.IsUnitary(1e-12), "dim %d", n)
	}

	a := RandomUnitary(rand.New(rand.NewSource(3)), 2)
	b := RandomUnitary(rand.New(rand.NewSource(3)), 2)
	assert.Equal(t, a.Rows(), b.Rows())
}

func TestMatrixIsValueTyped(t *testing.T) {
	x := PauliX()
	_ = x.Scale(2)
	_ = x.Dagger()
	assert.Equal(t, complex128(1), x.At(0, 1))
}
