package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

var invSqrt2 = complex(1/math.Sqrt2, 0)

// I2 returns the 2×2 identity.
func I2() Matrix { return Identity(2) }

// PauliX returns σx.
func PauliX() Matrix { return MustFromRows([]complex128{0, 1}, []complex128{1, 0}) }

// PauliY returns σy.
func PauliY() Matrix { return MustFromRows([]complex128{0, -1i}, []complex128{1i, 0}) }

// PauliZ returns σz.
func PauliZ() Matrix { return Diag(1, -1) }

// Hadamard returns H.
func Hadamard() Matrix {
	return MustFromRows([]complex128{invSqrt2, invSqrt2}, []complex128{invSqrt2, -invSqrt2})
}

// SGate returns the phase gate diag(1, i).
func SGate() Matrix { return Diag(1, 1i) }

// CNOT returns the controlled-NOT with the control on the first factor.
func CNOT() Matrix {
	return MustFromRows(
		[]complex128{1, 0, 0, 0},
		[]complex128{0, 1, 0, 0},
		[]complex128{0, 0, 0, 1},
		[]complex128{0, 0, 1, 0},
	)
}

// Pauli returns the single-qubit Pauli named by one of I, X, Y, Z.
func Pauli(name byte) (Matrix, error) {
	switch name {
	case 'I':
		return I2(), nil
	case 'X':
		return PauliX(), nil
	case 'Y':
		return PauliY(), nil
	case 'Z':
		return PauliZ(), nil
	}
	return Matrix{}, fmt.Errorf("unknown pauli %q", name)
}

// ExpI returns exp(iθP) for an involutory P (P² = I).
func ExpI(theta float64, p Matrix) Matrix {
	c := complex(math.Cos(theta), 0)
	s := complex(0, math.Sin(theta))
	return Identity(p.Dim()).Scale(c).Add(p.Scale(s))
}

// RZ returns diag(e^{-iφ/2}, e^{iφ/2}).
func RZ(phi float64) Matrix {
	return Diag(cmplx.Exp(complex(0, -phi/2)), cmplx.Exp(complex(0, phi/2)))
}

// RX returns exp(-iθX/2).
func RX(theta float64) Matrix {
	return ExpI(-theta/2, PauliX())
}

// RY returns exp(-iθY/2).
func RY(theta float64) Matrix {
	return ExpI(-theta/2, PauliY())
}

// RandomUnitary draws a Haar-random n×n unitary from rng.
//
// A complex Ginibre matrix is orthonormalised column by column with modified
// Gram-Schmidt. The implied R factor has a positive real diagonal, which is
// the condition for the resulting Q to be Haar distributed.
func RandomUnitary(rng *rand.Rand, n int) Matrix {
	cols := make([][]complex128, n)
	for j := range cols {
		cols[j] = make([]complex128, n)
		for i := range cols[j] {
			cols[j][i] = complex(rng.NormFloat64(), rng.NormFloat64())
		}
	}
	for j := 0; j < n; j++ {
		for k := 0; k < j; k++ {
			var dot complex128
			for i := 0; i < n; i++ {
				dot += cmplx.Conj(cols[k][i]) * cols[j][i]
			}
			for i := 0; i < n; i++ {
				cols[j][i] -= dot * cols[k][i]
			}
		}
		var norm float64
		for i := 0; i < n; i++ {
			norm += real(cols[j][i])*real(cols[j][i]) + imag(cols[j][i])*imag(cols[j][i])
		}
		norm = math.Sqrt(norm)
		for i := 0; i < n; i++ {
			cols[j][i] /= complex(norm, 0)
		}
	}
	m := New(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			m.Set(i, j, cols[j][i])
		}
	}
	return m
}
