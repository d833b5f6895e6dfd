package decompose

import (
	"math"
	"math/cmplx"

	"github.com/roach88/qcal/internal/linalg"
)

// singularTolerance bounds |det| below which a matrix is treated as singular.
const singularTolerance = 1e-12

// Angles are the three phase rotations of a single-qubit native sequence.
type Angles struct {
	Theta1 float64 // applied last
	Theta2 float64
	Theta3 float64 // applied first
}

// SU2 decomposes a 2×2 matrix into native phase angles.
//
// The input is normalised by the square root of its determinant, so any
// global phase is ignored. A singular matrix fails with SINGULAR_MATRIX.
func SU2(m linalg.Matrix) (Angles, error) {
	if m.Dim() != 2 {
		return Angles{}, failed(m.Dim(), "su2 requires a 2x2 matrix")
	}
	det := m.Det()
	if cmplx.Abs(det) < singularTolerance {
		return Angles{}, singular(2)
	}
	u := m.Scale(1 / cmplx.Sqrt(det))

	angle1 := cmplx.Phase(u.At(1, 1))
	angle2 := cmplx.Phase(u.At(1, 0))

	c := real(u.At(1, 1) * cmplx.Exp(complex(0, -angle1)))
	// atan2 keeps full precision near c = ±1, where acos loses half the digits.
	theta := 2 * math.Atan2(cmplx.Abs(u.At(1, 0)), c)
	if real(u.At(1, 0)*cmplx.Exp(complex(0, -angle2))) < 0 {
		theta = -theta
	}

	return Angles{
		Theta1: angle1 + angle2 + 3*math.Pi,
		Theta2: theta + math.Pi,
		Theta3: angle1 - angle2,
	}, nil
}

// Matrix rebuilds the unitary described by the angles.
func (a Angles) Matrix() linalg.Matrix {
	half := linalg.RX(math.Pi / 2)
	return linalg.Product(linalg.RZ(a.Theta1), half, linalg.RZ(a.Theta2), half, linalg.RZ(a.Theta3))
}
