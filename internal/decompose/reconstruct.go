package decompose

import (
	"math/cmplx"

	"github.com/roach88/qcal/internal/linalg"
)

// Matrix rebuilds the 4×4 unitary described by the layers, with each pair
// separated by a CNOT controlled on qubit 0.
func (l Layers) Matrix() linalg.Matrix {
	cnot := linalg.CNOT()
	out := linalg.Kron(l[0][0], l[0][1])
	for i := 1; i < len(l); i++ {
		out = linalg.Product(linalg.Kron(l[i][0], l[i][1]), cnot, out)
	}
	return out
}

// Residual returns the entry-wise distance between want and got after
// removing the best-fitting global phase. Both are expected to be unitary.
func Residual(want, got linalg.Matrix) float64 {
	overlap := got.Dagger().Mul(want).Trace()
	if cmplx.Abs(overlap) == 0 {
		return want.MaxAbsDiff(got)
	}
	return want.MaxAbsDiff(got.Scale(overlap / complex(cmplx.Abs(overlap), 0)))
}
