package decompose

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/qcal/internal/linalg"
)

// UnitaryTolerance is the entry-wise bound on |U†U - I| accepted by SU4.
const UnitaryTolerance = 1e-6

// degenerateTolerance groups eigenvalues of Re(M) that share an eigenspace.
const degenerateTolerance = 1e-8

// Layers are four single-qubit pairs, indexed [layer][qubit]. Qubit 0 is the
// control side of the interaction. Layer 0 acts first.
type Layers [4][2]linalg.Matrix

// KAK is the canonical decomposition U ≅ (A0⊗A1)·exp(i(x·XX + y·YY + z·ZZ))·(B0⊗B1).
type KAK struct {
	Before  [2]linalg.Matrix
	After   [2]linalg.Matrix
	X, Y, Z float64
}

// magic is the Bell-like basis in which SU(2)⊗SU(2) becomes SO(4).
var magic = linalg.MustFromRows(
	[]complex128{1, 0, 0, 1i},
	[]complex128{0, 1i, 1, 0},
	[]complex128{0, 1i, -1, 0},
	[]complex128{1, 0, 0, -1i},
).Scale(complex(1/math.Sqrt2, 0))

// SU4 decomposes a 4×4 unitary into four single-qubit layers separated by
// three CNOTs (control on qubit 0).
func SU4(m linalg.Matrix) (Layers, error) {
	k, err := Decompose(m)
	if err != nil {
		return Layers{}, err
	}
	return k.Layers(), nil
}

// Layers arranges the KAK factors around three CNOTs.
func (k KAK) Layers() Layers {
	x, z := linalg.PauliX(), linalg.PauliZ()
	return Layers{
		{k.Before[0], k.Before[1]},
		{linalg.Hadamard().Mul(linalg.ExpI(k.X, x)), linalg.ExpI(k.Z, z)},
		{linalg.Hadamard().Mul(linalg.SGate()), linalg.ExpI(-k.Y, z)},
		{k.After[0].Mul(linalg.ExpI(math.Pi/4, x)), k.After[1].Mul(linalg.ExpI(-math.Pi/4, x))},
	}
}

// Interaction returns exp(i(x·XX + y·YY + z·ZZ)).
func (k KAK) Interaction() linalg.Matrix {
	xx := linalg.Kron(linalg.PauliX(), linalg.PauliX())
	yy := linalg.Kron(linalg.PauliY(), linalg.PauliY())
	zz := linalg.Kron(linalg.PauliZ(), linalg.PauliZ())
	return linalg.Product(linalg.ExpI(k.X, xx), linalg.ExpI(k.Y, yy), linalg.ExpI(k.Z, zz))
}

// Decompose computes the KAK decomposition of a 4×4 unitary.
//
// The normalised matrix is moved into the magic basis, where M = UpᵀUp is a
// symmetric unitary whose real and imaginary parts commute. A real
// orthogonal P diagonalising both gives Up = K1·F·K2 with F = sqrt(PᵀMP).
func Decompose(m linalg.Matrix) (KAK, error) {
	if m.Dim() != 4 {
		return KAK{}, failed(m.Dim(), "su4 requires a 4x4 matrix")
	}
	det := m.Det()
	if cmplx.Abs(det) < singularTolerance {
		return KAK{}, singular(4)
	}
	u := m.Scale(1 / cmplx.Pow(det, 0.25))
	if !u.IsUnitary(UnitaryTolerance) {
		return KAK{}, failed(4, "matrix is not unitary within %g", UnitaryTolerance)
	}

	up := linalg.Product(magic.Dagger(), u, magic)
	mm := up.Transpose().Mul(up)

	p, err := simultaneousEigenbasis(mm)
	if err != nil {
		return KAK{}, err
	}

	pc := realToMatrix(p)
	d := linalg.Product(pc.Transpose(), mm, pc)
	f := make([]complex128, 4)
	prod := complex(1, 0)
	for i := range f {
		f[i] = cmplx.Sqrt(d.At(i, i))
		prod *= f[i]
	}
	if real(prod) < 0 {
		f[0] = -f[0]
	}

	finv := make([]complex128, 4)
	for i := range f {
		finv[i] = 1 / f[i]
	}
	k1 := linalg.Product(up, pc, linalg.Diag(finv...))
	k2 := pc.Transpose()

	after, err := kronFactor(linalg.Product(magic, realPart(k1), magic.Dagger()))
	if err != nil {
		return KAK{}, err
	}
	before, err := kronFactor(linalg.Product(magic, k2, magic.Dagger()))
	if err != nil {
		return KAK{}, err
	}

	phi := make([]float64, 4)
	for i := range f {
		phi[i] = cmplx.Phase(f[i])
	}
	return KAK{
		Before: before,
		After:  after,
		X:      (phi[0] + phi[1] - phi[2] - phi[3]) / 4,
		Y:      (-phi[0] + phi[1] - phi[2] + phi[3]) / 4,
		Z:      (phi[0] - phi[1] - phi[2] + phi[3]) / 4,
	}, nil
}

// simultaneousEigenbasis returns a real orthogonal P with det(P) = +1 that
// diagonalises both Re(M) and Im(M).
func simultaneousEigenbasis(m linalg.Matrix) (*mat.Dense, error) {
	re := mat.NewSymDense(4, symmetrize(m.Real(), 4))
	im := mat.NewSymDense(4, symmetrize(m.Imag(), 4))

	var eig mat.EigenSym
	if ok := eig.Factorize(re, true); !ok {
		return nil, failed(4, "eigendecomposition of Re(M) did not converge")
	}
	values := eig.Values(nil)
	var p mat.Dense
	eig.VectorsTo(&p)

	// Values come back ascending, so each degenerate eigenspace is a run.
	start := 0
	for i := 1; i <= len(values); i++ {
		if i < len(values) && values[i]-values[i-1] <= degenerateTolerance {
			continue
		}
		if i-start > 1 {
			if err := rotateBlock(&p, im, start, i); err != nil {
				return nil, err
			}
		}
		start = i
	}

	if mat.Det(&p) < 0 {
		for r := 0; r < 4; r++ {
			p.Set(r, 0, -p.At(r, 0))
		}
	}
	return &p, nil
}

// rotateBlock replaces columns [lo, hi) of p with the basis of that subspace
// that diagonalises im.
func rotateBlock(p *mat.Dense, im *mat.SymDense, lo, hi int) error {
	k := hi - lo
	v := mat.DenseCopyOf(p.Slice(0, 4, lo, hi))

	var tmp, block mat.Dense
	tmp.Mul(im, v)
	block.Mul(v.T(), &tmp)

	sym := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			sym.SetSym(i, j, (block.At(i, j)+block.At(j, i))/2)
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return failed(4, "eigendecomposition of degenerate block did not converge")
	}
	var w, rotated mat.Dense
	eig.VectorsTo(&w)
	rotated.Mul(v, &w)
	for r := 0; r < 4; r++ {
		for c := 0; c < k; c++ {
			p.Set(r, lo+c, rotated.At(r, c))
		}
	}
	return nil
}

// kronFactor splits a 4×4 matrix known to be a⊗b into SU(2) factors.
func kronFactor(m linalg.Matrix) ([2]linalg.Matrix, error) {
	r, c := 0, 0
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if cmplx.Abs(m.At(i, j)) > cmplx.Abs(m.At(r, c)) {
				r, c = i, j
			}
		}
	}
	i0, k0 := r/2, r%2
	j0, l0 := c/2, c%2

	a, b := linalg.New(2), linalg.New(2)
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			b.Set(x, y, m.At(2*i0+x, 2*j0+y))
			a.Set(x, y, m.At(2*x+k0, 2*y+l0))
		}
	}

	da, db := a.Det(), b.Det()
	if cmplx.Abs(da) < singularTolerance || cmplx.Abs(db) < singularTolerance {
		return [2]linalg.Matrix{}, failed(4, "local layer is not a tensor product")
	}
	return [2]linalg.Matrix{a.Scale(1 / cmplx.Sqrt(da)), b.Scale(1 / cmplx.Sqrt(db))}, nil
}

func symmetrize(data []float64, n int) []float64 {
	out := make([]float64, len(data))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = (data[i*n+j] + data[j*n+i]) / 2
		}
	}
	return out
}

func realToMatrix(d *mat.Dense) linalg.Matrix {
	r, _ := d.Dims()
	out := linalg.New(r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			out.Set(i, j, complex(d.At(i, j), 0))
		}
	}
	return out
}

func realPart(m linalg.Matrix) linalg.Matrix {
	out := linalg.New(m.Dim())
	for i := 0; i < m.Dim(); i++ {
		for j := 0; j < m.Dim(); j++ {
			out.Set(i, j, complex(real(m.At(i, j)), 0))
		}
	}
	return out
}
