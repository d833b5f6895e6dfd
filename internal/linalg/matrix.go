package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Matrix is a square complex128 matrix stored row-major.
type Matrix struct {
	n    int
	data []complex128
}

// New returns an n×n zero matrix.
func New(n int) Matrix {
	return Matrix{n: n, data: make([]complex128, n*n)}
}

// Identity returns the n×n identity.
func Identity(n int) Matrix {
	m := New(n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from row slices. Rows must form a square.
func FromRows(rows [][]complex128) (Matrix, error) {
	n := len(rows)
	if n == 0 {
		return Matrix{}, fmt.Errorf("matrix has no rows")
	}
	m := New(n)
	for i, row := range rows {
		if len(row) != n {
			return Matrix{}, fmt.Errorf("row %d has %d entries, want %d", i, len(row), n)
		}
		copy(m.data[i*n:(i+1)*n], row)
	}
	return m, nil
}

// MustFromRows is FromRows for literals. It panics on a ragged input.
func MustFromRows(rows ...[]complex128) Matrix {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Diag returns the diagonal matrix with the given entries.
func Diag(entries ...complex128) Matrix {
	m := New(len(entries))
	for i, v := range entries {
		m.data[i*m.n+i] = v
	}
	return m
}

// Dim returns the matrix dimension.
func (m Matrix) Dim() int { return m.n }

// At returns the entry at row i, column j.
func (m Matrix) At(i, j int) complex128 { return m.data[i*m.n+j] }

// Set writes the entry at row i, column j.
func (m Matrix) Set(i, j int, v complex128) { m.data[i*m.n+j] = v }

// Rows returns a copy of the entries as row slices.
func (m Matrix) Rows() [][]complex128 {
	rows := make([][]complex128, m.n)
	for i := range rows {
		rows[i] = append([]complex128(nil), m.data[i*m.n:(i+1)*m.n]...)
	}
	return rows
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	return Matrix{n: m.n, data: append([]complex128(nil), m.data...)}
}

// Mul returns m·o. It panics on a dimension mismatch.
func (m Matrix) Mul(o Matrix) Matrix {
	if m.n != o.n {
		panic(fmt.Sprintf("linalg: dimension mismatch %d vs %d", m.n, o.n))
	}
	n := m.n
	out := New(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a := m.data[i*n+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.data[i*n+j] += a * o.data[k*n+j]
			}
		}
	}
	return out
}

// Product multiplies the matrices left to right.
func Product(ms ...Matrix) Matrix {
	if len(ms) == 0 {
		panic("linalg: empty product")
	}
	out := ms[0]
	for _, m := range ms[1:] {
		out = out.Mul(m)
	}
	return out
}

// Scale returns c·m.
func (m Matrix) Scale(c complex128) Matrix {
	out := m.Clone()
	for i := range out.data {
		out.data[i] *= c
	}
	return out
}

// Add returns m+o.
func (m Matrix) Add(o Matrix) Matrix {
	out := m.Clone()
	for i := range out.data {
		out.data[i] += o.data[i]
	}
	return out
}

// Sub returns m-o.
func (m Matrix) Sub(o Matrix) Matrix {
	out := m.Clone()
	for i := range out.data {
		out.data[i] -= o.data[i]
	}
	return out
}

// Transpose returns mᵀ.
func (m Matrix) Transpose() Matrix {
	out := New(m.n)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			out.data[j*m.n+i] = m.data[i*m.n+j]
		}
	}
	return out
}

// Dagger returns the conjugate transpose m†.
func (m Matrix) Dagger() Matrix {
	out := New(m.n)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			out.data[j*m.n+i] = cmplx.Conj(m.data[i*m.n+j])
		}
	}
	return out
}

// Trace returns the sum of the diagonal.
func (m Matrix) Trace() complex128 {
	var t complex128
	for i := 0; i < m.n; i++ {
		t += m.data[i*m.n+i]
	}
	return t
}

// Real returns the real parts as a row-major slice.
func (m Matrix) Real() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		out[i] = real(v)
	}
	return out
}

// Imag returns the imaginary parts as a row-major slice.
func (m Matrix) Imag() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		out[i] = imag(v)
	}
	return out
}

// Det computes the determinant by Gaussian elimination with partial pivoting.
func (m Matrix) Det() complex128 {
	n := m.n
	a := m.Clone().data
	det := complex(1, 0)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if cmplx.Abs(a[r*n+col]) > cmplx.Abs(a[pivot*n+col]) {
				pivot = r
			}
		}
		if a[pivot*n+col] == 0 {
			return 0
		}
		if pivot != col {
			for j := 0; j < n; j++ {
				a[col*n+j], a[pivot*n+j] = a[pivot*n+j], a[col*n+j]
			}
			det = -det
		}
		p := a[col*n+col]
		det *= p
		for r := col + 1; r < n; r++ {
			f := a[r*n+col] / p
			if f == 0 {
				continue
			}
			for j := col; j < n; j++ {
				a[r*n+j] -= f * a[col*n+j]
			}
		}
	}
	return det
}

// MaxAbsDiff returns the largest entry-wise modulus of m-o.
func (m Matrix) MaxAbsDiff(o Matrix) float64 {
	var d float64
	for i := range m.data {
		d = math.Max(d, cmplx.Abs(m.data[i]-o.data[i]))
	}
	return d
}

// IsUnitary reports whether m†m equals the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	return m.Dagger().Mul(m).MaxAbsDiff(Identity(m.n)) <= tol
}

// EqualUpToPhase reports whether a = e^{iφ}·b for some real φ within tol.
func EqualUpToPhase(a, b Matrix, tol float64) bool {
	if a.n != b.n {
		return false
	}
	overlap := b.Dagger().Mul(a).Trace()
	if cmplx.Abs(overlap) < tol {
		return false
	}
	phase := overlap / complex(cmplx.Abs(overlap), 0)
	return a.MaxAbsDiff(b.Scale(phase)) <= tol
}

// Kron returns the tensor product a⊗b.
func Kron(a, b Matrix) Matrix {
	n := a.n * b.n
	out := New(n)
	for i := 0; i < a.n; i++ {
		for j := 0; j < a.n; j++ {
			av := a.data[i*a.n+j]
			if av == 0 {
				continue
			}
			for k := 0; k < b.n; k++ {
				for l := 0; l < b.n; l++ {
					out.data[(i*b.n+k)*n+j*b.n+l] = av * b.data[k*b.n+l]
				}
			}
		}
	}
	return out
}

// KronAll folds Kron over the operands left to right.
func KronAll(ms ...Matrix) Matrix {
	out := ms[0]
	for _, m := range ms[1:] {
		out = Kron(out, m)
	}
	return out
}

// String renders the matrix one row per line.
func (m Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		b.WriteString("[")
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteString(" ")
			}
			v := m.data[i*m.n+j]
			fmt.Fprintf(&b, "%+.6f%+.6fi", real(v), imag(v))
		}
		b.WriteString("]\n")
	}
	return b.String()
}
