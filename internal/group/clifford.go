package group

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"strconv"
	"sync"

	"github.com/roach88/qcal/internal/linalg"
)

// Clifford is the n-qubit Clifford group modulo global phase, enumerated
// once per process and sampled uniformly with replacement.
type Clifford struct {
	n        int
	elements []linalg.Matrix
	index    map[string]int
}

var (
	cliffordOnce [3]sync.Once
	cliffords    [3]*Clifford
)

// NewClifford returns the Clifford group on n qubits (24 elements for one
// qubit, 11520 for two).
func NewClifford(n int) (*Clifford, error) {
	if n < 1 || n > 2 {
		return nil, &Error{Code: ErrCodeUnsupportedQubits, Message: fmt.Sprintf("clifford group over %d qubits", n)}
	}
	cliffordOnce[n].Do(func() { cliffords[n] = enumerate(n, generators(n)) })
	return cliffords[n], nil
}

func generators(n int) []linalg.Matrix {
	h, s := linalg.Hadamard(), linalg.SGate()
	if n == 1 {
		return []linalg.Matrix{h, s}
	}
	id := linalg.I2()
	return []linalg.Matrix{
		linalg.Kron(h, id), linalg.Kron(id, h),
		linalg.Kron(s, id), linalg.Kron(id, s),
		linalg.CNOT(),
	}
}

// enumerate closes the generator set under multiplication breadth first.
func enumerate(n int, gens []linalg.Matrix) *Clifford {
	c := &Clifford{n: n, index: make(map[string]int)}
	start := linalg.Identity(1 << n)
	c.index[phaseKey(start)] = 0
	c.elements = append(c.elements, start)
	for i := 0; i < len(c.elements); i++ {
		for _, g := range gens {
			next := canonicalPhase(g.Mul(c.elements[i]))
			key := phaseKey(next)
			if _, seen := c.index[key]; seen {
				continue
			}
			c.index[key] = len(c.elements)
			c.elements = append(c.elements, next)
		}
	}
	return c
}

func (c *Clifford) NumQubits() int { return c.n }

// Len returns the group order modulo phase.
func (c *Clifford) Len() int { return len(c.elements) }

// Element returns the i-th element in enumeration order.
func (c *Clifford) Element(i int) linalg.Matrix { return c.elements[i].Clone() }

// Contains reports whether m is a group element up to global phase.
func (c *Clifford) Contains(m linalg.Matrix) bool {
	if m.Dim() != 1<<c.n {
		return false
	}
	_, ok := c.index[phaseKey(canonicalPhase(m))]
	return ok
}

// Sample draws count elements uniformly with replacement.
func (c *Clifford) Sample(count int, seed int64) ([]linalg.Matrix, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative sample count %d", count)
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]linalg.Matrix, count)
	for i := range out {
		out[i] = c.elements[rng.Intn(len(c.elements))].Clone()
	}
	return out, nil
}

const keyResolution = 1e4

// canonicalPhase rotates m so its first non-negligible entry is real positive.
func canonicalPhase(m linalg.Matrix) linalg.Matrix {
	n := m.Dim()
	for i := 0; i < n*n; i++ {
		v := m.At(i/n, i%n)
		if cmplx.Abs(v) > 1e-6 {
			return m.Scale(cmplx.Conj(v) / complex(cmplx.Abs(v), 0))
		}
	}
	return m
}

func phaseKey(m linalg.Matrix) string {
	n := m.Dim()
	buf := make([]byte, 0, n*n*12)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			buf = strconv.AppendInt(buf, int64(math.Round(real(v)*keyResolution)), 10)
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(math.Round(imag(v)*keyResolution)), 10)
			buf = append(buf, ';')
		}
	}
	return string(buf)
}
