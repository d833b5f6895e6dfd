// Package statevec implements the n-qubit state vector used by the
// simulation backend.
//
// Qubit i is stored at bit (n-1-i) of the amplitude index, so character i of
// an outcome bitstring always names qubit i.
package statevec

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/roach88/qcal/internal/linalg"
)

// probabilityFloor drops outcomes that are zero up to rounding.
const probabilityFloor = 1e-14

// State is a pure state over n qubits, initialised to |0…0⟩.
type State struct {
	n    int
	amps []complex128
}

// New returns |0…0⟩ over n qubits.
func New(n int) *State {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &State{n: n, amps: amps}
}

// NumQubits returns the register width.
func (s *State) NumQubits() int { return s.n }

// Reset returns the register to |0…0⟩.
func (s *State) Reset() {
	clear(s.amps)
	s.amps[0] = 1
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{n: s.n, amps: append([]complex128(nil), s.amps...)}
}

// Amplitudes returns a copy of the amplitude vector.
func (s *State) Amplitudes() []complex128 {
	return append([]complex128(nil), s.amps...)
}

func (s *State) bit(q int) int {
	return 1 << (s.n - 1 - q)
}

// Apply1 applies a 2×2 operator to qubit q.
func (s *State) Apply1(m linalg.Matrix, q int) {
	bit := s.bit(q)
	m00, m01, m10, m11 := m.At(0, 0), m.At(0, 1), m.At(1, 0), m.At(1, 1)
	for i := range s.amps {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.amps[i], s.amps[j]
		s.amps[i] = m00*a0 + m01*a1
		s.amps[j] = m10*a0 + m11*a1
	}
}

// Apply2 applies a 4×4 operator to the ordered pair (qa, qb), with qa on the
// first tensor factor.
func (s *State) Apply2(m linalg.Matrix, qa, qb int) {
	if qa == qb {
		panic(fmt.Sprintf("statevec: two-qubit gate on a single qubit %d", qa))
	}
	ba, bb := s.bit(qa), s.bit(qb)
	var idx [4]int
	var in [4]complex128
	for i := range s.amps {
		if i&ba != 0 || i&bb != 0 {
			continue
		}
		idx = [4]int{i, i | bb, i | ba, i | ba | bb}
		for k := range idx {
			in[k] = s.amps[idx[k]]
		}
		for r := 0; r < 4; r++ {
			var v complex128
			for c := 0; c < 4; c++ {
				v += m.At(r, c) * in[c]
			}
			s.amps[idx[r]] = v
		}
	}
}

// Norm returns ⟨ψ|ψ⟩.
func (s *State) Norm() float64 {
	var total float64
	for _, a := range s.amps {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return total
}

// Probabilities maps each outcome bitstring to its Born probability.
// Outcomes below rounding noise are omitted.
func (s *State) Probabilities() map[string]float64 {
	out := make(map[string]float64)
	for i, a := range s.amps {
		p := cmplx.Abs(a)
		p *= p
		if p < probabilityFloor {
			continue
		}
		out[s.Bitstring(i)] = p
	}
	return out
}

// Marginal returns the outcome distribution of the listed qubits, in list
// order, with every 2^len(qubits) outcome present.
func (s *State) Marginal(qubits []int) map[string]float64 {
	out := make(map[string]float64, 1<<len(qubits))
	key := make([]byte, len(qubits))
	for i := 0; i < 1<<len(qubits); i++ {
		for k := range qubits {
			key[k] = '0' + byte(i>>(len(qubits)-1-k)&1)
		}
		out[string(key)] = 0
	}
	for i, a := range s.amps {
		for k, q := range qubits {
			if i&s.bit(q) != 0 {
				key[k] = '1'
			} else {
				key[k] = '0'
			}
		}
		out[string(key)] += real(a)*real(a) + imag(a)*imag(a)
	}
	return out
}

// Bitstring renders basis index i with qubit 0 first.
func (s *State) Bitstring(i int) string {
	var b strings.Builder
	for q := 0; q < s.n; q++ {
		if i&s.bit(q) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Fidelity returns |⟨φ|ψ⟩|² between two states of equal width.
func Fidelity(a, b *State) float64 {
	var overlap complex128
	for i := range a.amps {
		overlap += cmplx.Conj(a.amps[i]) * b.amps[i]
	}
	return math.Pow(cmplx.Abs(overlap), 2)
}
