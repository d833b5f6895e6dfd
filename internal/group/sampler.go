// Package group provides the random gate sources used by benchmarking
// protocols. A Sampler is deterministic: the same count and seed always
// yield the same matrices.
package group

import (
	"fmt"
	"math/rand"

	"github.com/roach88/qcal/internal/linalg"
)

// Sampler draws 2^n×2^n unitaries.
type Sampler interface {
	NumQubits() int
	Sample(count int, seed int64) ([]linalg.Matrix, error)
}

// Haar samples from the Haar measure on U(2^n).
type Haar struct {
	n int
}

// NewHaar returns a Haar sampler over n qubits.
func NewHaar(n int) (*Haar, error) {
	if n < 1 || n > 2 {
		return nil, &Error{Code: ErrCodeUnsupportedQubits, Message: fmt.Sprintf("haar sampler over %d qubits", n)}
	}
	return &Haar{n: n}, nil
}

func (h *Haar) NumQubits() int { return h.n }

func (h *Haar) Sample(count int, seed int64) ([]linalg.Matrix, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative sample count %d", count)
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]linalg.Matrix, count)
	for i := range out {
		out[i] = linalg.RandomUnitary(rng, 1<<h.n)
	}
	return out, nil
}

// Pool draws from a fixed, finite list of gates without replacement. It
// backs gate sets loaded from configuration.
type Pool struct {
	n     int
	gates []linalg.Matrix
}

// NewPool validates gates as unitaries over n qubits.
func NewPool(n int, gates []linalg.Matrix) (*Pool, error) {
	dim := 1 << n
	for i, g := range gates {
		if g.Dim() != dim {
			return nil, fmt.Errorf("pool gate %d is %dx%d, want %dx%d", i, g.Dim(), g.Dim(), dim, dim)
		}
		if !g.IsUnitary(1e-6) {
			return nil, fmt.Errorf("pool gate %d is not unitary", i)
		}
	}
	return &Pool{n: n, gates: gates}, nil
}

func (p *Pool) NumQubits() int { return p.n }

// Len returns the pool size.
func (p *Pool) Len() int { return len(p.gates) }

// Sample returns count distinct pool entries in seeded random order.
func (p *Pool) Sample(count int, seed int64) ([]linalg.Matrix, error) {
	if count > len(p.gates) {
		return nil, &Error{
			Code:    ErrCodeExhausted,
			Message: fmt.Sprintf("requested %d gates from a pool of %d", count, len(p.gates)),
		}
	}
	if count < 0 {
		return nil, fmt.Errorf("negative sample count %d", count)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(len(p.gates))
	out := make([]linalg.Matrix, count)
	for i := range out {
		out[i] = p.gates[perm[i]].Clone()
	}
	return out, nil
}
