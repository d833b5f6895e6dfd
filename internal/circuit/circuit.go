package circuit

import (
	"fmt"
	"math"

	"github.com/roach88/qcal/internal/decompose"
	"github.com/roach88/qcal/internal/linalg"
)

// Circuit builds the logical gate set on top of a Backend. Gates are listed
// in time order: the first call acts first.
type Circuit struct {
	backend Backend
	layout  *Layout
}

// New wraps b.
func New(b Backend) *Circuit {
	return &Circuit{backend: b, layout: b.Layout()}
}

// Backend returns the underlying backend.
func (c *Circuit) Backend() Backend { return c.backend }

// Layout returns the circuit's layout.
func (c *Circuit) Layout() *Layout { return c.layout }

// Reset clears the backend.
func (c *Circuit) Reset() { c.backend.Reset() }

// Snapshot returns the backend snapshot.
func (c *Circuit) Snapshot() any { return c.backend.Snapshot() }

// RZ applies a virtual-Z rotation.
func (c *Circuit) RZ(angle float64, qubit string) error {
	q, err := c.layout.QubitIndex(qubit)
	if err != nil {
		return err
	}
	c.rz(angle, q)
	return nil
}

// RX90 applies Rx(π/2).
func (c *Circuit) RX90(qubit string) error { return c.onQubit(qubit, (*Circuit).rx90) }

// RY90 applies Ry(π/2) as Rz(-π/2)·Rx90·Rz(π/2).
func (c *Circuit) RY90(qubit string) error { return c.onQubit(qubit, (*Circuit).ry90) }

// IRX90 applies Rx(-π/2) as Rz(π)·Rx90·Rz(π).
func (c *Circuit) IRX90(qubit string) error { return c.onQubit(qubit, (*Circuit).irx90) }

// IRY90 applies Ry(-π/2) as Rz(π/2)·Rx90·Rz(-π/2).
func (c *Circuit) IRY90(qubit string) error { return c.onQubit(qubit, (*Circuit).iry90) }

// RZX45 applies the native cross-resonance interaction.
func (c *Circuit) RZX45(cross string) error { return c.onCross(cross, (*Circuit).rzx45) }

// X applies a π rotation about x as two Rx90 pulses.
func (c *Circuit) X(qubit string) error { return c.onQubit(qubit, (*Circuit).x) }

// RZX90 applies the echoed cross-resonance exp(-iπ/4·Z⊗X).
func (c *Circuit) RZX90(cross string) error { return c.onCross(cross, (*Circuit).rzx90) }

// CNOT applies a controlled-NOT from the cross's control to its target.
func (c *Circuit) CNOT(cross string) error { return c.onCross(cross, (*Circuit).cnot) }

type qubitGate func(*Circuit, int)

// preparations[pauli][index] rotates |0⟩ into the requested eigenstate.
var preparations = map[string][2][]qubitGate{
	"I": {{}, {(*Circuit).rx90, (*Circuit).rx90}},
	"Z": {{}, {(*Circuit).rx90, (*Circuit).rx90}},
	"X": {{(*Circuit).ry90}, {(*Circuit).iry90}},
	"Y": {{(*Circuit).irx90}, {(*Circuit).rx90}},
}

// measurements[pauli] rotates the pauli axis onto Z before readout.
var measurements = map[string][]qubitGate{
	"I": {},
	"Z": {},
	"X": {(*Circuit).iry90},
	"Y": {(*Circuit).rx90},
}

// StatePreparation prepares the index-th eigenstate of pauli on qubit.
func (c *Circuit) StatePreparation(pauli string, index int, qubit string) error {
	steps, ok := preparations[pauli]
	if !ok {
		return newError(ErrCodeInvalidBasis, pauli, "pauli must be one of I, X, Y, Z")
	}
	if index != 0 && index != 1 {
		return newError(ErrCodeInvalidBasis, fmt.Sprint(index), "eigenstate index must be 0 or 1")
	}
	q, err := c.layout.QubitIndex(qubit)
	if err != nil {
		return err
	}
	for _, g := range steps[index] {
		g(c, q)
	}
	return nil
}

// Measurement rotates qubit so that a Z readout measures pauli.
func (c *Circuit) Measurement(pauli string, qubit string) error {
	steps, ok := measurements[pauli]
	if !ok {
		return newError(ErrCodeInvalidBasis, pauli, "pauli must be one of I, X, Y, Z")
	}
	q, err := c.layout.QubitIndex(qubit)
	if err != nil {
		return err
	}
	for _, g := range steps {
		g(c, q)
	}
	return nil
}

// SU2 applies an arbitrary single-qubit unitary as
// Rz(θ3), Rx90, Rz(θ2), Rx90, Rz(θ1).
func (c *Circuit) SU2(m linalg.Matrix, qubit string) error {
	q, err := c.layout.QubitIndex(qubit)
	if err != nil {
		return err
	}
	return c.su2(m, q)
}

// SU4 applies an arbitrary two-qubit unitary on the cross's (control,
// target) pair using three CNOTs.
func (c *Circuit) SU4(m linalg.Matrix, cross string) error {
	x, err := c.layout.CrossIndex(cross)
	if err != nil {
		return err
	}
	layers, err := decompose.SU4(m)
	if err != nil {
		return fmt.Errorf("su4 on %s: %w", cross, err)
	}
	ctl, tgt := c.layout.Control(x), c.layout.Target(x)
	for i, layer := range layers {
		if i > 0 {
			c.cnot(x)
		}
		if err := c.su2(layer[0], ctl); err != nil {
			return err
		}
		if err := c.su2(layer[1], tgt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) onQubit(label string, g qubitGate) error {
	q, err := c.layout.QubitIndex(label)
	if err != nil {
		return err
	}
	g(c, q)
	return nil
}

func (c *Circuit) onCross(label string, g func(*Circuit, int)) error {
	x, err := c.layout.CrossIndex(label)
	if err != nil {
		return err
	}
	g(c, x)
	return nil
}

func (c *Circuit) rz(angle float64, q int) { c.backend.ApplyPhase(angle, q) }

func (c *Circuit) rx90(q int) { c.backend.ApplyHalfRotation(q) }

func (c *Circuit) x(q int) {
	c.rx90(q)
	c.rx90(q)
}

func (c *Circuit) ry90(q int) {
	c.rz(-math.Pi/2, q)
	c.rx90(q)
	c.rz(math.Pi/2, q)
}

func (c *Circuit) irx90(q int) {
	c.rz(math.Pi, q)
	c.rx90(q)
	c.rz(math.Pi, q)
}

func (c *Circuit) iry90(q int) {
	c.rz(math.Pi/2, q)
	c.rx90(q)
	c.rz(-math.Pi/2, q)
}

func (c *Circuit) rzx45(x int) { c.backend.ApplyNativeInteraction(x) }

func (c *Circuit) rzx90(x int) {
	ctl, tgt := c.layout.Control(x), c.layout.Target(x)
	c.rzx45(x)
	c.rx90(ctl)
	c.rx90(ctl)
	c.rz(math.Pi, tgt)
	c.rzx45(x)
	c.rz(math.Pi, tgt)
	c.rx90(ctl)
	c.rx90(ctl)
}

func (c *Circuit) cnot(x int) {
	ctl, tgt := c.layout.Control(x), c.layout.Target(x)
	c.rz(-math.Pi/2, ctl)
	c.rzx90(x)
	c.rz(math.Pi, tgt)
	c.rx90(tgt)
	c.rz(math.Pi, tgt)
}

func (c *Circuit) su2(m linalg.Matrix, q int) error {
	a, err := decompose.SU2(m)
	if err != nil {
		return fmt.Errorf("su2 on %s: %w", c.layout.Qubit(q), err)
	}
	c.rz(a.Theta3, q)
	c.rx90(q)
	c.rz(a.Theta2, q)
	c.rx90(q)
	c.rz(a.Theta1, q)
	return nil
}
