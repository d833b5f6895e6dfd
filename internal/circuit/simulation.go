package circuit

import (
	"math"

	"github.com/roach88/qcal/internal/linalg"
	"github.com/roach88/qcal/internal/statevec"
)

var (
	halfRotation      = linalg.RX(math.Pi / 2)
	nativeInteraction = linalg.ExpI(-math.Pi/8, linalg.Kron(linalg.PauliZ(), linalg.PauliX()))
)

// Simulation composes the native gates onto a state vector. Qubit indices
// follow the layout.
type Simulation struct {
	layout *Layout
	state  *statevec.State
}

// NewSimulation returns a backend holding |0…0⟩.
func NewSimulation(l *Layout) *Simulation {
	return &Simulation{layout: l, state: statevec.New(l.NumQubits())}
}

// Layout implements Backend.
func (s *Simulation) Layout() *Layout { return s.layout }

// Reset returns the register to |0…0⟩.
func (s *Simulation) Reset() { s.state.Reset() }

// ApplyPhase applies Rz(angle).
func (s *Simulation) ApplyPhase(angle float64, qubit int) {
	s.state.Apply1(linalg.RZ(angle), qubit)
}

// ApplyHalfRotation applies Rx(π/2).
func (s *Simulation) ApplyHalfRotation(qubit int) {
	s.state.Apply1(halfRotation, qubit)
}

// ApplyNativeInteraction applies exp(-iπ/8·Z⊗X) with Z on the control.
func (s *Simulation) ApplyNativeInteraction(cross int) {
	s.state.Apply2(nativeInteraction, s.layout.Control(cross), s.layout.Target(cross))
}

// Snapshot returns a copy of the current state.
func (s *Simulation) Snapshot() any { return s.state.Clone() }

// State returns a copy of the current state.
func (s *Simulation) State() *statevec.State { return s.state.Clone() }
