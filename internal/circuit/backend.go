package circuit

import "fmt"

// Backend is the native-gate capability set every execution target
// implements. Qubit and cross arguments are layout indices.
type Backend interface {
	// Layout returns the index tables the backend was built with.
	Layout() *Layout

	// ApplyPhase records a virtual-Z rotation by angle (radians).
	ApplyPhase(angle float64, qubit int)

	// ApplyHalfRotation records the fixed Rx(π/2) pulse.
	ApplyHalfRotation(qubit int)

	// ApplyNativeInteraction records exp(-iπ/8·Z⊗X) on the cross's
	// (control, target) pair.
	ApplyNativeInteraction(cross int)

	// Reset discards everything recorded since construction.
	Reset()

	// Snapshot returns an independent copy of the recorded program:
	// a Sequence for token backends, a *statevec.State for simulation.
	Snapshot() any
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindHardware   Kind = "hardware"
	KindSimulation Kind = "simulation"
	KindMitigated  Kind = "mitigated"
)

// Template is the immutable recipe for a fresh circuit. Protocols build one
// circuit per sequence from it instead of copying a used circuit.
type Template struct {
	Layout     *Layout
	Kind       Kind
	Mitigation Mitigation
}

// NewBackend constructs an empty backend of the template's kind.
func (t Template) NewBackend() (Backend, error) {
	if t.Layout == nil {
		return nil, newError(ErrCodeInvalidLayout, "", "template has no layout")
	}
	switch t.Kind {
	case KindHardware, "":
		return NewHardware(t.Layout), nil
	case KindSimulation:
		return NewSimulation(t.Layout), nil
	case KindMitigated:
		return NewMitigated(NewHardware(t.Layout), t.Mitigation)
	}
	return nil, fmt.Errorf("unknown backend kind %q", t.Kind)
}

// New constructs a circuit over a fresh backend.
func (t Template) New() (*Circuit, error) {
	b, err := t.NewBackend()
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

// Compile runs build against a fresh circuit and returns the backend
// snapshot of the result.
func Compile(t Template, build func(*Circuit) error) (any, error) {
	c, err := t.New()
	if err != nil {
		return nil, err
	}
	if err := build(c); err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}
