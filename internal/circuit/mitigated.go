package circuit

import (
	"fmt"
	"math"
)

// Strategy selects how a Mitigated backend stretches each pulse.
type Strategy string

const (
	// StrategyIdle pads the pulse with N idle waits on each side.
	StrategyIdle Strategy = "idle"

	// StrategyRepeat plays N echo pairs [gate, Rz(π), gate, Rz(π)] before
	// the gate itself.
	StrategyRepeat Strategy = "repeat"
)

// Mitigation configures error amplification. Number is N.
type Mitigation struct {
	Number   int      `json:"number" yaml:"number"`
	Strategy Strategy `json:"strategy" yaml:"strategy"`
}

// Mitigated amplifies systematic pulse errors around a Hardware backend.
// Phases pass through untouched.
type Mitigated struct {
	hw  *Hardware
	cfg Mitigation
}

// NewMitigated wraps hw. With Number = 0 the output equals hw's.
func NewMitigated(hw *Hardware, cfg Mitigation) (*Mitigated, error) {
	if cfg.Number < 0 {
		return nil, fmt.Errorf("mitigation number must be non-negative, got %d", cfg.Number)
	}
	switch cfg.Strategy {
	case "":
		cfg.Strategy = StrategyIdle
	case StrategyIdle, StrategyRepeat:
	default:
		return nil, fmt.Errorf("unknown mitigation strategy %q", cfg.Strategy)
	}
	return &Mitigated{hw: hw, cfg: cfg}, nil
}

// Layout implements Backend.
func (m *Mitigated) Layout() *Layout { return m.hw.Layout() }

// Reset implements Backend.
func (m *Mitigated) Reset() { m.hw.Reset() }

// Snapshot implements Backend.
func (m *Mitigated) Snapshot() any { return m.hw.Snapshot() }

// ApplyPhase implements Backend.
func (m *Mitigated) ApplyPhase(angle float64, qubit int) { m.hw.ApplyPhase(angle, qubit) }

// ApplyHalfRotation implements Backend.
func (m *Mitigated) ApplyHalfRotation(qubit int) {
	if m.cfg.Strategy == StrategyRepeat {
		for i := 0; i < m.cfg.Number; i++ {
			m.hw.ApplyHalfRotation(qubit)
			m.hw.ApplyPhase(math.Pi, qubit)
			m.hw.ApplyHalfRotation(qubit)
			m.hw.ApplyPhase(math.Pi, qubit)
		}
		m.hw.ApplyHalfRotation(qubit)
		return
	}

	wait := "WAIT" + m.hw.layout.Symbol(qubit)
	m.idle(func(toks ...string) { m.hw.emitQubit(qubit, toks...) }, wait)
	m.hw.ApplyHalfRotation(qubit)
	m.idle(func(toks ...string) { m.hw.emitQubit(qubit, toks...) }, wait)
}

// ApplyNativeInteraction implements Backend.
func (m *Mitigated) ApplyNativeInteraction(cross int) {
	if m.cfg.Strategy == StrategyRepeat {
		target := m.hw.layout.Target(cross)
		for i := 0; i < m.cfg.Number; i++ {
			m.hw.ApplyNativeInteraction(cross)
			m.hw.ApplyPhase(math.Pi, target)
			m.hw.ApplyNativeInteraction(cross)
			m.hw.ApplyPhase(math.Pi, target)
		}
		m.hw.ApplyNativeInteraction(cross)
		return
	}

	h := m.hw
	c, t, tag := h.crossParts(cross)
	all := func(toks ...string) {
		h.emitQubit(c, toks...)
		h.emitQubit(t, toks...)
		h.emitCross(cross, toks...)
	}
	all(h.triggerToken())
	m.idle(all, "WAIT"+tag)
	h.emitQubit(c, "WCR"+tag)
	h.emitQubit(t, "DCT"+tag)
	h.emitCross(cross, "DCR"+tag)
	m.idle(all, "WAIT"+tag)
	h.trigger++
}

func (m *Mitigated) idle(emit func(...string), tok string) {
	for i := 0; i < m.cfg.Number; i++ {
		emit(tok)
	}
}
