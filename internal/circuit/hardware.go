package circuit

import (
	"fmt"
	"math"
	"strings"
)

// Hardware records native gates as opcode token streams, one per qubit and
// one per cross, for the timing-language consumer.
type Hardware struct {
	layout  *Layout
	streams [][]string // qubits first, then crosses
	trigger int
}

// NewHardware returns an empty token backend.
func NewHardware(l *Layout) *Hardware {
	h := &Hardware{layout: l}
	h.Reset()
	return h
}

// Layout implements Backend.
func (h *Hardware) Layout() *Layout { return h.layout }

// Reset clears every stream and the trigger counter.
func (h *Hardware) Reset() {
	h.streams = make([][]string, h.layout.NumQubits()+h.layout.NumCrosses())
	h.trigger = 0
}

// Trigger returns the index the next native interaction will carry.
func (h *Hardware) Trigger() int { return h.trigger }

// ApplyPhase appends Z<degrees> to the qubit and to every cross targeting it.
func (h *Hardware) ApplyPhase(angle float64, qubit int) {
	tok := phaseToken(angle)
	h.emitQubit(qubit, tok)
	for _, x := range h.layout.TargetOf(qubit) {
		h.emitCross(x, tok)
	}
}

// ApplyHalfRotation appends "P0 HPI<symbol>".
func (h *Hardware) ApplyHalfRotation(qubit int) {
	h.emitQubit(qubit, "P0", "HPI"+h.layout.Symbol(qubit))
}

// ApplyNativeInteraction appends the trigger-tagged WCR/DCT/DCR triple to the
// control, target and cross streams, then advances the trigger.
func (h *Hardware) ApplyNativeInteraction(cross int) {
	c, t, tag := h.crossParts(cross)
	trig := h.triggerToken()
	h.emitQubit(c, trig, "WCR"+tag)
	h.emitQubit(t, trig, "DCT"+tag)
	h.emitCross(cross, trig, "DCR"+tag)
	h.trigger++
}

// Snapshot returns the recorded streams as a Sequence.
func (h *Hardware) Snapshot() any { return h.Sequence() }

// Sequence copies the recorded streams.
func (h *Hardware) Sequence() Sequence {
	s := Sequence{Labels: h.layout.Labels(), Streams: make([][]string, len(h.streams))}
	for i, toks := range h.streams {
		s.Streams[i] = append([]string(nil), toks...)
	}
	return s
}

func (h *Hardware) crossParts(cross int) (control, target int, tag string) {
	control, target = h.layout.Control(cross), h.layout.Target(cross)
	return control, target, h.layout.Symbol(control) + h.layout.Symbol(target)
}

func (h *Hardware) triggerToken() string {
	return fmt.Sprintf("T%d", h.trigger)
}

func (h *Hardware) emitQubit(q int, toks ...string) {
	h.streams[q] = append(h.streams[q], toks...)
}

func (h *Hardware) emitCross(x int, toks ...string) {
	i := h.layout.NumQubits() + x
	h.streams[i] = append(h.streams[i], toks...)
}

func phaseToken(angle float64) string {
	return fmt.Sprintf("Z%f", angle*180/math.Pi)
}

// Sequence is a compiled hardware program: one token stream per label.
type Sequence struct {
	Labels  []string   `json:"labels" yaml:"labels"`
	Streams [][]string `json:"streams" yaml:"streams"`
}

// Stream returns the tokens for label joined by single spaces.
func (s Sequence) Stream(label string) string {
	for i, l := range s.Labels {
		if l == label {
			return strings.Join(s.Streams[i], " ")
		}
	}
	return ""
}

// Map returns label → stream text.
func (s Sequence) Map() map[string]string {
	out := make(map[string]string, len(s.Labels))
	for i, l := range s.Labels {
		out[l] = strings.Join(s.Streams[i], " ")
	}
	return out
}

// Len returns the total number of tokens across all streams.
func (s Sequence) Len() int {
	n := 0
	for _, toks := range s.Streams {
		n += len(toks)
	}
	return n
}

// String renders one "label: tokens" line per stream.
func (s Sequence) String() string {
	var b strings.Builder
	for i, l := range s.Labels {
		b.WriteString(l)
		b.WriteString(":")
		if len(s.Streams[i]) > 0 {
			b.WriteString(" ")
			b.WriteString(strings.Join(s.Streams[i], " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
