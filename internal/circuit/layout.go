package circuit

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Port names the drive channel of a cross-resonance coupling.
type Port string

const (
	Port1 Port = "port1"
	Port2 Port = "port2"
)

// Cross is a directed coupling: the control qubit drives the target at the
// target's frequency through Port.
type Cross struct {
	Control string `json:"control" yaml:"control"`
	Target  string `json:"target" yaml:"target"`
	Port    Port   `json:"port" yaml:"port"`
}

// Name is the stream label of the cross, e.g. "Q0-Q1:port1".
func (c Cross) Name() string {
	return fmt.Sprintf("%s-%s:%s", c.Control, c.Target, c.Port)
}

// Layout assigns every qubit and cross a stable index. It is immutable after
// NewLayout and safe to share between circuits.
type Layout struct {
	qubits  []string
	crosses []Cross

	qubitIndex map[string]int
	crossIndex map[string]int

	// crossControl and crossTarget hold qubit indices per cross.
	crossControl []int
	crossTarget  []int

	// targetOf lists the crosses whose target is each qubit.
	targetOf [][]int
}

// NewLayout validates the declaration and builds the index tables.
// Labels are NFC-normalised.
func NewLayout(qubits []string, crosses []Cross) (*Layout, error) {
	if len(qubits) == 0 {
		return nil, newError(ErrCodeInvalidLayout, "", "layout declares no qubits")
	}
	l := &Layout{
		qubitIndex: make(map[string]int, len(qubits)),
		crossIndex: make(map[string]int, len(crosses)),
		targetOf:   make([][]int, len(qubits)),
	}
	for i, q := range qubits {
		q = norm.NFC.String(strings.TrimSpace(q))
		if q == "" {
			return nil, newError(ErrCodeInvalidLayout, "", "qubit %d has an empty label", i)
		}
		if _, dup := l.qubitIndex[q]; dup {
			return nil, newError(ErrCodeInvalidLayout, q, "duplicate qubit label")
		}
		l.qubitIndex[q] = i
		l.qubits = append(l.qubits, q)
	}
	for _, c := range crosses {
		c.Control = norm.NFC.String(strings.TrimSpace(c.Control))
		c.Target = norm.NFC.String(strings.TrimSpace(c.Target))
		ci, ok := l.qubitIndex[c.Control]
		if !ok {
			return nil, newError(ErrCodeInvalidLayout, c.Control, "cross control is not a declared qubit")
		}
		ti, ok := l.qubitIndex[c.Target]
		if !ok {
			return nil, newError(ErrCodeInvalidLayout, c.Target, "cross target is not a declared qubit")
		}
		if ci == ti {
			return nil, newError(ErrCodeInvalidLayout, c.Control, "cross control and target coincide")
		}
		if c.Port != Port1 && c.Port != Port2 {
			return nil, newError(ErrCodeInvalidLayout, string(c.Port), "port must be %q or %q", Port1, Port2)
		}
		name := c.Name()
		if _, dup := l.crossIndex[name]; dup {
			return nil, newError(ErrCodeInvalidLayout, name, "duplicate cross")
		}
		idx := len(l.crosses)
		l.crossIndex[name] = idx
		l.crosses = append(l.crosses, c)
		l.crossControl = append(l.crossControl, ci)
		l.crossTarget = append(l.crossTarget, ti)
		l.targetOf[ti] = append(l.targetOf[ti], idx)
	}
	return l, nil
}

// NumQubits returns the number of declared qubits.
func (l *Layout) NumQubits() int { return len(l.qubits) }

// NumCrosses returns the number of declared crosses.
func (l *Layout) NumCrosses() int { return len(l.crosses) }

// Qubits returns the qubit labels in index order.
func (l *Layout) Qubits() []string { return append([]string(nil), l.qubits...) }

// Crosses returns the crosses in index order.
func (l *Layout) Crosses() []Cross { return append([]Cross(nil), l.crosses...) }

// Qubit returns the label of qubit i.
func (l *Layout) Qubit(i int) string { return l.qubits[i] }

// Cross returns cross i.
func (l *Layout) Cross(i int) Cross { return l.crosses[i] }

// Labels returns every stream label: qubits first, then cross names.
func (l *Layout) Labels() []string {
	labels := l.Qubits()
	for _, c := range l.crosses {
		labels = append(labels, c.Name())
	}
	return labels
}

// QubitIndex resolves a qubit label.
func (l *Layout) QubitIndex(label string) (int, error) {
	i, ok := l.qubitIndex[norm.NFC.String(label)]
	if !ok {
		return 0, newError(ErrCodeUnknownLabel, label, "qubit not in layout")
	}
	return i, nil
}

// CrossIndex resolves a cross by name ("control-target:port") or, when the
// label has no port suffix, by its "control-target" pair.
func (l *Layout) CrossIndex(label string) (int, error) {
	label = norm.NFC.String(label)
	if i, ok := l.crossIndex[label]; ok {
		return i, nil
	}
	if !strings.Contains(label, ":") {
		for i, c := range l.crosses {
			if c.Control+"-"+c.Target == label {
				return i, nil
			}
		}
	}
	return 0, newError(ErrCodeUnknownLabel, label, "cross not in layout")
}

// Control returns the control qubit index of cross i.
func (l *Layout) Control(i int) int { return l.crossControl[i] }

// Target returns the target qubit index of cross i.
func (l *Layout) Target(i int) int { return l.crossTarget[i] }

// TargetOf returns the crosses whose target is qubit q.
func (l *Layout) TargetOf(q int) []int { return l.targetOf[q] }

// Symbol returns the alphabetic opcode tag of qubit i.
func (l *Layout) Symbol(i int) string { return Symbol(i) }

// Symbol maps an index to bijective base-26 letters: 0→a, 25→z, 26→aa.
func Symbol(i int) string {
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('a'+(n-1)%26))
	}
	for a, b := 0, len(buf)-1; a < b; a, b = a+1, b-1 {
		buf[a], buf[b] = buf[b], buf[a]
	}
	return string(buf)
}
