package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQubitLayout(t *testing.T) *Layout {
	t.Helper()
	l, err := NewLayout([]string{"Q0", "Q1"}, []Cross{{Control: "Q0", Target: "Q1", Port: Port1}})
	require.NoError(t, err)
	return l
}

func TestSymbol(t *testing.T) {
	tests := map[int]string{0: "a", 1: "b", 25: "z", 26: "aa", 27: "ab", 51: "az", 52: "ba", 701: "zz", 702: "aaa"}
	for i, want := range tests {
		assert.Equal(t, want, Symbol(i), "index %d", i)
	}
}

func TestSymbol_Injective(t *testing.T) {
	seen := make(map[string]int)
	for i := 0; i < 2000; i++ {
		s := Symbol(i)
		prev, dup := seen[s]
		require.False(t, dup, "%d and %d both map to %q", prev, i, s)
		seen[s] = i
	}
}

func TestNewLayout(t *testing.T) {
	l, err := NewLayout(
		[]string{"Q0", "Q1", "Q2"},
		[]Cross{
			{Control: "Q0", Target: "Q1", Port: Port1},
			{Control: "Q2", Target: "Q1", Port: Port2},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, l.NumQubits())
	assert.Equal(t, 2, l.NumCrosses())
	assert.Equal(t, []string{"Q0", "Q1", "Q2", "Q0-Q1:port1", "Q2-Q1:port2"}, l.Labels())
	assert.Equal(t, []int{0, 1}, l.TargetOf(1))
	assert.Empty(t, l.TargetOf(0))

	i, err := l.CrossIndex("Q2-Q1:port2")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = l.CrossIndex("Q2-Q1")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, l.Control(i))
	assert.Equal(t, 1, l.Target(i))
}

func TestNewLayout_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		qubits  []string
		crosses []Cross
	}{
		{"no qubits", nil, nil},
		{"empty label", []string{"Q0", " "}, nil},
		{"duplicate qubit", []string{"Q0", "Q0"}, nil},
		{"unknown control", []string{"Q0"}, []Cross{{Control: "Q9", Target: "Q0", Port: Port1}}},
		{"unknown target", []string{"Q0"}, []Cross{{Control: "Q0", Target: "Q9", Port: Port1}}},
		{"self loop", []string{"Q0"}, []Cross{{Control: "Q0", Target: "Q0", Port: Port1}}},
		{"bad port", []string{"Q0", "Q1"}, []Cross{{Control: "Q0", Target: "Q1", Port: "cr1"}}},
		{"duplicate cross", []string{"Q0", "Q1"}, []Cross{
			{Control: "Q0", Target: "Q1", Port: Port1},
			{Control: "Q0", Target: "Q1", Port: Port1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.qubits, tt.crosses)
			require.Error(t, err)
			assert.True(t, IsInvalidLayout(err), "got %v", err)
		})
	}
}

func TestLayout_NormalizesLabels(t *testing.T) {
	// "é" as e + combining acute must resolve to the precomposed form.
	l, err := NewLayout([]string{"qube\u0301"}, nil)
	require.NoError(t, err)

	i, err := l.QubitIndex("qub\u00e9")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
}

func TestLayout_UnknownLabel(t *testing.T) {
	l := twoQubitLayout(t)

	_, err := l.QubitIndex("Q7")
	assert.True(t, IsUnknownLabel(err))

	_, err = l.CrossIndex("Q1-Q0:port1")
	assert.True(t, IsUnknownLabel(err))
}
