package circuit

import (
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGolden(t *testing.T, name string, seq Sequence) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(seq.String()))
}

func TestHardware_PhaseTracksOntoTargetCrosses(t *testing.T) {
	l, err := NewLayout(
		[]string{"Q0", "Q1", "Q2"},
		[]Cross{
			{Control: "Q0", Target: "Q1", Port: Port1},
			{Control: "Q2", Target: "Q1", Port: Port2},
			{Control: "Q1", Target: "Q2", Port: Port1},
		},
	)
	require.NoError(t, err)
	c := New(NewHardware(l))

	for _, theta := range []float64{0.25, -math.Pi, 3.1} {
		require.NoError(t, c.RZ(theta, "Q1"))
	}
	seq := c.Snapshot().(Sequence)

	want := "Z14.323945 Z-180.000000 Z177.616916"
	assert.Equal(t, want, seq.Stream("Q1"))
	assert.Equal(t, want, seq.Stream("Q0-Q1:port1"))
	assert.Equal(t, want, seq.Stream("Q2-Q1:port2"))

	// Q1 is the control of the third cross: no echo there.
	assert.Equal(t, "", seq.Stream("Q1-Q2:port1"))
	assert.Equal(t, "", seq.Stream("Q0"))
}

func TestHardware_HalfRotationUsesQubitSymbol(t *testing.T) {
	c := New(NewHardware(twoQubitLayout(t)))
	require.NoError(t, c.RX90("Q1"))
	require.NoError(t, c.RX90("Q0"))

	seq := c.Snapshot().(Sequence)
	assert.Equal(t, "P0 HPIa", seq.Stream("Q0"))
	assert.Equal(t, "P0 HPIb", seq.Stream("Q1"))
	assert.Equal(t, "", seq.Stream("Q0-Q1:port1"))
}

func TestHardware_NativeInteractionAdvancesTrigger(t *testing.T) {
	hw := NewHardware(twoQubitLayout(t))
	c := New(hw)

	require.NoError(t, c.RZX45("Q0-Q1:port1"))
	require.NoError(t, c.RZX45("Q0-Q1"))
	assert.Equal(t, 2, hw.Trigger())

	seq := hw.Sequence()
	assert.Equal(t, "T0 WCRab T1 WCRab", seq.Stream("Q0"))
	assert.Equal(t, "T0 DCTab T1 DCTab", seq.Stream("Q1"))
	assert.Equal(t, "T0 DCRab T1 DCRab", seq.Stream("Q0-Q1:port1"))
}

func TestHardware_Reset(t *testing.T) {
	hw := NewHardware(twoQubitLayout(t))
	c := New(hw)
	require.NoError(t, c.CNOT("Q0-Q1"))
	c.Reset()

	assert.Equal(t, 0, hw.Trigger())
	assert.Equal(t, 0, hw.Sequence().Len())

	require.NoError(t, c.RZX45("Q0-Q1"))
	assert.Equal(t, "T0 WCRab", hw.Sequence().Stream("Q0"))
}

func TestHardware_SnapshotIsIndependent(t *testing.T) {
	c := New(NewHardware(twoQubitLayout(t)))
	require.NoError(t, c.RX90("Q0"))
	snap := c.Snapshot().(Sequence)
	require.NoError(t, c.RX90("Q0"))

	assert.Equal(t, "P0 HPIa", snap.Stream("Q0"))
}

func TestHardware_CNOTGolden(t *testing.T) {
	c := New(NewHardware(twoQubitLayout(t)))
	require.NoError(t, c.CNOT("Q0-Q1:port1"))

	assertGolden(t, "cnot", c.Snapshot().(Sequence))
}

func TestHardware_StatePreparationGolden(t *testing.T) {
	c := New(NewHardware(twoQubitLayout(t)))
	require.NoError(t, c.StatePreparation("X", 1, "Q0"))
	require.NoError(t, c.StatePreparation("Y", 0, "Q1"))
	require.NoError(t, c.Measurement("X", "Q0"))
	require.NoError(t, c.Measurement("Y", "Q1"))

	assertGolden(t, "spam", c.Snapshot().(Sequence))
}

func TestSequence_String(t *testing.T) {
	seq := Sequence{
		Labels:  []string{"Q0", "Q1"},
		Streams: [][]string{{"P0", "HPIa"}, nil},
	}
	assert.Equal(t, "Q0: P0 HPIa\nQ1:\n", seq.String())
	assert.Equal(t, map[string]string{"Q0": "P0 HPIa", "Q1": ""}, seq.Map())
	assert.Equal(t, 2, seq.Len())
}
