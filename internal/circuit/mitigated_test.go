package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mitigatedCircuit(t *testing.T, cfg Mitigation) *Circuit {
	t.Helper()
	m, err := NewMitigated(NewHardware(twoQubitLayout(t)), cfg)
	require.NoError(t, err)
	return New(m)
}

func TestMitigated_ZeroPaddingMatchesHardware(t *testing.T) {
	build := func(c *Circuit) {
		require.NoError(t, c.CNOT("Q0-Q1"))
		require.NoError(t, c.RY90("Q1"))
		require.NoError(t, c.RZX90("Q0-Q1"))
	}

	plain := New(NewHardware(twoQubitLayout(t)))
	build(plain)
	for _, s := range []Strategy{StrategyIdle, StrategyRepeat} {
		mitigated := mitigatedCircuit(t, Mitigation{Number: 0, Strategy: s})
		build(mitigated)
		assert.Equal(t, plain.Snapshot(), mitigated.Snapshot(), "strategy %s", s)
	}
}

func TestMitigated_IdlePadding(t *testing.T) {
	c := mitigatedCircuit(t, Mitigation{Number: 2, Strategy: StrategyIdle})
	require.NoError(t, c.RX90("Q0"))
	require.NoError(t, c.RZX45("Q0-Q1"))
	require.NoError(t, c.RZ(0, "Q1"))

	seq := c.Snapshot().(Sequence)
	assert.Equal(t, "WAITa WAITa P0 HPIa WAITa WAITa T0 WAITab WAITab WCRab WAITab WAITab", seq.Stream("Q0"))
	assert.Equal(t, "T0 WAITab WAITab DCTab WAITab WAITab Z0.000000", seq.Stream("Q1"))
	assert.Equal(t, "T0 WAITab WAITab DCRab WAITab WAITab Z0.000000", seq.Stream("Q0-Q1:port1"))
}

func TestMitigated_RepeatStrategy(t *testing.T) {
	c := mitigatedCircuit(t, Mitigation{Number: 1, Strategy: StrategyRepeat})
	require.NoError(t, c.RX90("Q0"))
	require.NoError(t, c.RZX45("Q0-Q1"))

	seq := c.Snapshot().(Sequence)
	assert.Equal(t, "P0 HPIa Z180.000000 P0 HPIa Z180.000000 P0 HPIa T0 WCRab T1 WCRab T2 WCRab", seq.Stream("Q0"))
	assert.Equal(t, "T0 DCTab Z180.000000 T1 DCTab Z180.000000 T2 DCTab", seq.Stream("Q1"))
	assert.Equal(t, "T0 DCRab Z180.000000 T1 DCRab Z180.000000 T2 DCRab", seq.Stream("Q0-Q1:port1"))
}

func TestMitigated_TriggerSharedWithHardware(t *testing.T) {
	hw := NewHardware(twoQubitLayout(t))
	m, err := NewMitigated(hw, Mitigation{Number: 1})
	require.NoError(t, err)

	m.ApplyNativeInteraction(0)
	m.ApplyNativeInteraction(0)
	assert.Equal(t, 2, hw.Trigger())

	m.Reset()
	assert.Equal(t, 0, hw.Trigger())
}

func TestNewMitigated_Invalid(t *testing.T) {
	_, err := NewMitigated(NewHardware(twoQubitLayout(t)), Mitigation{Number: -1})
	assert.Error(t, err)

	_, err = NewMitigated(NewHardware(twoQubitLayout(t)), Mitigation{Strategy: "stretch"})
	assert.Error(t, err)
}

func TestTemplate_NewBackend(t *testing.T) {
	l := twoQubitLayout(t)

	for kind, want := range map[Kind]any{
		KindHardware:   &Hardware{},
		"":             &Hardware{},
		KindSimulation: &Simulation{},
		KindMitigated:  &Mitigated{},
	} {
		b, err := Template{Layout: l, Kind: kind}.NewBackend()
		require.NoError(t, err)
		assert.IsType(t, want, b, "kind %q", kind)
	}

	_, err := Template{Layout: l, Kind: "analog"}.NewBackend()
	assert.Error(t, err)

	_, err = Template{Kind: KindHardware}.New()
	assert.True(t, IsInvalidLayout(err))
}

func TestTemplate_CircuitsAreIndependent(t *testing.T) {
	tmpl := Template{Layout: twoQubitLayout(t), Kind: KindHardware}

	first, err := Compile(tmpl, func(c *Circuit) error { return c.CNOT("Q0-Q1") })
	require.NoError(t, err)
	second, err := Compile(tmpl, func(c *Circuit) error { return c.RZX45("Q0-Q1") })
	require.NoError(t, err)

	assert.Equal(t, "T0 WCRab", second.(Sequence).Stream("Q0"))
	assert.Contains(t, first.(Sequence).Stream("Q0"), "T1 WCRab")
}
