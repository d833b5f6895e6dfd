package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcal/internal/job"
)

func TestFixedIDGenerator_ReturnsInOrder(t *testing.T) {
	gen := NewFixedIDGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixedIDGenerator_DefaultSequence(t *testing.T) {
	gen := NewFixedIDGenerator()
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
}

func TestDecayExecutor(t *testing.T) {
	tbl := job.NewTable()
	tbl.Submit(job.New(job.Conditions{job.KeyLength: 0}))
	tbl.Submit(job.New(job.Conditions{job.KeyLength: 2}))

	require.NoError(t, job.Dispatch(context.Background(), DecayExecutor(1, 0.5, 0.5, 0.9), tbl))
	assert.InDelta(t, 1.0, tbl.At(0).Probability("0"), 1e-12)
	assert.InDelta(t, 0.905, tbl.At(1).Probability("0"), 1e-12)
	assert.InDelta(t, 0.095, tbl.At(1).Probability("1"), 1e-12)
}

func TestIdealExecutor(t *testing.T) {
	tbl := job.NewTable()
	tbl.Submit(job.New(nil))
	require.NoError(t, job.Dispatch(context.Background(), IdealExecutor(2), tbl))
	assert.Equal(t, 1.0, tbl.At(0).Probability("00"))
}
