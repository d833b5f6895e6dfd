package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(m Model, p []float64, x []float64) []float64 {
	y := make([]float64, len(x))
	for i := range x {
		y[i] = m.F(x[i], p)
	}
	return y
}

func TestCurve_ExpDecayRecoversParameters(t *testing.T) {
	x := []float64{1, 2, 4, 8, 16, 32, 64}
	y := sample(ExpDecay, []float64{0.45, 0.52, 0.97}, x)

	res, err := Curve(ExpDecay, x, y, []float64{0.5, 0.5, 0.9})
	require.NoError(t, err)

	assert.InDelta(t, 0.45, res.Param(ExpDecay, "a"), 1e-4)
	assert.InDelta(t, 0.52, res.Param(ExpDecay, "b"), 1e-4)
	assert.InDelta(t, 0.97, res.Param(ExpDecay, "p"), 1e-5)
	assert.Less(t, res.SSE, 1e-10)
	assert.NotNil(t, res.Covariance)
	assert.Len(t, res.StdErr(), 3)
}

func TestCurve_ExactGuessStaysPut(t *testing.T) {
	x := []float64{0, 2, 4}
	y := sample(ExpDecay, []float64{0.5, 0.5, 0.9}, x)

	res, err := Curve(ExpDecay, x, y, []float64{0.5, 0.5, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, res.Param(ExpDecay, "p"), 1e-9)

	// Three points, three parameters: no residual degrees of freedom.
	assert.Nil(t, res.Covariance)
	assert.Nil(t, res.StdErr())
}

func TestCurve_DoubleExpDecay(t *testing.T) {
	x := []float64{1, 2, 3, 5, 8, 13, 21, 34}
	y := sample(DoubleExpDecay, []float64{0.93, 0.985}, x)

	res, err := Curve(DoubleExpDecay, x, y, []float64{0.97, 0.97})
	require.NoError(t, err)
	assert.InDelta(t, 0.93, res.Param(DoubleExpDecay, "p1"), 1e-4)
	assert.InDelta(t, 0.985, res.Param(DoubleExpDecay, "p2"), 1e-4)
}

func TestCurve_NelderMeadWithoutGradient(t *testing.T) {
	m := ExpDecay
	m.Grad = nil
	x := []float64{1, 3, 5, 9, 17, 33}
	y := sample(ExpDecay, []float64{0.5, 0.5, 0.95}, x)

	res, err := Curve(m, x, y, []float64{0.5, 0.5, 0.9})
	require.NoError(t, err)
	assert.Equal(t, "nelder-mead", res.Method)
	assert.InDelta(t, 0.95, res.Params[2], 1e-3)
}

func TestCurve_Divergence(t *testing.T) {
	broken := Model{
		Name:   "broken",
		Params: []string{"k"},
		F:      func(float64, []float64) float64 { return math.NaN() },
	}
	guess := []float64{0.3}

	_, err := Curve(broken, []float64{1, 2}, []float64{1, 1}, guess)
	require.Error(t, err)
	assert.True(t, IsDivergence(err))

	var de *DivergenceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []float64{0.3}, de.Guess)
	assert.Equal(t, "broken", de.Model)
}

func TestCurve_InvalidInput(t *testing.T) {
	_, err := Curve(ExpDecay, []float64{1}, []float64{1, 2}, []float64{1, 0, 1})
	assert.Error(t, err)
	_, err = Curve(ExpDecay, nil, nil, []float64{1, 0, 1})
	assert.Error(t, err)
	_, err = Curve(ExpDecay, []float64{1}, []float64{1}, []float64{1})
	assert.Error(t, err)
	assert.False(t, IsDivergence(err))
}

func TestGradient_NonUniformSpacing(t *testing.T) {
	// Second-order differences are exact on a quadratic.
	x := []float64{0, 1, 3, 4, 7}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v * v
	}
	g := Gradient(x, y)

	assert.InDelta(t, 1, g[0], 1e-12)
	for i := 1; i < len(x)-1; i++ {
		assert.InDelta(t, 2*x[i], g[i], 1e-12)
	}
	assert.InDelta(t, 11, g[4], 1e-12)
}

func TestDecayRateGuess(t *testing.T) {
	x := []float64{0, 2, 4}
	y := sample(ExpDecay, []float64{0.5, 0.5, 0.9}, x)
	assert.InDelta(t, 0.9, DecayRateGuess(x, y, 0.5, 0.5), 1e-12)

	// Non-positive corrected points are skipped.
	y = []float64{1, 0.905, 0.4}
	assert.InDelta(t, 0.9, DecayRateGuess(x[:2], y[:2], 0.5, 0.5), 1e-12)
	assert.InDelta(t, 0.9, DecayRateGuess(x, y, 0.5, 0.5), 1e-12)

	assert.Equal(t, DefaultDecayRate, DecayRateGuess([]float64{1}, []float64{1}, 0.5, 0.5))
}
