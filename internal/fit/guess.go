package fit

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultDecayRate is the p guess used when fewer than two usable points remain.
const DefaultDecayRate = 0.99

// DecayRateGuess estimates p for y ≈ a·pˣ + b from the mean log-slope of
// f = (y-b)/a. Points with f ≤ 0 are skipped; they stay in the fit itself.
func DecayRateGuess(x, y []float64, a, b float64) float64 {
	var xs, logs []float64
	for i := range x {
		f := (y[i] - b) / a
		if f > 0 {
			xs = append(xs, x[i])
			logs = append(logs, math.Log(f))
		}
	}
	if len(xs) < 2 {
		return DefaultDecayRate
	}
	return math.Exp(stat.Mean(Gradient(xs, logs), nil))
}

// Gradient returns dy/dx at every sample using second-order central
// differences on interior points (non-uniform spacing allowed) and one-sided
// differences at the ends. x must be strictly increasing with len ≥ 2.
func Gradient(x, y []float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	g[0] = (y[1] - y[0]) / (x[1] - x[0])
	g[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		hd := x[i] - x[i-1]
		hs := x[i+1] - x[i]
		g[i] = (hd*hd*y[i+1] - hs*hs*y[i-1] + (hs*hs-hd*hd)*y[i]) / (hs * hd * (hd + hs))
	}
	return g
}
