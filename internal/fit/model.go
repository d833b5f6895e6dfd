// Package fit runs nonlinear least-squares fits of benchmarking decay
// models on top of gonum's optimize package.
//
// Curve minimises the sum of squared residuals with L-BFGS using the
// model's analytic gradient and falls back to Nelder-Mead when L-BFGS stops
// without converging. Parameter covariance is estimated from the Jacobian
// at the optimum as (JᵀJ)⁻¹·SSE/(m-n).
package fit

import "math"

// Model is a parametric curve y = F(x; p).
type Model struct {
	Name   string
	Params []string

	// F evaluates the model.
	F func(x float64, p []float64) float64

	// Grad writes ∂F/∂p into grad. Optional.
	Grad func(grad []float64, x float64, p []float64)
}

// ExpDecay is y = a·pˣ + b with parameters [a, b, p].
var ExpDecay = Model{
	Name:   "exp_decay",
	Params: []string{"a", "b", "p"},
	F: func(x float64, p []float64) float64 {
		return p[0]*math.Pow(p[2], x) + p[1]
	},
	Grad: func(grad []float64, x float64, p []float64) {
		grad[0] = math.Pow(p[2], x)
		grad[1] = 1
		grad[2] = p[0] * powDeriv(p[2], x)
	},
}

// DoubleExpDecay is y = p1ˣ/3 + 2·p2ˣ/3 with parameters [p1, p2].
var DoubleExpDecay = Model{
	Name:   "double_exp_decay",
	Params: []string{"p1", "p2"},
	F: func(x float64, p []float64) float64 {
		return math.Pow(p[0], x)/3 + 2*math.Pow(p[1], x)/3
	},
	Grad: func(grad []float64, x float64, p []float64) {
		grad[0] = powDeriv(p[0], x) / 3
		grad[1] = 2 * powDeriv(p[1], x) / 3
	},
}

// powDeriv returns d(pˣ)/dp.
func powDeriv(p, x float64) float64 {
	if x == 0 {
		return 0
	}
	return x * math.Pow(p, x-1)
}
