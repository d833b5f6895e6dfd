package fit

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// DivergenceError reports a fit that did not converge. Guess is the initial
// parameter vector, kept for diagnosis.
type DivergenceError struct {
	Model  string
	Guess  []float64
	Status optimize.Status
	Err    error
}

func (e *DivergenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("FIT_DIVERGENCE: %s from guess %v: %s: %v", e.Model, e.Guess, e.Status, e.Err)
	}
	return fmt.Sprintf("FIT_DIVERGENCE: %s from guess %v: %s", e.Model, e.Guess, e.Status)
}

func (e *DivergenceError) Unwrap() error { return e.Err }

// IsDivergence returns true if err is a DivergenceError.
// Uses errors.As to handle wrapped errors.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}

// Result holds the fitted parameters.
type Result struct {
	Model  string
	Params []float64

	// SSE is the residual sum of squares at Params.
	SSE float64

	// Covariance is nil when there are no more points than parameters or
	// JᵀJ is singular.
	Covariance *mat.Dense

	// Method names the optimizer that produced Params.
	Method string
}

// Param returns the fitted value of the named parameter.
func (r *Result) Param(m Model, name string) float64 {
	for i, n := range m.Params {
		if n == name {
			return r.Params[i]
		}
	}
	panic(fmt.Sprintf("fit: model %s has no parameter %q", m.Name, name))
}

// StdErr returns the square roots of the covariance diagonal, or nil.
func (r *Result) StdErr() []float64 {
	if r.Covariance == nil {
		return nil
	}
	n, _ := r.Covariance.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sqrt(math.Abs(r.Covariance.At(i, i)))
	}
	return out
}

const (
	majorIterations = 5000
	convergeWindow  = 50
)

// Curve fits m to (x, y) starting from guess.
func Curve(m Model, x, y, guess []float64) (*Result, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("fit %s: %d x values, %d y values", m.Name, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("fit %s: no data", m.Name)
	}
	if len(guess) != len(m.Params) {
		return nil, fmt.Errorf("fit %s: guess has %d values, model has %d parameters", m.Name, len(guess), len(m.Params))
	}

	problem := optimize.Problem{Func: sse(m, x, y)}
	if m.Grad != nil {
		problem.Grad = sseGrad(m, x, y)
	}

	var (
		res    *optimize.Result
		err    error
		method = "nelder-mead"
	)
	if m.Grad != nil {
		method = "lbfgs"
		res, err = optimize.Minimize(problem, guess, settings(), &optimize.LBFGS{})
		if !accepted(res, err) {
			slog.Debug("lbfgs did not converge, retrying with nelder-mead", "model", m.Name, "guess", guess)
			method = "nelder-mead"
			res, err = nil, nil
		}
	}
	if res == nil {
		res, err = optimize.Minimize(optimize.Problem{Func: problem.Func}, guess, settings(), &optimize.NelderMead{})
	}
	if !accepted(res, err) {
		status := optimize.Failure
		if res != nil {
			status = res.Status
		}
		return nil, &DivergenceError{Model: m.Name, Guess: append([]float64(nil), guess...), Status: status, Err: err}
	}

	out := &Result{
		Model:  m.Name,
		Params: append([]float64(nil), res.X...),
		SSE:    res.F,
		Method: method,
	}
	out.Covariance = covariance(m, x, out.Params, res.F)
	return out, nil
}

func settings() *optimize.Settings {
	return &optimize.Settings{
		MajorIterations: majorIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-15,
			Relative:   1e-12,
			Iterations: convergeWindow,
		},
	}
}

func accepted(res *optimize.Result, err error) bool {
	if err != nil || res == nil {
		return false
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return false
	}
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	switch res.Status {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return true
	}
	return false
}

func sse(m Model, x, y []float64) func([]float64) float64 {
	return func(p []float64) float64 {
		var total float64
		for i := range x {
			r := m.F(x[i], p) - y[i]
			total += r * r
		}
		return total
	}
}

func sseGrad(m Model, x, y []float64) func(grad, p []float64) {
	g := make([]float64, len(m.Params))
	return func(grad, p []float64) {
		clear(grad)
		for i := range x {
			r := m.F(x[i], p) - y[i]
			m.Grad(g, x[i], p)
			for k := range grad {
				grad[k] += 2 * r * g[k]
			}
		}
	}
}

// covariance estimates (JᵀJ)⁻¹·SSE/(m-n).
func covariance(m Model, x, p []float64, sse float64) *mat.Dense {
	n := len(p)
	if len(x) <= n {
		return nil
	}
	jac := mat.NewDense(len(x), n, nil)
	row := make([]float64, n)
	for i := range x {
		if m.Grad != nil {
			m.Grad(row, x[i], p)
		} else {
			numericGrad(m, row, x[i], p)
		}
		jac.SetRow(i, row)
	}
	var jtj, inv mat.Dense
	jtj.Mul(jac.T(), jac)
	if err := inv.Inverse(&jtj); err != nil {
		return nil
	}
	inv.Scale(sse/float64(len(x)-n), &inv)
	return &inv
}

func numericGrad(m Model, grad []float64, x float64, p []float64) {
	q := append([]float64(nil), p...)
	for k := range p {
		h := 1e-7 * math.Max(1, math.Abs(p[k]))
		q[k] = p[k] + h
		up := m.F(x, q)
		q[k] = p[k] - h
		down := m.F(x, q)
		q[k] = p[k]
		grad[k] = (up - down) / (2 * h)
	}
}
