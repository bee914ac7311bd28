// SPDX-License-Identifier: MIT

package iteration

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvgmm/matrix"
	"go.uber.org/zap"
)

// Iteration is a configured fixed-point driver. It holds no per-run state and
// may be shared by sequential callers.
type Iteration struct {
	method Method
	opts   Options
}

// New validates the method and options and returns a ready driver.
//
// Errors: ErrUnknownMethod, ErrUnknownNorm, ErrInvalidTolerance,
// ErrInvalidBudget, ErrInvalidSteps.
func New(method Method, opts ...Option) (*Iteration, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("New(%q): %w", string(method), ErrUnknownMethod)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return &Iteration{method: method, opts: o}, nil
}

// Method returns the configured scheme.
func (it *Iteration) Method() Method { return it.method }

// Options returns a copy of the configuration.
func (it *Iteration) Options() Options { return it.opts }

// Iterate applies f starting from start until convergence or budget exhaustion.
// The start matrix is never mutated.
func (it *Iteration) Iterate(start matrix.Matrix, f Contraction) (Result, error) {
	if start == nil {
		return Result{}, fmt.Errorf("Iterate: %w", ErrNilStart)
	}
	run := &runner{it: it, f: f, rows: start.Rows(), cols: start.Cols()}

	var res Result
	var err error
	switch it.method {
	case SQUAREM:
		res, err = run.squarem(start)
	default:
		res, err = run.simple(start)
	}
	if err != nil {
		return Result{}, err
	}
	if !res.Converged {
		it.opts.Logger.Debug("iteration: budget exhausted",
			zap.String("method", string(it.method)),
			zap.Int("evaluations", res.Evaluations),
			zap.Int("iterations", res.Iterations))
	}

	return res, nil
}

// runner carries the per-call state of one Iterate.
type runner struct {
	it          *Iteration
	f           Contraction
	rows, cols  int
	evaluations int
}

// eval calls the contraction, counting it and checking the returned shape.
func (r *runner) eval(x matrix.Matrix) (matrix.Matrix, error) {
	r.evaluations++
	next, err := r.f(x)
	if err != nil {
		return nil, fmt.Errorf("Iterate: evaluation %d: %w: %w", r.evaluations, ErrContraction, err)
	}
	if next == nil || next.Rows() != r.rows || next.Cols() != r.cols {
		return nil, fmt.Errorf("Iterate: evaluation %d: %w", r.evaluations, ErrShapeChanged)
	}

	return next, nil
}

func (r *runner) exhausted() bool { return r.evaluations >= r.it.opts.MaxEvaluations }

// converged reports norm(next − x) ≤ atol + rtol·norm(x). NaN never converges,
// and neither does a matrix whose elements cannot be read.
func (r *runner) converged(x, next matrix.Matrix) bool {
	diff, err := matrix.Sub(next, x)
	if err != nil {
		return false
	}
	o := r.it.opts
	bound := o.Atol
	if o.Rtol > 0 {
		scale, err := norm(x, o.Norm)
		if err != nil {
			return false
		}
		bound += o.Rtol * scale
	}
	d, err := norm(diff, o.Norm)
	if err != nil {
		return false
	}

	return d <= bound
}

func (r *runner) result(x matrix.Matrix, converged bool, iterations int) Result {
	return Result{Matrix: x, Converged: converged, Iterations: iterations, Evaluations: r.evaluations}
}

// simple runs x ← f(x).
func (r *runner) simple(start matrix.Matrix) (Result, error) {
	x := start
	iterations := 0
	for !r.exhausted() {
		next, err := r.eval(x)
		if err != nil {
			return Result{}, err
		}
		iterations++
		done := r.converged(x, next)
		x = next
		if done {
			return r.result(x, true, iterations), nil
		}
	}

	return r.result(x, false, iterations), nil
}

// squarem runs SQUAREM cycles: x1 = f(x0), x2 = f(x1),
// x' = x0 − 2α·r + α²·v with r = x1 − x0, v = x2 − 2x1 + x0,
// α = −clamp(‖r‖/‖v‖, stepMin, stepMax), then stabilises with f(x').
func (r *runner) squarem(start matrix.Matrix) (Result, error) {
	o := r.it.opts
	stepMin, stepMax := o.StepMin, o.StepMax
	x := start
	cycles := 0

	for !r.exhausted() {
		cycles++
		x0 := x

		x1, err := r.eval(x0)
		if err != nil {
			return Result{}, err
		}
		if r.converged(x0, x1) {
			return r.result(x1, true, cycles), nil
		}
		if r.exhausted() {
			return r.result(x1, false, cycles), nil
		}

		x2, err := r.eval(x1)
		if err != nil {
			return Result{}, err
		}
		if r.converged(x1, x2) {
			return r.result(x2, true, cycles), nil
		}
		if r.exhausted() {
			return r.result(x2, false, cycles), nil
		}

		accel, alpha, ok := extrapolate(x0, x1, x2, stepMin, stepMax)
		if !ok {
			o.Logger.Debug("iteration: extrapolation not finite, keeping plain step",
				zap.Int("evaluations", r.evaluations))
			accel = x2
		}

		x3, err := r.eval(accel)
		if err != nil {
			return Result{}, err
		}
		if r.converged(accel, x3) {
			return r.result(x3, true, cycles), nil
		}
		x = x3

		if ok && -alpha == stepMax {
			stepMax *= o.StepFactor
		}
	}

	return r.result(x, false, cycles), nil
}

// extrapolate computes the SQUAREM S3 point. ok is false when the step or the
// extrapolated point is not finite.
func extrapolate(x0, x1, x2 matrix.Matrix, stepMin, stepMax float64) (matrix.Matrix, float64, bool) {
	a0, err0 := denseOf(x0)
	a1, err1 := denseOf(x1)
	a2, err2 := denseOf(x2)
	if err0 != nil || err1 != nil || err2 != nil {
		return nil, 0, false
	}
	d0, d1, d2 := a0.RawData(), a1.RawData(), a2.RawData()

	var rr, vv float64
	for i := range d0 {
		r := d1[i] - d0[i]
		v := d2[i] - 2*d1[i] + d0[i]
		rr += r * r
		vv += v * v
	}
	if vv == 0 {
		return nil, 0, false
	}
	alpha := -math.Max(stepMin, math.Min(stepMax, math.Sqrt(rr/vv)))
	if math.IsNaN(alpha) {
		return nil, 0, false
	}

	out, err := matrix.NewDense(a0.Rows(), a0.Cols())
	if err != nil {
		return nil, 0, false
	}
	data := out.RawData()
	for i := range d0 {
		r := d1[i] - d0[i]
		v := d2[i] - 2*d1[i] + d0[i]
		data[i] = d0[i] - 2*alpha*r + alpha*alpha*v
	}
	if matrix.HasNonFinite(out) {
		return nil, 0, false
	}

	return out, alpha, true
}

func denseOf(m matrix.Matrix) (*matrix.Dense, error) {
	if d, ok := m.(*matrix.Dense); ok {
		return d, nil
	}
	d, err := matrix.NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	data := d.RawData()
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if data[i*m.Cols()+j], err = m.At(i, j); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// norm returns the selected norm over all elements; NaN propagates.
func norm(m matrix.Matrix, kind Norm) (float64, error) {
	d, err := denseOf(m)
	if err != nil {
		return 0, err
	}
	var acc float64
	d.Do(func(_, _ int, v float64) bool {
		if kind == L2 {
			acc += v * v

			return true
		}
		if math.IsNaN(v) {
			acc = v

			return false
		}
		acc = math.Max(acc, math.Abs(v))

		return true
	})
	if kind == L2 {
		return math.Sqrt(acc), nil
	}

	return acc, nil
}
