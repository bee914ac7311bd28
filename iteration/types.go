// SPDX-License-Identifier: MIT

package iteration

import (
	"errors"
	"math"

	"github.com/katalvlaran/lvgmm/matrix"
	"go.uber.org/zap"
)

// Sentinel errors returned by the iteration package.
var (
	// ErrUnknownMethod indicates a method name other than "simple" or "squarem".
	ErrUnknownMethod = errors.New("iteration: unknown method")

	// ErrUnknownNorm indicates a norm name other than "infinity" or "l2".
	ErrUnknownNorm = errors.New("iteration: unknown norm")

	// ErrInvalidTolerance indicates a negative or non-finite atol/rtol.
	ErrInvalidTolerance = errors.New("iteration: tolerances must be finite and non-negative")

	// ErrInvalidBudget indicates max_evaluations < 1.
	ErrInvalidBudget = errors.New("iteration: max_evaluations must be positive")

	// ErrInvalidSteps indicates SQUAREM step bounds that are not 0 < min ≤ max with factor ≥ 1.
	ErrInvalidSteps = errors.New("iteration: invalid SQUAREM step bounds")

	// ErrNilStart indicates a nil starting matrix.
	ErrNilStart = errors.New("iteration: nil starting value")

	// ErrShapeChanged indicates that the contraction returned a matrix of a different shape.
	ErrShapeChanged = errors.New("iteration: contraction changed the shape")

	// ErrContraction wraps any error returned by the contraction itself.
	ErrContraction = errors.New("iteration: contraction failed")
)

// Method selects the fixed-point scheme.
type Method string

const (
	// Simple repeats x ← f(x).
	Simple Method = "simple"

	// SQUAREM uses squared extrapolation between plain steps.
	SQUAREM Method = "squarem"
)

// Valid reports whether m names a supported method.
func (m Method) Valid() bool { return m == Simple || m == SQUAREM }

// Norm selects how the change between iterates is measured.
type Norm string

const (
	// Infinity is max |x_ij|.
	Infinity Norm = "infinity"

	// L2 is the Frobenius norm sqrt(Σ x_ij²).
	L2 Norm = "l2"
)

// Valid reports whether n names a supported norm.
func (n Norm) Valid() bool { return n == Infinity || n == L2 }

// Contraction maps the current estimate to the next one.
type Contraction func(x matrix.Matrix) (matrix.Matrix, error)

// Result summarises one Iterate call.
//
// Matrix      – final estimate (same shape as the start).
// Converged   – false when the evaluation budget ran out first.
// Iterations  – accepted updates (plain steps for Simple, cycles for SQUAREM).
// Evaluations – calls made to the contraction.
type Result struct {
	Matrix      matrix.Matrix
	Converged   bool
	Iterations  int
	Evaluations int
}

// Default option values.
const (
	DefaultMethod         = SQUAREM
	DefaultAtol           = 1e-14
	DefaultRtol           = 0.0
	DefaultMaxEvaluations = 5000
	DefaultNorm           = Infinity
	DefaultStepMin        = 1.0
	DefaultStepMax        = 1.0
	DefaultStepFactor     = 4.0
)

// Options configures an Iteration.
//
// Atol, Rtol        – convergence when norm(f(x)−x) ≤ Atol + Rtol·norm(x).
// MaxEvaluations    – contraction budget per Iterate call.
// Norm              – Infinity or L2.
// StepMin, StepMax  – initial SQUAREM bounds on |α|.
// StepFactor        – multiplier applied to StepMax each time it binds.
// Logger            – receives debug entries on non-convergence and fallbacks.
type Options struct {
	Atol           float64
	Rtol           float64
	MaxEvaluations int
	Norm           Norm
	StepMin        float64
	StepMax        float64
	StepFactor     float64
	Logger         *zap.Logger
}

// Option represents a functional option for configuring an Iteration.
type Option func(*Options)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Atol:           DefaultAtol,
		Rtol:           DefaultRtol,
		MaxEvaluations: DefaultMaxEvaluations,
		Norm:           DefaultNorm,
		StepMin:        DefaultStepMin,
		StepMax:        DefaultStepMax,
		StepFactor:     DefaultStepFactor,
		Logger:         zap.NewNop(),
	}
}

// WithAtol sets the absolute tolerance.
func WithAtol(atol float64) Option { return func(o *Options) { o.Atol = atol } }

// WithRtol sets the relative tolerance.
func WithRtol(rtol float64) Option { return func(o *Options) { o.Rtol = rtol } }

// WithMaxEvaluations sets the contraction budget.
func WithMaxEvaluations(n int) Option { return func(o *Options) { o.MaxEvaluations = n } }

// WithNorm selects the convergence norm.
func WithNorm(n Norm) Option { return func(o *Options) { o.Norm = n } }

// WithSteps sets the SQUAREM step bounds and growth factor.
func WithSteps(minStep, maxStep, factor float64) Option {
	return func(o *Options) {
		o.StepMin, o.StepMax, o.StepFactor = minStep, maxStep, factor
	}
}

// WithLogger routes debug messages to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// validate checks o and returns the first violated rule.
func (o Options) validate() error {
	for _, v := range []float64{o.Atol, o.Rtol} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidTolerance
		}
	}
	if o.MaxEvaluations < 1 {
		return ErrInvalidBudget
	}
	if !o.Norm.Valid() {
		return ErrUnknownNorm
	}
	if !(o.StepMin > 0) || !(o.StepMax >= o.StepMin) || !(o.StepFactor >= 1) || math.IsInf(o.StepMax, 0) {
		return ErrInvalidSteps
	}

	return nil
}
