// SPDX-License-Identifier: MIT

package robust

import (
	"fmt"

	"github.com/katalvlaran/lvgmm/matrix"
	"go.uber.org/zap"
)

// Approximation identifies which inversion tier produced a result.
type Approximation int

const (
	// None: the result is the exact inverse, or the NaN sentinel for invalid input.
	None Approximation = iota

	// PseudoInverse: the matrix was singular; the Moore-Penrose pseudo-inverse was used.
	PseudoInverse

	// DiagonalOnly: only the variance terms (diagonal) were inverted.
	DiagonalOnly
)

// Describe returns the report wording of the approximation ("" for None).
func (a Approximation) Describe() string {
	switch a {
	case PseudoInverse:
		return "computing the Moore-Penrose pseudo inverse"
	case DiagonalOnly:
		return "inverting only the variance terms, since the Moore-Penrose pseudo inverse could not be computed"
	default:
		return ""
	}
}

// String returns a short identifier for logs.
func (a Approximation) String() string {
	switch a {
	case None:
		return "none"
	case PseudoInverse:
		return "pseudo-inverse"
	case DiagonalOnly:
		return "diagonal-only"
	default:
		return fmt.Sprintf("Approximation(%d)", int(a))
	}
}

// Default option values.
const (
	// DefaultRcond selects the relative eigenvalue cut-off max(r,c)·ε.
	DefaultRcond = 0.0

	// DefaultEigenTolerance bounds the remaining off-diagonal mass of the
	// Jacobi sweeps relative to the Frobenius norm.
	DefaultEigenTolerance = matrix.DefaultEigenTolerance

	// DefaultMaxSweeps selects DefaultMaxSweeps·n² rotations.
	DefaultMaxSweeps = -1
)

// Options configures Invert.
//
// Rcond          – relative cut-off below which eigenvalues are treated as zero (≤ 0: default).
// EigenTolerance – Jacobi stopping tolerance relative to ‖A‖_F.
// MaxSweeps      – rotation budget for the Jacobi step (< 0: default).
// Logger         – receives a debug entry on every degradation.
type Options struct {
	Rcond          float64
	EigenTolerance float64
	MaxSweeps      int
	Logger         *zap.Logger
}

// Option represents a functional option for configuring Invert.
type Option func(*Options)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Rcond:          DefaultRcond,
		EigenTolerance: DefaultEigenTolerance,
		MaxSweeps:      DefaultMaxSweeps,
		Logger:         zap.NewNop(),
	}
}

// WithRcond sets the relative eigenvalue cut-off of the pseudo-inverse.
// Panics if rcond is negative.
func WithRcond(rcond float64) Option {
	if rcond < 0 {
		panic("robust: WithRcond requires rcond >= 0")
	}

	return func(o *Options) { o.Rcond = rcond }
}

// WithEigenTolerance sets the Jacobi stopping tolerance (relative).
// Panics if tol is not positive.
func WithEigenTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("robust: WithEigenTolerance requires tol > 0")
	}

	return func(o *Options) { o.EigenTolerance = tol }
}

// WithMaxSweeps sets the Jacobi rotation budget. Zero forbids any rotation,
// which forces the diagonal tier for every non-diagonal singular input.
func WithMaxSweeps(n int) Option {
	return func(o *Options) { o.MaxSweeps = n }
}

// WithLogger routes degradation messages to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
