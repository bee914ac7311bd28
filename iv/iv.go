// SPDX-License-Identifier: MIT

package iv

import (
	"fmt"

	"github.com/katalvlaran/lvgmm/issues"
	"github.com/katalvlaran/lvgmm/matrix"
	"github.com/katalvlaran/lvgmm/robust"
	"go.uber.org/zap"
)

// IV holds the precomputed pieces of an IV/GMM linear estimator.
// It is immutable after New and safe for concurrent Estimate calls.
type IV struct {
	x           matrix.Matrix
	projection  matrix.Matrix // XᵗZWZᵗ, k×n
	covariances matrix.Matrix // robust inverse of XᵗZWZᵗX, k×k
	approx      robust.Approximation
	errs        *issues.Set
}

// New validates shapes and precomputes XᵗZWZᵗ and (XᵗZWZᵗX)⁻¹.
//
// Errors: ErrNilInput, ErrShape. Numerical trouble is never an error; see Errors.
func New(X, Z, W matrix.Matrix, opts ...Option) (*IV, error) {
	o := Options{Logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if X == nil || Z == nil || W == nil {
		return nil, fmt.Errorf("New: %w", ErrNilInput)
	}
	n, m := Z.Rows(), Z.Cols()
	if X.Rows() != n || W.Rows() != m || W.Cols() != m {
		return nil, fmt.Errorf("New: X %dx%d, Z %dx%d, W %dx%d: %w",
			X.Rows(), X.Cols(), n, m, W.Rows(), W.Cols(), ErrShape)
	}

	xt, err := matrix.Transpose(X)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	zt, err := matrix.Transpose(Z)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	projection, err := matrix.MulChain(xt, Z, W, zt)
	if err != nil {
		return nil, fmt.Errorf("New: projection: %w", err)
	}
	bread, err := matrix.Mul(projection, X)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	cov, approx := robust.Invert(bread, append([]robust.Option{robust.WithLogger(o.Logger)}, o.Inverse...)...)
	errs := issues.NewSet()
	if approx != robust.None {
		o.Logger.Debug("iv: parameter covariances approximated",
			zap.Stringer("approximation", approx),
			zap.Int("parameters", X.Cols()))
		errs.Add(issues.Inversion(issues.LinearParameterCovariancesInversion, approx.Describe()))
	}

	return &IV{
		x:           X.Clone(),
		projection:  projection,
		covariances: cov,
		approx:      approx,
		errs:        errs,
	}, nil
}

// Estimate returns the parameters (k×q) and residuals (n×q) for outcome y (n×q).
//
// Errors: ErrNilInput, ErrShape.
func (e *IV) Estimate(y matrix.Matrix) (parameters, residuals matrix.Matrix, err error) {
	parameters, err = e.Parameters(y)
	if err != nil {
		return nil, nil, err
	}
	fitted, err := matrix.Mul(e.x, parameters)
	if err != nil {
		return nil, nil, fmt.Errorf("Estimate: %w", err)
	}
	residuals, err = matrix.Sub(y, fitted)
	if err != nil {
		return nil, nil, fmt.Errorf("Estimate: %w", err)
	}

	return parameters, residuals, nil
}

// Parameters returns covariances · XᵗZWZᵗ · y without computing residuals.
func (e *IV) Parameters(y matrix.Matrix) (matrix.Matrix, error) {
	if y == nil {
		return nil, fmt.Errorf("Parameters: %w", ErrNilInput)
	}
	if y.Rows() != e.x.Rows() {
		return nil, fmt.Errorf("Parameters: y has %d rows, want %d: %w", y.Rows(), e.x.Rows(), ErrShape)
	}
	if e.covariances == nil {
		return nil, fmt.Errorf("Parameters: %w", ErrNilInput)
	}
	params, err := matrix.MulChain(e.covariances, e.projection, y)
	if err != nil {
		return nil, fmt.Errorf("Parameters: %w", err)
	}

	return params, nil
}

// Covariances returns a copy of the (possibly approximated) inverse of XᵗZWZᵗX.
func (e *IV) Covariances() matrix.Matrix { return e.covariances.Clone() }

// Approximation reports which inversion tier produced the covariances.
func (e *IV) Approximation() robust.Approximation { return e.approx }

// Errors returns a copy of the issues recorded by New.
func (e *IV) Errors() *issues.Set { return e.errs.Clone() }
