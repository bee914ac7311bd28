// SPDX-License-Identifier: MIT

package robust

import (
	"errors"

	"github.com/katalvlaran/lvgmm/matrix"
	"go.uber.org/zap"
)

// Invert returns the best available inverse of m and the tier that produced it.
//
// Stages:
//   - invalid input (nil, non-square, NaN/±Inf): NaN matrix of m's shape, None
//     (nil for nil input);
//   - matrix.Inverse succeeds: exact inverse, None;
//   - singular: matrix.PseudoInverse, PseudoInverse;
//   - pseudo-inverse failed or is non-finite: diag(1/diag(m)), DiagonalOnly.
//     A zero on the diagonal yields ±Inf there.
//
// The input is never mutated.
func Invert(m matrix.Matrix, opts ...Option) (matrix.Matrix, Approximation) {
	o := buildOptions(opts)
	log := o.Logger

	if m == nil {
		log.Debug("robust: nil matrix")

		return nil, None
	}
	if m.Rows() != m.Cols() || matrix.HasNonFinite(m) {
		log.Debug("robust: invalid matrix, returning NaN",
			zap.Int("rows", m.Rows()), zap.Int("cols", m.Cols()))

		return nanLike(m), None
	}

	inv, err := matrix.Inverse(m)
	if err == nil {
		return inv, None
	}
	if !errors.Is(err, matrix.ErrSingular) {
		log.Debug("robust: inverse failed", zap.Error(err))

		return nanLike(m), None
	}

	pinv, err := matrix.PseudoInverse(m, o.Rcond, o.EigenTolerance, o.MaxSweeps)
	if err == nil && !matrix.HasNonFinite(pinv) {
		log.Debug("robust: singular matrix approximated",
			zap.Stringer("approximation", PseudoInverse), zap.Int("n", m.Rows()))

		return pinv, PseudoInverse
	}
	log.Debug("robust: pseudo-inverse failed, inverting diagonal",
		zap.Stringer("approximation", DiagonalOnly), zap.Error(err))

	return diagonalInverse(m), DiagonalOnly
}

// diagonalInverse returns diag(1/m[i,i]); off-diagonal entries are zero.
func diagonalInverse(m matrix.Matrix) matrix.Matrix {
	d, err := matrix.Diagonal(m)
	if err != nil {
		return nanLike(m)
	}
	for i, v := range d {
		d[i] = 1 / v
	}
	out, err := matrix.Diag(d)
	if err != nil {
		return nanLike(m)
	}

	return out
}

func nanLike(m matrix.Matrix) matrix.Matrix {
	out, err := matrix.NaNLike(m)
	if err != nil {
		return nil
	}

	return out
}
