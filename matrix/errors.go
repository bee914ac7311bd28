// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (possibly wrapped with an operation tag)
// and tests check them via errors.Is. No kernel panics on user input.

package matrix

import "errors"

// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Kernels wrap with fmt.Errorf("Op: %w", ErrX);
// callers still match with errors.Is.
//
// ERROR PRIORITY: nil -> shape -> index -> numeric (NaN/Inf) -> factorization.

var (
	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrBadShape is returned when a data buffer does not match the requested shape
	// or rows of a [][]float64 literal have different lengths.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Add/Sub different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the given tolerance.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required
	// (pseudo-inverse input, tolerances).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrMatrixEigenFailed indicates that the Jacobi routine failed to converge
	// under the given tolerance/sweeps.
	ErrMatrixEigenFailed = errors.New("matrix: eigen decomposition failed")

	// ErrSingular is returned when LU elimination meets a pivot that is zero
	// relative to the scale of the matrix.
	ErrSingular = errors.New("matrix: singular matrix")
)
