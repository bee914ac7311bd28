// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/symmetry checks here.
//  - Return sentinel errors tagged with the validator name so call sites can
//    wrap uniformly with their operation tag.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check runs O(n²) on the upper triangle only.

package matrix

import (
	"fmt"
	"math"
)

// zeroTol is the lower bound for user supplied tolerances.
const zeroTol = 0.0

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// isNilMatrix reports whether m is nil or a typed nil *Dense.
func isNilMatrix(m Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*Dense)

	return ok && d == nil
}

// ValidateNotNil ensures the matrix reference is non-nil (including typed nil *Dense).
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if isNilMatrix(m) {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures matrices a and b have equal dimensions.
// Assumes a and b are not nil (caller must ensure).
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
//
// Errors: ErrNilMatrix if nil, ErrNonSquare if not square.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if isNilMatrix(m) {
		return validatorErrorf("ValidateSquare", ErrNilMatrix)
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape is the composite NotNil(a) → NotNil(b) → SameShape.
// Complexity: O(1).
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols == b.Rows with non-nil inputs.
// Complexity: O(1).
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSymmetric checks A is symmetric within tolerance tol:
// |A[i,j] - A[j,i]| ≤ tol for all i<j.
//
// Returns ErrNilMatrix/ErrNonSquare on structural issues, ErrNaNInf on a bad
// tol, ErrAsymmetry on violation. A NaN entry never compares as symmetric.
// Complexity: O(n^2). Space: O(1).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	if tol < zeroTol {
		tol = -tol
	}

	n := m.Rows()
	if n <= 1 {
		return nil
	}

	var (
		i, j     int
		aij, aji float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			aij, _ = m.At(i, j) // errors are not expected after shape validation
			aji, _ = m.At(j, i)
			if !(math.Abs(aij-aji) <= tol) {
				return validatorErrorf("ValidateSymmetric", ErrAsymmetry)
			}
		}
	}

	return nil
}
