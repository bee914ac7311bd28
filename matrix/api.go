// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin, documented entry points over the canonical kernels.
//   - Each facade delegates; loop orders and numeric policy stay in the kernels.

package matrix

import "math"

// ---------- Constructors & Utilities ----------

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// NaNLike returns a matrix of m's shape filled with NaN.
func NaNLike(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("NaNLike", err)
	}

	return NewFull(m.Rows(), m.Cols(), math.NaN())
}

// ColumnVector wraps a copy of v as a len(v)×1 matrix.
func ColumnVector(v []float64) (*Dense, error) {
	return NewDenseFrom(len(v), 1, v)
}

// ---------- Diagonals ----------

// Diagonal returns the main diagonal of a square matrix as a fresh slice.
// Complexity: O(n).
func Diagonal(m Matrix) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf("Diagonal", err)
	}
	n := m.Rows()
	out := make([]float64, n)
	var err error
	for i := 0; i < n; i++ {
		if out[i], err = m.At(i, i); err != nil {
			return nil, matrixErrorf("Diagonal", err)
		}
	}

	return out, nil
}

// Diag builds the n×n matrix with d on the diagonal and zeros elsewhere.
func Diag(d []float64) (*Dense, error) {
	n := len(d)
	out, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf("Diag", err)
	}
	for i, v := range d {
		out.data[i*n+i] = v
	}

	return out, nil
}

// ---------- Row / column helpers ----------

// ScaleRows returns out[i,j] = m[i,j] * s[i]; len(s) must equal m.Rows().
// This is diag(s)·m without materializing the diagonal matrix.
func ScaleRows(m Matrix, s []float64) (Matrix, error) { return ewScaleRows(m, s) }

// ColMeans returns the column means of m.
func ColMeans(m Matrix) ([]float64, error) { return colMeans(m) }

// CenterColumns subtracts the column means and returns (centered, means).
func CenterColumns(m Matrix) (Matrix, []float64, error) { return centerColumns(m) }

// Symmetrize returns (m + mᵀ)/2. Deterministic composition: Transpose → Add → Scale.
func Symmetrize(m Matrix) (Matrix, error) {
	mt, err := Transpose(m)
	if err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}
	sum, err := Add(m, mt)
	if err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}

	return Scale(sum, 0.5)
}

// ---------- Numeric inspection ----------

// HasNaN reports whether any element of m is NaN. A nil matrix has none.
func HasNaN(m Matrix) bool {
	found, err := ewAny(m, math.IsNaN)

	return err == nil && found
}

// HasNonFinite reports whether any element of m is NaN or ±Inf.
func HasNonFinite(m Matrix) bool {
	found, err := ewAny(m, isNonFinite)

	return err == nil && found
}

// AllClose reports whether |a-b| ≤ atol + rtol*|b| holds element-wise.
// Shapes must match; NaN is never close.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	return ewAllClose(a, b, rtol, atol)
}
