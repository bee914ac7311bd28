// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide small, private element-wise and broadcast kernels (ew*) shared by
//     the statistics helpers and the public facades in api.go.
//   - Keep all loops deterministic with Dense fast-paths.
//
// Determinism & Performance:
//   - Fixed loop orders (i→j or flat 0..n-1).
//   - No hidden allocations beyond the output Dense; O(r*c) time and space.

package matrix

import (
	"math"
)

// ewBroadcastSubCols computes out[i,j] = X[i,j] - colMeans[j].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewBroadcastSubCols(X Matrix, colMeans []float64) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}
	r, c := X.Rows(), X.Cols()
	if len(colMeans) != c {
		return nil, matrixErrorf("broadcastSubCols", ErrDimensionMismatch)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}

	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			base := i * c
			for j := 0; j < c; j++ {
				out.data[base+j] = d.data[base+j] - colMeans[j]
			}
		}

		return out, nil
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return nil, matrixErrorf("broadcastSubCols", e)
			}
			out.data[i*c+j] = v - colMeans[j]
		}
	}

	return out, nil
}

// ewScaleRows computes out[i,j] = X[i,j] * scale[i].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewScaleRows(X Matrix, scale []float64) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("ScaleRows", err)
	}
	r, c := X.Rows(), X.Cols()
	if len(scale) != r {
		return nil, matrixErrorf("ScaleRows", ErrDimensionMismatch)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("ScaleRows", err)
	}

	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			base := i * c
			sf := scale[i]
			for j := 0; j < c; j++ {
				out.data[base+j] = d.data[base+j] * sf
			}
		}

		return out, nil
	}

	for i := 0; i < r; i++ {
		sf := scale[i]
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return nil, matrixErrorf("ScaleRows", e)
			}
			out.data[i*c+j] = v * sf
		}
	}

	return out, nil
}

// ewAny reports whether pred holds for at least one element of X.
// Early-exits on the first hit. Time: O(r*c). Space: O(1).
func ewAny(X Matrix, pred func(float64) bool) (bool, error) {
	if err := ValidateNotNil(X); err != nil {
		return false, err
	}
	if d, ok := X.(*Dense); ok {
		for _, v := range d.data {
			if pred(v) {
				return true, nil
			}
		}

		return false, nil
	}

	r, c := X.Rows(), X.Cols()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return false, e
			}
			if pred(v) {
				return true, nil
			}
		}
	}

	return false, nil
}

func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// ewAllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN never compares close, not even to NaN.
// Time: O(r*c). Space: O(1). Deterministic.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|.
func ewAllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}

	r, c := a.Rows(), a.Cols()
	close := func(av, bv float64) bool {
		return math.Abs(av-bv) <= atol+rtol*math.Abs(bv)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				if !close(da.data[idx], db.data[idx]) {
					return false, nil
				}
			}

			return true, nil
		}
	}

	var av, bv float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			if !close(av, bv) {
				return false, nil
			}
		}
	}

	return true, nil
}
