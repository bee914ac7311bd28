// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column statistics needed by moment computations: means and centering.
//   - Compositions over the ew* micro-kernels; the centered result is a copy.
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

const (
	opCenterColumns = "CenterColumns"
	opColMeans      = "ColMeans"
)

// colMeans returns Σ_i X[i,j] / r for every column j.
// NaN entries propagate into their column mean.
// Complexity: Time O(r*c), Space O(c).
func colMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColMeans, err)
	}

	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)
	var i, j int

	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base := i * c
			for j = 0; j < c; j++ {
				means[j] += d.data[base+j]
			}
		}
	} else {
		var v float64
		var err error
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, matrixErrorf(opColMeans, err)
				}
				means[j] += v
			}
		}
	}

	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	return means, nil
}

// centerColumns subtracts the per-column mean from every element.
//
// Implementation:
//   - Stage 1: Validate X and compute column means (colMeans).
//   - Stage 2: Apply ewBroadcastSubCols to produce a centered copy.
//
// Returns:
//   - Matrix: centered copy (r×c).
//   - []float64: column means (len=c), usable to un-center later.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for output (+ O(c) means).
func centerColumns(X Matrix) (Matrix, []float64, error) {
	means, err := colMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	Xc, err := ewBroadcastSubCols(X, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}
