// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation,
// including element-wise addition, subtraction, matrix multiplication,
// transpose, scalar scaling and the factorizations used by robust inversion.
// All functions perform strict fail-fast validation and return clear errors
// on dimension mismatches.
//
// Purpose:
//   - Declare canonical linear-algebra kernels used across the module.
//   - Define operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - Kernels never skip zero operands: 0·NaN must stay NaN so that invalid
//     estimates surface downstream instead of being silently masked.

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opEigen     = "Eigen"
	opInverse   = "Inverse"
	opLU        = "LU"
	opPinv      = "PseudoInverse"
	opGram      = "Gram"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// Inputs must have identical shapes. A fresh Dense is allocated; operands are not mutated.
//
// Determinism:
//   - Fast-path: single flat slice walk 0..(r*c−1).
//   - Fallback: fixed nested loops i=0..r−1, j=0..c−1.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func addSub(a, b Matrix, sign float64, opTag string) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	// Fast path: *Dense with *Dense → single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			length := rows * cols
			for idx := 0; idx < length; idx++ {
				res.data[idx] = da.data[idx] + sign*db.data[idx]
			}

			return res, nil
		}
	}

	// Fallback: interface path with fixed i→j order.
	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[i*cols+j] = av + sign*bv
		}
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (Matrix, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (Matrix, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides;
//     otherwise use i→j→k with a fixed order.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			// da.data layout: i*aCols + k; db.data layout: k*bCols + j
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", i, k, err))
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// MulChain multiplies left to right: ms[0] × ms[1] × … × ms[n-1].
// Shape errors name the failing link.
// Complexity: sum of the pairwise products.
func MulChain(ms ...Matrix) (Matrix, error) {
	if len(ms) == 0 {
		return nil, matrixErrorf(opMul, ErrNilMatrix)
	}
	acc := ms[0]
	if err := ValidateNotNil(acc); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var err error
	for idx := 1; idx < len(ms); idx++ {
		if acc, err = Mul(acc, ms[idx]); err != nil {
			return nil, fmt.Errorf("link %d: %w", idx, err)
		}
	}

	return acc, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Input is validated non-nil; the original matrix is never mutated.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
// Complexity: Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}

	if dm, ok := m.(*Dense); ok {
		n := rows * cols
		for idx := 0; idx < n; idx++ {
			res.data[idx] = dm.data[idx] * alpha
		}

		return res, nil
	}

	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScale, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[i*cols+j] = v * alpha
		}
	}

	return res, nil
}

// Gram computes the cross-product AᵀA (c×c) of an r×c matrix.
//
// Implementation:
//   - Stage 1: Validate A (non-nil) and materialize a *Dense view.
//   - Stage 2: accumulate the upper triangle row by row, then mirror it,
//     so the result is exactly symmetric.
//
// Complexity: Time O(r*c²), Space O(c²).
func Gram(a Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	d, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	r, c := d.r, d.c
	res, err := NewDense(c, c)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	var i, j, k, base int
	var v float64
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			v = d.data[base+j]
			for k = j; k < c; k++ {
				res.data[j*c+k] += v * d.data[base+k]
			}
		}
	}
	for j = 0; j < c; j++ {
		for k = j + 1; k < c; k++ {
			res.data[k*c+j] = res.data[j*c+k]
		}
	}

	return res, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
//
// Implementation:
//   - Stage 1: Validate square + symmetric within tol.
//   - Stage 2: Repeatedly pick the largest off-diagonal pivot (p,q) and annihilate
//     it with a plane rotation, accumulating rotations into Q.
//   - Stage 3: Stop once max|A[p,q]| < tol; ErrMatrixEigenFailed when maxIter
//     rotations were not enough.
//
// Returns:
//   - eigenvalues (unsorted, diagonal order) and Q whose columns are eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrNaNInf (bad tol), ErrMatrixEigenFailed.
//
// Complexity:
//   - O(n) per pivot search row, O(n²) per rotation search; O(maxIter·n²) total.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.Rows()
	a, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	a = a.Clone().(*Dense) // working copy; the input is never mutated
	qRaw, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		qRaw.data[i*n+i] = 1.0
	}

	var (
		iter               int
		base               int
		p, q               int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		newIP, newIQ       float64
		theta, t           float64
		c, s               float64
	)
	maxOffDiag := func() float64 {
		mx := NormZero
		for i = 0; i < n; i++ {
			base = i * n
			for j = i + 1; j < n; j++ {
				if off = math.Abs(a.data[base+j]); off > mx {
					mx, p, q = off, i, j
				}
			}
		}

		return mx
	}

	for iter = 0; iter < maxIter; iter++ {
		// J.1: Find pivot (p,q) maximizing |A[p,q]|.
		if maxOff = maxOffDiag(); maxOff < tol {
			break
		}

		// J.2: Rotation parameters from A[p,p], A[q,q], A[p,q].
		app = a.data[p*n+p]
		aqq = a.data[q*n+q]
		apq = a.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.3: Apply rotation to A (symmetric update of rows/cols p and q).
		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip = a.data[i*n+p]
			aiq = a.data[i*n+q]
			newIP = c*aip - s*aiq
			newIQ = s*aip + c*aiq
			a.data[i*n+p], a.data[p*n+i] = newIP, newIP
			a.data[i*n+q], a.data[q*n+i] = newIQ, newIQ
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		a.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		a.data[p*n+q], a.data[q*n+p] = 0, 0

		// J.4: Accumulate rotation into Q.
		for i = 0; i < n; i++ {
			qip = qRaw.data[i*n+p]
			qiq = qRaw.data[i*n+q]
			qRaw.data[i*n+p] = c*qip - s*qiq
			qRaw.data[i*n+q] = s*qip + c*qiq
		}
	}

	if maxOffDiag() >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, qRaw, nil
}

// LU computes the factorization P·A = L·U with partial (row) pivoting.
//
// Implementation:
//   - Stage 1: Validate square; copy A into a working buffer.
//   - Stage 2: For each column k pick the row with the largest |a_ik| (i ≥ k),
//     swap it into place, then eliminate below the pivot (Doolittle, unit L).
//   - Stage 3: A pivot with |u_kk| ≤ n·ε·max|a_ij| is treated as zero.
//
// Returns:
//   - L (unit lower), U (upper) and perm where row i of P·A is row perm[i] of A.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func LU(m Matrix) (Matrix, Matrix, []int, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, nil, matrixErrorf(opLU, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opLU, err)
	}
	n := src.r
	w := make([]float64, n*n)
	copy(w, src.data)

	// Singularity threshold relative to the input scale.
	var scale float64
	for _, v := range w {
		if av := math.Abs(v); av > scale {
			scale = av
		}
	}
	pivotTol := float64(n) * machineEpsilon * scale

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var i, j, k, best int
	var bestAbs, pivot, factor float64
	for k = 0; k < n; k++ {
		// Partial pivoting: largest magnitude in column k at or below the diagonal.
		best, bestAbs = k, math.Abs(w[k*n+k])
		for i = k + 1; i < n; i++ {
			if av := math.Abs(w[i*n+k]); av > bestAbs {
				best, bestAbs = i, av
			}
		}
		if !(bestAbs > pivotTol) {
			return nil, nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		if best != k {
			for j = 0; j < n; j++ {
				w[k*n+j], w[best*n+j] = w[best*n+j], w[k*n+j]
			}
			perm[k], perm[best] = perm[best], perm[k]
		}
		pivot = w[k*n+k]
		for i = k + 1; i < n; i++ {
			factor = w[i*n+k] / pivot
			w[i*n+k] = factor // multipliers are stored in the strict lower part
			for j = k + 1; j < n; j++ {
				w[i*n+j] -= factor * w[k*n+j]
			}
		}
	}

	L, _ := NewDense(n, n)
	U, _ := NewDense(n, n)
	for i = 0; i < n; i++ {
		L.data[i*n+i] = 1.0
		for j = 0; j < n; j++ {
			if j < i {
				L.data[i*n+j] = w[i*n+j]
			} else {
				U.data[i*n+j] = w[i*n+j]
			}
		}
	}

	return L, U, perm, nil
}

// Inverse computes A^{-1} from the pivoted LU factorization.
//
// Implementation:
//   - Stage 1: Validate square; factor P·A = L·U.
//   - Stage 2: for each unit vector e_col solve L·y = P·e_col, then U·x = y.
//   - Stage 3: write x into column col of the result.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Inverse(m Matrix) (Matrix, error) {
	Lm, Um, perm, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	L, U := Lm.(*Dense), Um.(*Dense)
	n := L.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	var (
		col, i, k int
		sum       float64
		y         = make([]float64, n) // forward substitution workspace
		x         = make([]float64, n) // backward substitution workspace
	)
	for col = 0; col < n; col++ {
		// Forward substitution: L*y = P*e_col.
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			if perm[i] == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = ZeroSum - sum // avoids a signed zero
			}
		}
		// Backward substitution: U*x = y.
		for i = n - 1; i >= 0; i-- {
			sum = ZeroSum
			for k = i + 1; k < n; k++ {
				sum += U.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse A⁺ from a Jacobi
// eigen-decomposition.
//
// Implementation:
//   - Symmetric A (within DefaultEpsilon·‖A‖): A = V·Λ·Vᵀ, A⁺ = V·Λ⁺·Vᵀ where
//     Λ⁺ inverts eigenvalues with |λ| > max(rcond·max|λ|, n·tol·‖A‖_F) and
//     zeroes the rest.
//   - Otherwise: A⁺ = (AᵀA)⁺·Aᵀ with the cut-off applied to singular values
//     (λ = σ², so the threshold becomes rcond²·max λ).
//
// Inputs:
//   - rcond: relative cut-off; rcond ≤ 0 selects max(r,c)·ε.
//   - tol: Jacobi stopping tolerance relative to ‖A‖_F; tol ≤ 0 selects DefaultEigenTolerance.
//   - maxIter: rotation budget passed to Eigen; maxIter < 0 selects DefaultMaxSweeps·n².
//
// Errors:
//   - ErrNilMatrix; ErrNaNInf for non-finite input; ErrMatrixEigenFailed when
//     the rotations did not converge.
//
// Complexity:
//   - O(maxIter·n²) for the eigen step plus O(n³) reconstruction.
func PseudoInverse(m Matrix, rcond, tol float64, maxIter int) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opPinv, err)
	}
	a, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opPinv, err)
	}
	if HasNonFinite(a) {
		return nil, matrixErrorf(opPinv, ErrNaNInf)
	}
	r, c := a.r, a.c
	if rcond <= 0 {
		rcond = float64(max(r, c)) * machineEpsilon
	}
	if tol <= 0 {
		tol = DefaultEigenTolerance
	}

	symmetric := r == c && ValidateSymmetric(a, DefaultEpsilon*frobenius(a)) == nil
	var target Matrix
	if symmetric {
		// Round-off asymmetry must never trip Eigen.
		if target, err = Symmetrize(a); err != nil {
			return nil, matrixErrorf(opPinv, err)
		}
	} else {
		if target, err = Gram(a); err != nil {
			return nil, matrixErrorf(opPinv, err)
		}
		rcond *= rcond
	}

	n := target.Rows()
	if maxIter < 0 {
		maxIter = DefaultMaxSweeps * n * n
	}
	norm := frobenius(target.(*Dense))
	if norm == 0 {
		// Pseudo-inverse of a zero matrix is the zero matrix of transposed shape.
		return NewDense(c, r)
	}
	absTol := tol * norm
	vals, vecs, err := Eigen(target, absTol, maxIter)
	if err != nil {
		return nil, matrixErrorf(opPinv, err)
	}

	// Largest magnitude eigenvalue fixes the relative cut-off; eigenvalues
	// below the accuracy of the sweeps (n·absTol) are treated as zero.
	var top float64
	for _, v := range vals {
		top = math.Max(top, math.Abs(v))
	}
	cut := math.Max(rcond*top, float64(n)*absTol)
	V := vecs.(*Dense)
	inv := make([]float64, n)
	for k, v := range vals {
		if math.Abs(v) > cut {
			inv[k] = 1 / v
		}
	}

	// core = V·Λ⁺·Vᵀ, accumulated entry by entry to stay symmetric.
	core, _ := NewDense(n, n)
	var i, j, k int
	var acc float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			acc = ZeroSum
			for k = 0; k < n; k++ {
				if inv[k] != 0 {
					acc += V.data[i*n+k] * inv[k] * V.data[j*n+k]
				}
			}
			core.data[i*n+j] = acc
			core.data[j*n+i] = acc
		}
	}
	if symmetric {
		return core, nil
	}

	at, err := Transpose(a)
	if err != nil {
		return nil, matrixErrorf(opPinv, err)
	}
	out, err := Mul(core, at)
	if err != nil {
		return nil, matrixErrorf(opPinv, err)
	}

	return out, nil
}

// frobenius returns ‖A‖_F over the flat buffer.
func frobenius(d *Dense) float64 {
	var acc float64
	for _, v := range d.data {
		acc += v * v
	}

	return math.Sqrt(acc)
}
