// SPDX-License-Identifier: MIT

// Package robust inverts matrices with graceful degradation.
//
// Invert tries, in order:
//
//  1. the exact inverse (LU with partial pivoting);
//  2. the Moore-Penrose pseudo-inverse, when the matrix is singular;
//  3. the inverse of the diagonal only, when the pseudo-inverse cannot be
//     computed (Jacobi sweeps did not converge or produced non-finite values).
//
// The returned Approximation names the tier that produced the result, and its
// Describe method gives the wording used in issue reports. Structurally
// invalid input (non-square, non-finite entries) yields a NaN matrix of the
// same shape with approximation None, so downstream code sees NaN instead of
// an error.
//
// Invert never panics and never returns an error.
//
// Example:
//
//	inv, approx := robust.Invert(m, robust.WithLogger(log))
//	if approx != robust.None {
//	    set.Add(issues.Inversion(issues.GMMMomentCovariancesInversion, approx.Describe()))
//	}
package robust
