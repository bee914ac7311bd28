// SPDX-License-Identifier: MIT

// Package issues carries deferred numerical error signals.
//
// Estimation steps in lvgmm do not fail when a matrix is singular, a
// fixed-point iteration stalls or a result contains NaN. They record an Issue
// and keep going; the consuming call site decides whether to surface it.
//
// An Issue is a plain comparable value: a Kind plus, for inversion kinds, the
// description of the approximation that was used. A Set collects issues in
// insertion order and collapses duplicates.
//
// Kinds:
//
//	– LinearParameterCovariancesInversion  IV parameter covariances needed an approximation.
//	– GMMParameterCovariancesInversion     GMM parameter covariances needed an approximation.
//	– GMMMomentCovariancesInversion        the moment covariance (weighting matrix) needed one.
//	– AbsorptionConvergence                iterative demeaning did not converge.
//	– InvalidWeights                       the weighting matrix contains NaN.
//	– InvalidCovariances                   standard errors contain NaN.
//
// Conversion to error happens only on request:
//
//	if err := set.Err(); err != nil {
//	    if errors.Is(err, issues.ErrAbsorptionConvergence) { ... }
//	}
package issues
