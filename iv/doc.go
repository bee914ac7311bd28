// SPDX-License-Identifier: MIT

// Package iv implements generalized instrumental-variables estimation.
//
// For regressors X (n×k), instruments Z (n×m) and a weighting matrix W (m×m),
// New precomputes the projection XᵗZWZᵗ (k×n) and the parameter covariances
// (XᵗZWZᵗX)⁻¹ through robust inversion. Estimate then maps any outcome y
// (n×q) to
//
//	parameters = (XᵗZWZᵗX)⁻¹ · XᵗZWZᵗ · y
//	residuals  = y − X·parameters
//
// A singular XᵗZWZᵗX never fails estimation: the approximation that was used
// is recorded as a LinearParameterCovariancesInversion issue in Errors().
package iv
