// SPDX-License-Identifier: MIT

// Package gmm computes GMM weighting matrices and parameter standard errors.
//
// Given residuals u (n×1), instruments Z (n×m), a weighting matrix W (m×m)
// and the Jacobian of u with respect to the parameters (n×p):
//
//	ComputeWeights: W  = (gᵗg)⁻¹,            g = u ⊙ Z, optionally centered
//	ComputeSE:      se = sqrt(diag(V)),      G = Zᵗ·jacobian
//	  unadjusted    V  = (GᵗWG)⁻¹
//	  robust        V  = (GᵗWG)⁻¹ · GᵗWZᵗ diag(u²) ZWG · (GᵗWG)⁻¹
//	  clustered     as robust, with the middle term summed within clusters
//
// Every inversion goes through robust.Invert. Approximations and NaN results
// are reported in the returned *issues.Set; only malformed inputs are errors.
package gmm
