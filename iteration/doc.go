// SPDX-License-Identifier: MIT

// Package iteration runs contraction mappings to a fixed point.
//
// An Iteration is configured once and reused: New(method, opts...) validates
// the configuration; Iterate(start, f) repeatedly applies f and stops when
//
//	norm(f(x) − x) ≤ atol + rtol·norm(x)
//
// or when the evaluation budget is spent. Exhausting the budget is reported
// through Result.Converged, never as an error; errors are reserved for
// structural problems (nil start, contraction changed the shape, contraction
// failed).
//
// Methods:
//
//	– Simple:  x ← f(x).
//	– SQUAREM: squared extrapolation (Varadhan & Roland, scheme S3). Each cycle
//	  takes two plain steps, extrapolates along the observed direction with a
//	  bounded step length and stabilises the extrapolated point with one more
//	  evaluation. The step bound grows by StepFactor whenever it binds.
//
// Configuration can also be read from YAML:
//
//	method: squarem
//	atol: 1e-14
//	rtol: 0
//	max_evaluations: 5000
//	norm: infinity
package iteration
