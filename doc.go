// Package lvgmm is the numerical core of a GMM / instrumental-variables
// estimation workflow: the linear algebra that runs after a model has been
// specified and before anything is reported.
//
// 🚀 What is lvgmm?
//
//	A small, dependency-light library that brings together:
//		• Dense matrices with explicit error returns (matrix)
//		• Inversion that degrades gracefully instead of failing (robust)
//		• Fixed-effect absorption by iterative demeaning (absorb)
//		• Fixed-point drivers: simple and SQUAREM acceleration (iteration)
//		• IV / GMM linear parameter estimation (iv)
//		• GMM weighting matrices and standard errors (gmm)
//		• Deferred numerical issues instead of panics (issues)
//
// ✨ Why lvgmm?
//
//   - Singular matrices never abort an estimation; the approximation used is reported
//   - Structured debug logs through zap at every degradation point
//   - Pure Go – no cgo
//
// Data flow between the subpackages:
//
//	absorb ─► iv ─► gmm
//	   │       │     │
//	iteration  └─robust─┘
//
// Every stage returns an *issues.Set next to its result. Merge them and call
// Err() to surface everything that went wrong in one error.
//
//	go get github.com/katalvlaran/lvgmm
package lvgmm
