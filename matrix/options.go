// SPDX-License-Identifier: MIT

// Package matrix: numeric defaults shared by the factorization kernels.
// A single source of truth: estimation packages reference these constants
// rather than repeating magic numbers.
package matrix

import "math"

const (
	// DefaultEpsilon is the symmetry tolerance used when deciding whether a
	// matrix can be decomposed directly by Jacobi sweeps.
	DefaultEpsilon = 1e-9

	// DefaultEigenTolerance bounds max|A[p,q]| (off-diagonal) at which Jacobi
	// sweeps stop, relative to the Frobenius norm of the input.
	DefaultEigenTolerance = 1e-12

	// DefaultMaxSweeps caps the number of Jacobi rotations per n² elements.
	DefaultMaxSweeps = 100
)

// machineEpsilon is the spacing of float64 values around 1.0.
var machineEpsilon = math.Nextafter(1, 2) - 1
