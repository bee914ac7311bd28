// Package matrix is the dense linear-algebra substrate of lvgmm.
//
// The package provides:
//
//   - Matrix, a small interface over two-dimensional float64 arrays, and Dense,
//     its row-major implementation with bounds-checked accessors.
//   - Deterministic kernels: Add, Sub, Mul, Transpose, Scale, ScaleRows,
//     Gram, Diagonal, CenterColumns, ColMeans.
//   - Factorizations used by the estimation packages: LU with partial pivoting,
//     Inverse, symmetric Jacobi Eigen and the Moore-Penrose PseudoInverse.
//
// Numeric policy:
//
//	Dense stores NaN and ±Inf as-is. Estimation code reports NaN results
//	through issue sets instead of rejecting them at Set.
//
// All kernels allocate a fresh result and never mutate their operands.
// *Dense operands unlock flat-slice fast paths; any other Matrix goes through
// the bounds-checked At/Set fallback with the same loop order.
package matrix
