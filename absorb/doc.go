// SPDX-License-Identifier: MIT

// Package absorb removes fixed effects from a matrix by iterative demeaning.
//
// Each grouping column (one fixed-effect dimension) is turned into a Plan once:
// a stable sort of the ids, the start of every run of equal ids in sorted
// order, the group of every row and the group sizes. A single pass
// subtracts, dimension by dimension, each row's group mean.
//
// With one grouping column a single pass is exact and no iteration happens.
// With several, the pass is handed to an Iterator as a contraction and run to
// a fixed point; running out of budget adds AbsorptionConvergence to the
// returned issue set and still returns the last estimate.
//
// Complexity:
//
//	– Plan construction: O(n log n) per dimension.
//	– One pass: O(D·n·k) for D dimensions and an n×k matrix.
//
// Errors (sentinel):
//
//	– ErrNoGroupings   if no grouping column is supplied.
//	– ErrIDLength      if a grouping column's length differs from the row count.
//	– ErrNilMatrix     if the matrix is nil.
//	– ErrNilIterator   if several grouping columns are supplied without an Iterator.
//
// Example:
//
//	it, _ := iteration.New(iteration.SQUAREM)
//	demeaned, set, err := absorb.Demean(x, [][]string{firms, years}, it)
package absorb
