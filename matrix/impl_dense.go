// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Support copy-based row/column gathering (Induced) for permutation-heavy callers.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Induced: O(r'*c').

package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt     = "At"      // method tag used in error wrappers
	ctxSet    = "Set"     // method tag used in error wrappers
	ctxInduce = "Induced" // ctor/tag for Dense.Induced
	ctxFrom   = "NewDenseFrom"
	ctxRows   = "NewFromRows"
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Stable, human-friendly messages; preserves the sentinel via %w.
// Complexity: O(1).
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - NaN and ±Inf are stored as-is; estimation code reports them as issues.
type Dense struct {
	r, c int       // row and column counts
	data []float64 // contiguous row-major storage (len == r*c)
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: allocate zero-filled buffer.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	// make() zero-fills deterministically.
	buf := make([]float64, rows*cols)

	return &Dense{r: rows, c: cols, data: buf}, nil
}

// NewDenseFrom builds an r×c Dense from a row-major buffer.
// The buffer is copied; the caller keeps ownership of data.
//
// Errors:
//   - ErrInvalidDimensions for non-positive shapes.
//   - ErrBadShape when len(data) != rows*cols.
//
// Complexity: O(r*c).
func NewDenseFrom(rows, cols int, data []float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctxFrom, err)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s: len(data)=%d want %d: %w", ctxFrom, len(data), rows*cols, ErrBadShape)
	}
	copy(m.data, data)

	return m, nil
}

// NewFromRows builds a Dense from a rectangular [][]float64 literal.
//
// Errors:
//   - ErrInvalidDimensions when there are no rows or the first row is empty.
//   - ErrBadShape when rows have different lengths.
//
// Complexity: O(r*c).
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", ctxRows, ErrInvalidDimensions)
	}
	r, c := len(rows), len(rows[0])
	m, err := NewDense(r, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctxRows, err)
	}
	for i := 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d: %w", ctxRows, i, len(rows[i]), c, ErrBadShape)
		}
		copy(m.data[i*c:(i+1)*c], rows[i])
	}

	return m, nil
}

// NewFull returns an r×c Dense with every element equal to v.
// NewFull(r, c, math.NaN()) is the "could not compute" sentinel used by
// robust inversion.
// Complexity: O(r*c).
func NewFull(rows, cols int, v float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	for idx := range m.data {
		m.data[idx] = v
	}

	return m, nil
}

// Rows returns the row count. No side effects.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. No side effects.
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// RawData returns the row-major backing slice (shared, not copied).
// Writes through the slice skip bounds checks; callers that need them use Set.
func (m *Dense) RawData() []float64 { return m.data }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Public methods (At/Set) wrap the sentinel with coordinates and method name.
// Complexity: O(1).
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Never panics on out-of-range; returns a wrapped sentinel error.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns ErrOutOfRange.
//
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy with a new buffer.
// Returned dynamic type is *Dense.
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp}
}

// String renders rows as lines with comma-separated %g values.
// Not for hot paths; intended for logs and debugging.
// Complexity: O(r*c).
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// Induced materializes a copy submatrix using explicit index sets.
//
// Implementation:
//   - Stage 1: handle zero-sized result (legal).
//   - Stage 2: allocate result via NewDense.
//   - Stage 3: nested loops with direct offset math; bounds-check each index.
//
// Behavior highlights:
//   - Duplicates in index sets are allowed (repeated rows/cols in the result),
//     so a permutation gathers rows in sorted order: m.Induced(perm, allCols).
//
// Errors:
//   - ErrOutOfRange (index outside bounds).
//
// Complexity:
//   - Time O(rp*cp), Space O(rp*cp).
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	rp := len(rowsIdx)
	cp := len(colsIdx)
	if rp == 0 || cp == 0 {
		return &Dense{r: rp, c: cp, data: make([]float64, 0)}, nil
	}

	res, err := NewDense(rp, cp)
	if err != nil {
		return nil, err
	}

	var i, j int
	var ri, cj int
	for j = 0; j < cp; j++ {
		if cj = colsIdx[j]; cj < 0 || cj >= m.c {
			return nil, fmt.Errorf("Dense.%s: col index %d: %w", ctxInduce, cj, ErrOutOfRange)
		}
	}
	for i = 0; i < rp; i++ {
		ri = rowsIdx[i]
		if ri < 0 || ri >= m.r {
			return nil, fmt.Errorf("Dense.%s: row index %d: %w", ctxInduce, ri, ErrOutOfRange)
		}
		src, dst := ri*m.c, i*cp
		for j = 0; j < cp; j++ {
			res.data[dst+j] = m.data[src+colsIdx[j]]
		}
	}

	return res, nil
}

// Do visits each element (i,j) in row-major order and calls f(i,j,v).
// Read-only visitor; stops early when f returns false.
// Complexity: O(r*c), Space O(1).
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return // early exit requested by caller
			}
		}
	}
}

// Apply replaces each element with f(i,j,v) in-place.
//
// Behavior highlights:
//   - Deterministic row-major order; no extra allocations.
//
// Complexity: O(r*c), Space O(1).
func (m *Dense) Apply(f func(i, j int, v float64) float64) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			m.data[base+j] = f(i, j, m.data[base+j])
		}
	}
}

// asDense returns m as *Dense, copying through At when m has another dynamic
// type. Kernels use it to reach the flat fast path exactly once per call.
// Complexity: O(1) for *Dense, O(r*c) otherwise.
func asDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}
