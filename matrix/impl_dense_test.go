// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvgmm/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestRowsCols verifies that Rows() and Cols() return correct dimension values.
func TestRowsCols(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(3, 4)
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
	r, c := m.Shape()
	require.Equal(t, []int{3, 4}, []int{r, c})
}

// TestAtSetOutOfRange ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfRange(t *testing.T) {
	t.Parallel()

	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
}

// TestSetGet validates Set() followed by At() on valid indices.
func TestSetGet(t *testing.T) {
	t.Parallel()

	m := MustDense(t, 2, 3)
	require.NoError(t, m.Set(1, 2, 7.89))
	require.Equal(t, 7.89, MustAt(t, m, 1, 2))
}

// TestNaNStorable checks that NaN and ±Inf are stored as-is.
func TestNaNStorable(t *testing.T) {
	t.Parallel()

	m := MustDense(t, 1, 2)
	require.NoError(t, m.Set(0, 0, math.NaN()))
	require.NoError(t, m.Set(0, 1, math.Inf(-1)))
	require.True(t, math.IsNaN(MustAt(t, m, 0, 0)))
	require.True(t, math.IsInf(MustAt(t, m, 0, 1), -1))
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 0}, {0, 2}})
	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 3.0))

	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
	require.Equal(t, 3.0, MustAt(t, clone, 0, 0))
}

// TestStringOutput checks that String() formats the matrix as expected.
func TestStringOutput(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

// TestConstructors covers NewDenseFrom, NewFromRows and NewFull shape handling.
func TestConstructors(t *testing.T) {
	t.Parallel()

	buf := []float64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewDenseFrom(2, 3, buf)
	require.NoError(t, err)
	buf[0] = 100 // caller keeps ownership
	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
	require.Equal(t, 6.0, MustAt(t, m, 1, 2))

	_, err = matrix.NewDenseFrom(2, 2, buf)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.NewFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	full, err := matrix.NewFull(2, 2, math.NaN())
	require.NoError(t, err)
	require.True(t, isNaNAll(full))
}

// TestInduced gathers rows in permuted order, with duplicates allowed.
func TestInduced(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	sub, err := m.Induced([]int{2, 0, 2}, []int{1})
	require.NoError(t, err)
	require.Equal(t, []float64{6, 2, 6}, sub.RawData())

	_, err = m.Induced([]int{3}, []int{0})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestDoApply checks visitor early exit and in-place mapping.
func TestDoApply(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	visited := 0
	m.Do(func(_, _ int, v float64) bool {
		visited++

		return v < 2
	})
	require.Equal(t, 2, visited)

	m.Apply(func(i, j int, v float64) float64 { return v * float64(i+j+1) })
	require.Equal(t, []float64{1, 4, 6, 12}, m.RawData())
}
