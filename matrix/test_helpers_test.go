// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and utilities for kernel tests.
//   - hide{} masks *Dense so the interface fallback paths are exercised too.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvgmm/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
// Use hide{X} in tests to force non-*Dense (fallback) paths.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// MustRows builds a *Dense from a row literal or fails the test.
func MustRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	if err != nil {
		t.Fatalf("NewFromRows: %v", err)
	}

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// RandomDense fills an r×c matrix with uniform values in [-1, 1) from a fixed seed.
func RandomDense(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := MustDense(t, r, c)
	data := m.RawData()
	for idx := range data {
		data[idx] = 2*rng.Float64() - 1
	}

	return m
}

// RandomSPD returns BᵀB + n·I, which is symmetric positive definite and well conditioned.
func RandomSPD(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	g, err := matrix.Gram(RandomDense(t, n, n, seed))
	if err != nil {
		t.Fatalf("Gram: %v", err)
	}
	d := g.(*matrix.Dense)
	data := d.RawData()
	for i := 0; i < n; i++ {
		data[i*n+i] += float64(n)
	}

	return d
}

// RequireClose fails when a and b differ anywhere by more than atol + rtol*|b|.
func RequireClose(t testing.TB, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, rtol, atol)
	if err != nil {
		t.Fatalf("AllClose: %v", err)
	}
	if !ok {
		t.Fatalf("matrices differ beyond rtol=%g atol=%g:\n%v\nvs\n%v", rtol, atol, a, b)
	}
}

// isNaNAll reports whether every element of m is NaN.
func isNaNAll(m matrix.Matrix) bool {
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, _ := m.At(i, j)
			if !math.IsNaN(v) {
				return false
			}
		}
	}

	return true
}
