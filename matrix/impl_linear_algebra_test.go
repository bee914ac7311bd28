// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the linear algebra kernels.
package matrix_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/lvgmm/matrix"
	"github.com/stretchr/testify/require"
)

const tight = 1e-12

var approx = cmpopts.EquateApprox(0, 1e-10)

func TestAddSub_FastPathMatchesFallback(t *testing.T) {
	t.Parallel()

	a := RandomDense(t, 4, 5, 1)
	b := RandomDense(t, 4, 5, 2)

	for name, op := range map[string]func(x, y matrix.Matrix) (matrix.Matrix, error){
		"Add": matrix.Add,
		"Sub": matrix.Sub,
	} {
		fast, err := op(a, b)
		require.NoError(t, err, name)
		slow, err := op(hide{a}, hide{b})
		require.NoError(t, err, name)
		require.Equal(t, fast.(*matrix.Dense).RawData(), slow.(*matrix.Dense).RawData(), name)
	}

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	back, err := matrix.Sub(sum, b)
	require.NoError(t, err)
	RequireClose(t, back, a, 0, tight)
}

func TestAddSub_DimensionMismatch(t *testing.T) {
	t.Parallel()

	_, err := matrix.Add(MustDense(t, 2, 3), MustDense(t, 3, 2))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(nil, MustDense(t, 1, 1))
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMul_Known(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := MustRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})
	want := []float64{58, 64, 139, 154}

	got, err := matrix.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, want, got.(*matrix.Dense).RawData())

	got, err = matrix.Mul(hide{a}, b)
	require.NoError(t, err)
	require.Equal(t, want, got.(*matrix.Dense).RawData())

	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestMul_PropagatesNaN guards against zero-skipping: 0·NaN must stay NaN.
func TestMul_PropagatesNaN(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{0, 1}})
	b := MustRows(t, [][]float64{{math.NaN()}, {2}})

	for _, lhs := range []matrix.Matrix{a, hide{a}} {
		got, err := matrix.Mul(lhs, b)
		require.NoError(t, err)
		require.True(t, math.IsNaN(MustAt(t, got, 0, 0)))
	}
}

func TestMulChain(t *testing.T) {
	t.Parallel()

	a := RandomDense(t, 3, 4, 3)
	b := RandomDense(t, 4, 2, 4)
	c := RandomDense(t, 2, 5, 5)

	got, err := matrix.MulChain(a, b, c)
	require.NoError(t, err)
	ab, _ := matrix.Mul(a, b)
	want, _ := matrix.Mul(ab, c)
	RequireClose(t, got, want, 0, tight)

	_, err = matrix.MulChain(a, c)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MulChain()
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestTranspose_InvolutionNoMutation(t *testing.T) {
	t.Parallel()

	a := RandomDense(t, 3, 5, 6)
	orig := append([]float64(nil), a.RawData()...)

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	require.Equal(t, 5, at.Rows())
	require.Equal(t, MustAt(t, a, 2, 4), MustAt(t, at, 4, 2))

	att, err := matrix.Transpose(hide{at})
	require.NoError(t, err)
	require.Equal(t, orig, att.(*matrix.Dense).RawData())
	require.Equal(t, orig, a.RawData())
}

func TestScale(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{1, -2}, {3, 0}})
	for _, m := range []matrix.Matrix{a, hide{a}} {
		s, err := matrix.Scale(m, -0.5)
		require.NoError(t, err)
		require.Equal(t, []float64{-0.5, 1, -1.5, 0}, s.(*matrix.Dense).RawData())
	}

	_, err := matrix.Scale(nil, 2)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestGram_MatchesTransposeProduct(t *testing.T) {
	t.Parallel()

	a := RandomDense(t, 7, 3, 8)
	g, err := matrix.Gram(hide{a})
	require.NoError(t, err)

	at, _ := matrix.Transpose(a)
	want, _ := matrix.Mul(at, a)
	RequireClose(t, g, want, 0, tight)
	require.NoError(t, matrix.ValidateSymmetric(g, 0))
}

func TestEigen_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := matrix.Eigen(MustDense(t, 2, 3), tight, 10)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, _, err = matrix.Eigen(MustRows(t, [][]float64{{1, 2}, {0, 1}}), tight, 10)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	// A zero rotation budget cannot annihilate a non-zero off-diagonal.
	_, _, err = matrix.Eigen(MustRows(t, [][]float64{{2, 1}, {1, 2}}), tight, 0)
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

func TestEigen_2x2_Analytic(t *testing.T) {
	t.Parallel()

	vals, vecs, err := matrix.Eigen(MustRows(t, [][]float64{{2, 1}, {1, 2}}), tight, 10)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]float64{1, 3}, vals, approx, cmpopts.SortSlices(func(a, b float64) bool { return a < b })))

	// Columns are unit vectors.
	for j := 0; j < 2; j++ {
		n := math.Hypot(MustAt(t, vecs, 0, j), MustAt(t, vecs, 1, j))
		require.InDelta(t, 1, n, 1e-12)
	}
}

func TestEigen_ReconstructionSPD(t *testing.T) {
	t.Parallel()

	a := RandomSPD(t, 6, 11)
	vals, q, err := matrix.Eigen(a, 1e-13, 10_000)
	require.NoError(t, err)

	d, err := matrix.Diag(vals)
	require.NoError(t, err)
	qt, _ := matrix.Transpose(q)
	rec, err := matrix.MulChain(q, d, qt)
	require.NoError(t, err)
	RequireClose(t, rec, a, 0, 1e-9)
	require.Equal(t, 6, len(vals))
}

func TestLU_PivotsZeroLeadingEntry(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{0, 1}, {1, 0}})
	L, U, perm, err := matrix.LU(a)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0}, perm)
	require.Equal(t, []float64{1, 0, 0, 1}, L.(*matrix.Dense).RawData())
	require.Equal(t, []float64{1, 0, 0, 1}, U.(*matrix.Dense).RawData())

	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	require.Equal(t, a.RawData(), inv.(*matrix.Dense).RawData())
}

func TestLU_Reconstruction(t *testing.T) {
	t.Parallel()

	a := RandomDense(t, 6, 6, 21)
	L, U, perm, err := matrix.LU(hide{a})
	require.NoError(t, err)

	lu, err := matrix.Mul(L, U)
	require.NoError(t, err)
	pa, err := a.Induced(perm, []int{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	RequireClose(t, lu, pa, 0, 1e-12)

	for i := 0; i < 6; i++ {
		require.Equal(t, 1.0, MustAt(t, L, i, i))
		for j := 0; j < i; j++ {
			require.Zero(t, MustAt(t, U, i, j))
		}
	}
}

func TestInverse_Known2x2(t *testing.T) {
	t.Parallel()

	inv, err := matrix.Inverse(MustRows(t, [][]float64{{4, 7}, {2, 6}}))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]float64{0.6, -0.7, -0.2, 0.4}, inv.(*matrix.Dense).RawData(), approx))
}

func TestInverse_Errors(t *testing.T) {
	t.Parallel()

	_, err := matrix.Inverse(MustRows(t, [][]float64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Inverse(MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = matrix.Inverse(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	// The singular threshold is relative: a tiny but regular matrix still inverts.
	tiny, err := matrix.Inverse(MustRows(t, [][]float64{{1e-200, 0}, {0, 1e-200}}))
	require.NoError(t, err)
	require.InEpsilon(t, 1e200, MustAt(t, tiny, 0, 0), 1e-12)
}

func TestInverse_IdentityProductSPD(t *testing.T) {
	t.Parallel()

	a := RandomSPD(t, 8, 31)
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)

	prod, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	id, _ := matrix.NewIdentity(8)
	RequireClose(t, prod, id, 0, 1e-10)
}

func TestPseudoInverse_SingularSymmetric(t *testing.T) {
	t.Parallel()

	p, err := matrix.PseudoInverse(MustRows(t, [][]float64{{1, 1}, {1, 1}}), 0, 0, -1)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]float64{0.25, 0.25, 0.25, 0.25}, p.(*matrix.Dense).RawData(), approx))
}

func TestPseudoInverse_NearSymmetric(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{2, 1}, {math.Nextafter(1, 2), 2}})
	p, err := matrix.PseudoInverse(a, 0, 0, -1)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(p, 0))
	want := MustRows(t, [][]float64{{2.0 / 3, -1.0 / 3}, {-1.0 / 3, 2.0 / 3}})
	RequireClose(t, p, want, 0, 1e-12)
}

func TestPseudoInverse_RankOneRectangular(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{1, 2}, {2, 4}, {3, 6}})
	p, err := matrix.PseudoInverse(a, 0, 0, -1)
	require.NoError(t, err)
	require.Equal(t, 2, p.Rows())
	require.Equal(t, 3, p.Cols())

	// Rank one: A⁺ = Aᵀ / ‖A‖²_F.
	at, _ := matrix.Transpose(a)
	want, _ := matrix.Scale(at, 1.0/70)
	RequireClose(t, p, want, 0, 1e-12)
}

func TestPseudoInverse_MatchesInverseWhenRegular(t *testing.T) {
	t.Parallel()

	a := RandomSPD(t, 5, 41)
	p, err := matrix.PseudoInverse(a, 0, 0, -1)
	require.NoError(t, err)
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	RequireClose(t, p, inv, 0, 1e-9)
}

func TestPseudoInverse_Errors(t *testing.T) {
	t.Parallel()

	_, err := matrix.PseudoInverse(MustRows(t, [][]float64{{math.NaN(), 0}, {0, 1}}), 0, 0, -1)
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.PseudoInverse(MustRows(t, [][]float64{{2, 1}, {1, 2}}), 0, 0, 0)
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)

	z, err := matrix.PseudoInverse(MustDense(t, 2, 3), 0, 0, -1)
	require.NoError(t, err)
	require.Equal(t, 3, z.Rows())
	require.Equal(t, make([]float64, 6), z.(*matrix.Dense).RawData())
}
