// SPDX-License-Identifier: MIT
package absorb_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvgmm/absorb"
	"github.com/katalvlaran/lvgmm/issues"
	"github.com/katalvlaran/lvgmm/iteration"
	"github.com/katalvlaran/lvgmm/matrix"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func column(t *testing.T, v ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.ColumnVector(v)
	require.NoError(t, err)

	return m
}

func raw(m matrix.Matrix) []float64 { return m.(*matrix.Dense).RawData() }

func TestPlan(t *testing.T) {
	t.Parallel()

	p := absorb.NewPlan([]string{"b", "a", "b", "c"})
	require.Equal(t, 4, p.Rows())
	require.Equal(t, 3, p.Groups())
	require.Equal(t, []int{1, 2, 1}, p.Counts())
	require.Equal(t, []int{1, 0, 2, 3}, p.Order())
	require.Equal(t, []int{1, 0, 1, 2}, []int{p.Group(0), p.Group(1), p.Group(2), p.Group(3)})
}

func TestPlanSums(t *testing.T) {
	t.Parallel()

	p := absorb.NewPlan([]int{7, 3, 7, 3, 9})
	m, err := matrix.NewFromRows([][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}, {5, 50}})
	require.NoError(t, err)

	sums, err := p.Sums(m)
	require.NoError(t, err)
	require.Equal(t, 3, sums.Rows())
	require.Equal(t, []float64{6, 60, 4, 40, 5, 50}, sums.RawData())

	_, err = p.Sums(column(t, 1, 2))
	require.ErrorIs(t, err, absorb.ErrIDLength)
	_, err = p.Sums(nil)
	require.ErrorIs(t, err, absorb.ErrNilMatrix)
}

func TestDemean_SingleGrouping(t *testing.T) {
	t.Parallel()

	x := column(t, 1, 2, 3, 4)
	got, set, err := absorb.Demean(x, [][]string{{"a", "a", "b", "b"}}, nil)
	require.NoError(t, err)
	require.Zero(t, set.Len())
	require.Equal(t, []float64{-0.5, 0.5, -0.5, 0.5}, raw(got))
	require.Equal(t, []float64{1, 2, 3, 4}, x.RawData())
}

func TestDemean_TwoWayBalanced(t *testing.T) {
	t.Parallel()

	for _, method := range []iteration.Method{iteration.Simple, iteration.SQUAREM} {
		it, err := iteration.New(method)
		require.NoError(t, err)

		got, set, err := absorb.Demean(column(t, 1, 2, 3, 5), [][]int{{1, 1, 2, 2}, {1, 2, 1, 2}}, it)
		require.NoError(t, err, method)
		require.False(t, set.Has(issues.AbsorptionConvergence), method)
		require.Equal(t, []float64{0.25, -0.25, -0.25, 0.25}, raw(got), method)
	}
}

func TestDemean_UnbalancedGroupMeansVanish(t *testing.T) {
	t.Parallel()

	const n = 60
	rng := rand.New(rand.NewSource(7))
	firms := make([]int, n)
	years := make([]int, n)
	x, err := matrix.NewDense(n, 2)
	require.NoError(t, err)
	data := x.RawData()
	for i := 0; i < n; i++ {
		firms[i] = rng.Intn(6)
		years[i] = rng.Intn(4)
		data[2*i] = rng.NormFloat64() + float64(firms[i])
		data[2*i+1] = rng.NormFloat64() - float64(years[i])
	}

	it, err := iteration.New(iteration.SQUAREM, iteration.WithAtol(1e-12))
	require.NoError(t, err)
	a, err := absorb.NewAbsorber([][]int{firms, years}, it)
	require.NoError(t, err)

	got, set, err := a.Demean(x)
	require.NoError(t, err)
	require.Zero(t, set.Len())
	require.Equal(t, 2, got.Cols())

	for d, ids := range [][]int{firms, years} {
		plan := a.Plans()[d]
		sums := make([]float64, plan.Groups()*2)
		for i := range ids {
			g := plan.Group(i)
			sums[2*g] += raw(got)[2*i]
			sums[2*g+1] += raw(got)[2*i+1]
		}
		for _, s := range sums {
			require.InDelta(t, 0, s, 1e-9)
		}
	}
}

func TestDemean_NonConvergenceIsAnIssue(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	it, err := iteration.New(iteration.Simple, iteration.WithMaxEvaluations(1))
	require.NoError(t, err)

	got, set, err := absorb.Demean(column(t, 1, 2, 3, 5), [][]int{{1, 1, 2, 2}, {1, 2, 1, 2}}, it,
		absorb.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.True(t, set.Has(issues.AbsorptionConvergence))
	require.ErrorIs(t, set.Err(), issues.ErrAbsorptionConvergence)
	require.Equal(t, 4, got.Rows())
	require.Equal(t, 1, logs.FilterMessage("absorb: demeaning did not converge").Len())
}

func TestDemean_StructuralErrors(t *testing.T) {
	t.Parallel()

	x := column(t, 1, 2, 3)

	_, _, err := absorb.Demean[int](x, nil, nil)
	require.ErrorIs(t, err, absorb.ErrNoGroupings)

	_, _, err = absorb.Demean(x, [][]int{{1, 2}}, nil)
	require.ErrorIs(t, err, absorb.ErrIDLength)

	_, _, err = absorb.Demean(x, [][]int{{1, 2, 3}, {1, 2}}, nil)
	require.ErrorIs(t, err, absorb.ErrIDLength)

	_, _, err = absorb.Demean(x, [][]int{{1, 2, 3}, {1, 1, 2}}, nil)
	require.ErrorIs(t, err, absorb.ErrNilIterator)

	_, _, err = absorb.Demean(nil, [][]int{{1}}, nil)
	require.ErrorIs(t, err, absorb.ErrNilMatrix)

	a, err := absorb.NewAbsorber([][]int{{1, 2, 3}}, nil)
	require.NoError(t, err)
	_, _, err = a.Demean(column(t, 1, 2))
	require.ErrorIs(t, err, absorb.ErrIDLength)
}
