// SPDX-License-Identifier: MIT

package absorb

import (
	"cmp"
	"fmt"

	"github.com/katalvlaran/lvgmm/issues"
	"github.com/katalvlaran/lvgmm/matrix"
	"go.uber.org/zap"
)

// Absorber demeans matrices with a fixed set of grouping columns. Plans are
// built once in NewAbsorber and reused by every Demean call.
type Absorber struct {
	rows  int
	plans []Plan
	it    Iterator
	log   *zap.Logger
}

// NewAbsorber precomputes one Plan per grouping column.
// it may be nil when exactly one grouping column is given.
//
// Errors: ErrNoGroupings, ErrIDLength, ErrNilIterator.
func NewAbsorber[K cmp.Ordered](ids [][]K, it Iterator, opts ...Option) (*Absorber, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("NewAbsorber: %w", ErrNoGroupings)
	}
	rows := len(ids[0])
	for d, col := range ids {
		if len(col) != rows {
			return nil, fmt.Errorf("NewAbsorber: column %d has %d ids, want %d: %w", d, len(col), rows, ErrIDLength)
		}
	}
	if len(ids) > 1 && it == nil {
		return nil, fmt.Errorf("NewAbsorber: %w", ErrNilIterator)
	}

	plans := make([]Plan, len(ids))
	for d, col := range ids {
		plans[d] = NewPlan(col)
	}
	o := buildOptions(opts)

	return &Absorber{rows: rows, plans: plans, it: it, log: o.Logger}, nil
}

// Plans returns the per-dimension plans (read-only views).
func (a *Absorber) Plans() []Plan { return append([]Plan(nil), a.plans...) }

// Demean removes the fixed effects from every column of m.
//
// The input is not mutated. Non-convergence is reported through the issue
// set, never as an error. The returned set is never nil.
//
// Errors: ErrNilMatrix, ErrIDLength (row count differs from the plans),
// and errors from the Iterator.
func (a *Absorber) Demean(m matrix.Matrix) (matrix.Matrix, *issues.Set, error) {
	set := issues.NewSet()
	if m == nil {
		return nil, set, fmt.Errorf("Demean: %w", ErrNilMatrix)
	}
	if m.Rows() != a.rows {
		return nil, set, fmt.Errorf("Demean: matrix has %d rows, plans %d: %w", m.Rows(), a.rows, ErrIDLength)
	}

	if len(a.plans) == 1 {
		out, err := a.pass(m)
		if err != nil {
			return nil, set, fmt.Errorf("Demean: %w", err)
		}

		return out, set, nil
	}

	res, err := a.it.Iterate(m, a.pass)
	if err != nil {
		return nil, set, fmt.Errorf("Demean: %w", err)
	}
	if !res.Converged {
		a.log.Debug("absorb: demeaning did not converge",
			zap.Int("dimensions", len(a.plans)),
			zap.Int("evaluations", res.Evaluations))
		set.Add(issues.New(issues.AbsorptionConvergence))
	}

	return res.Matrix, set, nil
}

// pass subtracts group means for every plan in order and returns a fresh matrix.
func (a *Absorber) pass(m matrix.Matrix) (matrix.Matrix, error) {
	cur, err := matrix.NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	rows, cols := cur.Shape()
	x := cur.RawData()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if x[i*cols+j], err = m.At(i, j); err != nil {
				return nil, err
			}
		}
	}

	allCols := make([]int, cols)
	for j := range allCols {
		allCols[j] = j
	}
	for _, p := range a.plans {
		sorted, err := cur.Induced(p.order, allCols)
		if err != nil {
			return nil, err
		}
		means := segmentMeans(sorted.RawData(), cols, p.starts, p.counts)
		groupOf := p.groupOf
		cur.Apply(func(i, j int, v float64) float64 { return v - means[groupOf[i]*cols+j] })
	}

	return cur, nil
}

// segmentMeans averages contiguous row segments of a row-major buffer.
// Segment g spans sorted rows [starts[g], starts[g]+counts[g]).
func segmentMeans(sorted []float64, cols int, starts, counts []int) []float64 {
	means := make([]float64, len(starts)*cols)
	for g, s := range starts {
		mu := means[g*cols : (g+1)*cols]
		for r := s; r < s+counts[g]; r++ {
			for j, v := range sorted[r*cols : (r+1)*cols] {
				mu[j] += v
			}
		}
		c := float64(counts[g])
		for j := range mu {
			mu[j] /= c
		}
	}

	return means
}

// Demean builds an Absorber for ids and applies it to m once.
// Every grouping column must have m.Rows() entries.
func Demean[K cmp.Ordered](m matrix.Matrix, ids [][]K, it Iterator, opts ...Option) (matrix.Matrix, *issues.Set, error) {
	if m == nil {
		return nil, issues.NewSet(), fmt.Errorf("Demean: %w", ErrNilMatrix)
	}
	if len(ids) > 0 && len(ids[0]) != m.Rows() {
		return nil, issues.NewSet(), fmt.Errorf("Demean: %d ids for %d rows: %w", len(ids[0]), m.Rows(), ErrIDLength)
	}
	a, err := NewAbsorber(ids, it, opts...)
	if err != nil {
		return nil, issues.NewSet(), err
	}

	return a.Demean(m)
}
