// SPDX-License-Identifier: MIT

package absorb

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/katalvlaran/lvgmm/matrix"
)

// Plan is the precomputed layout of one grouping column. It is read-only
// after construction and shared by every pass.
type Plan struct {
	order   []int // stable argsort of the ids
	starts  []int // first sorted position of each group
	groupOf []int // group index of each row, original order
	counts  []int // rows per group
}

// NewPlan builds the plan of one grouping column.
// Groups are numbered in ascending id order. Complexity: O(n log n).
func NewPlan[K cmp.Ordered](ids []K) Plan {
	n := len(ids)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(ids[a], ids[b]) })

	inverse := make([]int, n)
	for k, row := range order {
		inverse[row] = k
	}

	// Run-length segments over the sorted ids; segOf[k] is the group at sorted position k.
	segOf := make([]int, n)
	starts := make([]int, 0, n)
	for k, row := range order {
		if k == 0 || cmp.Compare(ids[order[k-1]], ids[row]) != 0 {
			starts = append(starts, k)
		}
		segOf[k] = len(starts) - 1
	}
	counts := make([]int, len(starts))
	for g, s := range starts {
		end := n
		if g+1 < len(starts) {
			end = starts[g+1]
		}
		counts[g] = end - s
	}

	groupOf := make([]int, n)
	for row := range groupOf {
		groupOf[row] = segOf[inverse[row]]
	}

	return Plan{
		order:   order,
		starts:  slices.Clip(starts),
		groupOf: groupOf,
		counts:  counts,
	}
}

// Rows returns the number of rows the plan was built for.
func (p Plan) Rows() int { return len(p.order) }

// Groups returns the number of distinct ids.
func (p Plan) Groups() int { return len(p.counts) }

// Counts returns a copy of the group sizes in ascending id order.
func (p Plan) Counts() []int { return slices.Clone(p.counts) }

// Group returns the group index of row i.
func (p Plan) Group(i int) int { return p.groupOf[i] }

// Order returns a copy of the stable sort permutation.
func (p Plan) Order() []int { return slices.Clone(p.order) }

// Sums returns the per-group column sums of m as a Groups()×m.Cols() matrix,
// groups in ascending id order.
//
// Errors: ErrNilMatrix, ErrIDLength.
func (p Plan) Sums(m matrix.Matrix) (*matrix.Dense, error) {
	if m == nil {
		return nil, fmt.Errorf("Sums: %w", ErrNilMatrix)
	}
	if m.Rows() != p.Rows() {
		return nil, fmt.Errorf("Sums: matrix has %d rows, plan %d: %w", m.Rows(), p.Rows(), ErrIDLength)
	}
	cols := m.Cols()
	out, err := matrix.NewDense(p.Groups(), cols)
	if err != nil {
		return nil, fmt.Errorf("Sums: %w", err)
	}
	s := out.RawData()
	for i, g := range p.groupOf {
		for j := 0; j < cols; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("Sums: %w", err)
			}
			s[g*cols+j] += v
		}
	}

	return out, nil
}
