// SPDX-License-Identifier: MIT

package gmm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvgmm/absorb"
	"github.com/katalvlaran/lvgmm/issues"
	"github.com/katalvlaran/lvgmm/matrix"
	"github.com/katalvlaran/lvgmm/robust"
	"go.uber.org/zap"
)

// ComputeWeights returns the GMM weighting matrix (gᵗg)⁻¹ for g = u ⊙ Z.
//
// With centerMoments the column means of g are removed first. With
// WithClusters, gᵗg is replaced by the covariance of the per-cluster sums of g.
// The returned set is never nil.
//
// Errors: ErrNilInput, ErrShape, ErrClusterLength.
func ComputeWeights(u, Z matrix.Matrix, centerMoments bool, opts ...Option) (matrix.Matrix, *issues.Set, error) {
	const op = "ComputeWeights"
	set := issues.NewSet()
	o := buildOptions(opts)

	uv, err := residuals(op, u, Z, o)
	if err != nil {
		return nil, set, err
	}
	g, err := matrix.ScaleRows(Z, uv)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	if centerMoments {
		if g, _, err = matrix.CenterColumns(g); err != nil {
			return nil, set, fmt.Errorf("%s: %w", op, err)
		}
	}
	S, err := momentCovariances(g, o.clusters)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}

	W, approx := robust.Invert(S, o.inverse()...)
	if approx != robust.None {
		o.Logger.Debug("gmm: moment covariances approximated", zap.Stringer("approximation", approx))
		set.Add(issues.Inversion(issues.GMMMomentCovariancesInversion, approx.Describe()))
	}
	if matrix.HasNaN(W) {
		o.Logger.Debug("gmm: weighting matrix contains NaN", zap.Int("moments", Z.Cols()))
		set.Add(issues.New(issues.InvalidWeights))
	}

	return W, set, nil
}

// ComputeSE returns the standard errors (p×1) of the parameters whose
// residual Jacobian is jacobian (n×p). (GᵗWG) is inverted exactly once.
// Values of seType other than Robust and Clustered are treated as Unadjusted.
// The returned set is never nil.
//
// Errors: ErrNilInput, ErrShape, ErrMissingClusters, ErrClusterLength.
func ComputeSE(u, Z, W, jacobian matrix.Matrix, seType SEType, opts ...Option) (matrix.Matrix, *issues.Set, error) {
	const op = "ComputeSE"
	set := issues.NewSet()
	o := buildOptions(opts)

	if W == nil || jacobian == nil {
		return nil, set, fmt.Errorf("%s: %w", op, ErrNilInput)
	}
	uv, err := residuals(op, u, Z, o)
	if err != nil {
		return nil, set, err
	}
	m := Z.Cols()
	if W.Rows() != m || W.Cols() != m || jacobian.Rows() != Z.Rows() {
		return nil, set, fmt.Errorf("%s: Z %dx%d, W %dx%d, jacobian %dx%d: %w",
			op, Z.Rows(), m, W.Rows(), W.Cols(), jacobian.Rows(), jacobian.Cols(), ErrShape)
	}
	if seType == Clustered && o.clusters == nil {
		return nil, set, fmt.Errorf("%s: %w", op, ErrMissingClusters)
	}

	zt, err := matrix.Transpose(Z)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	G, err := matrix.Mul(zt, jacobian)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	WG, err := matrix.Mul(W, G)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	Gt, err := matrix.Transpose(G)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	bread, err := matrix.Mul(Gt, WG)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}

	cov, approx := robust.Invert(bread, o.inverse()...)
	if approx != robust.None {
		o.Logger.Debug("gmm: parameter covariances approximated", zap.Stringer("approximation", approx))
		set.Add(issues.Inversion(issues.GMMParameterCovariancesInversion, approx.Describe()))
	}

	if seType == Robust || seType == Clustered {
		var clusters *absorb.Plan
		if seType == Clustered {
			clusters = o.clusters
		}
		meat, err := sandwichMeat(Z, W, G, WG, uv, clusters)
		if err != nil {
			return nil, set, fmt.Errorf("%s: %w", op, err)
		}
		if cov, err = matrix.MulChain(cov, meat, cov); err != nil {
			return nil, set, fmt.Errorf("%s: %w", op, err)
		}
	}

	d, err := matrix.Diagonal(cov)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	for i, v := range d {
		d[i] = math.Sqrt(v)
	}
	se, err := matrix.ColumnVector(d)
	if err != nil {
		return nil, set, fmt.Errorf("%s: %w", op, err)
	}
	if matrix.HasNaN(se) {
		o.Logger.Debug("gmm: standard errors contain NaN", zap.String("se_type", string(seType)))
		set.Add(issues.New(issues.InvalidCovariances))
	}

	return se, set, nil
}

// residuals validates u against Z (and the clusters, if any) and returns u as a slice.
func residuals(op string, u, Z matrix.Matrix, o Options) ([]float64, error) {
	if u == nil || Z == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNilInput)
	}
	n := Z.Rows()
	if u.Cols() != 1 || u.Rows() != n {
		return nil, fmt.Errorf("%s: u is %dx%d, want %dx1: %w", op, u.Rows(), u.Cols(), n, ErrShape)
	}
	if o.clusters != nil && o.clusters.Rows() != n {
		return nil, fmt.Errorf("%s: %d cluster ids for %d rows: %w", op, o.clusters.Rows(), n, ErrClusterLength)
	}
	uv := make([]float64, n)
	for i := range uv {
		v, err := u.At(i, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		uv[i] = v
	}

	return uv, nil
}

// sandwichMeat returns GᵗWZᵗdiag(u²)ZWG as Lᵗ·R with L = u⊙(ZWᵗG) and
// R = u⊙(ZWG). With clusters both factors are summed within each cluster
// first. W need not be symmetric.
func sandwichMeat(Z, W, G, WG matrix.Matrix, u []float64, clusters *absorb.Plan) (matrix.Matrix, error) {
	wt, err := matrix.Transpose(W)
	if err != nil {
		return nil, err
	}
	ZWtG, err := matrix.MulChain(Z, wt, G)
	if err != nil {
		return nil, err
	}
	ZWG, err := matrix.Mul(Z, WG)
	if err != nil {
		return nil, err
	}
	left, err := matrix.ScaleRows(ZWtG, u)
	if err != nil {
		return nil, err
	}
	right, err := matrix.ScaleRows(ZWG, u)
	if err != nil {
		return nil, err
	}
	if clusters != nil {
		if left, err = clusters.Sums(left); err != nil {
			return nil, err
		}
		if right, err = clusters.Sums(right); err != nil {
			return nil, err
		}
	}
	lt, err := matrix.Transpose(left)
	if err != nil {
		return nil, err
	}

	return matrix.Mul(lt, right)
}

// momentCovariances returns sᵗs, or the same product over per-cluster sums of s.
func momentCovariances(s matrix.Matrix, clusters *absorb.Plan) (matrix.Matrix, error) {
	if clusters != nil {
		sums, err := clusters.Sums(s)
		if err != nil {
			return nil, err
		}
		s = sums
	}

	return matrix.Gram(s)
}
