// SPDX-License-Identifier: MIT

package gmm

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/lvgmm/absorb"
	"github.com/katalvlaran/lvgmm/robust"
	"go.uber.org/zap"
)

// Sentinel errors returned by the gmm package.
var (
	// ErrNilInput indicates that one of the input matrices is nil.
	ErrNilInput = errors.New("gmm: nil input matrix")

	// ErrShape indicates non-conformable inputs; u must be an n×1 column.
	ErrShape = errors.New("gmm: non-conformable matrices")

	// ErrUnknownSEType is returned by ParseSEType for unrecognized names.
	ErrUnknownSEType = errors.New("gmm: unknown standard error type")

	// ErrMissingClusters indicates Clustered standard errors without WithClusters.
	ErrMissingClusters = errors.New("gmm: clustered standard errors require cluster ids")

	// ErrClusterLength indicates cluster ids whose length differs from the rows of Z.
	ErrClusterLength = errors.New("gmm: cluster ids length does not match the number of rows")
)

// SEType selects how the parameter covariances are adjusted.
type SEType string

const (
	// Unadjusted uses (GᵗWG)⁻¹ directly.
	Unadjusted SEType = "unadjusted"

	// Robust sandwiches the covariances around the heteroskedasticity-robust moment covariance.
	Robust SEType = "robust"

	// Clustered is Robust with the moment contributions summed within clusters.
	Clustered SEType = "clustered"
)

// ParseSEType maps a case-insensitive name onto an SEType.
func ParseSEType(s string) (SEType, error) {
	switch t := SEType(strings.ToLower(strings.TrimSpace(s))); t {
	case Unadjusted, Robust, Clustered:
		return t, nil
	default:
		return "", fmt.Errorf("ParseSEType %q: %w", s, ErrUnknownSEType)
	}
}

// UnmarshalText lets SEType be decoded from YAML or other text formats.
func (t *SEType) UnmarshalText(text []byte) error {
	parsed, err := ParseSEType(string(text))
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t SEType) MarshalText() ([]byte, error) { return []byte(t), nil }

// Options configures ComputeWeights and ComputeSE.
//
// Inverse – options forwarded to robust.Invert.
// Logger  – receives debug entries for approximations and NaN results.
type Options struct {
	Inverse []robust.Option
	Logger  *zap.Logger

	clusters *absorb.Plan
}

// Option represents a functional option for the gmm computations.
type Option func(*Options)

// WithClusters groups rows by ids for clustered moment covariances.
// ids must have one entry per row of Z.
func WithClusters[K cmp.Ordered](ids []K) Option {
	p := absorb.NewPlan(ids)

	return func(o *Options) { o.clusters = &p }
}

// WithInverseOptions forwards opts to robust.Invert.
func WithInverseOptions(opts ...robust.Option) Option {
	return func(o *Options) { o.Inverse = append(o.Inverse, opts...) }
}

// WithLogger routes debug messages to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// inverse returns the robust options with the package logger applied first,
// so an explicit robust.WithLogger in Inverse still wins.
func (o Options) inverse() []robust.Option {
	return append([]robust.Option{robust.WithLogger(o.Logger)}, o.Inverse...)
}

func buildOptions(opts []Option) Options {
	o := Options{Logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
