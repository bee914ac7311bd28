// SPDX-License-Identifier: MIT

package absorb

import (
	"errors"

	"github.com/katalvlaran/lvgmm/iteration"
	"github.com/katalvlaran/lvgmm/matrix"
	"go.uber.org/zap"
)

// Sentinel errors returned by the absorb package.
var (
	ErrNoGroupings = errors.New("absorb: at least one grouping column is required")
	ErrIDLength    = errors.New("absorb: grouping column length does not match the number of rows")
	ErrNilMatrix   = errors.New("absorb: nil matrix")
	ErrNilIterator = errors.New("absorb: several grouping columns require an iterator")
)

// Iterator runs a contraction to a fixed point. *iteration.Iteration satisfies it.
// Only Result.Converged and Result.Matrix are inspected.
type Iterator interface {
	Iterate(start matrix.Matrix, contraction iteration.Contraction) (iteration.Result, error)
}

var _ Iterator = (*iteration.Iteration)(nil)

// Options configures an Absorber.
type Options struct {
	Logger *zap.Logger
}

// Option represents a functional option for configuring an Absorber.
type Option func(*Options)

// WithLogger routes debug messages to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) Options {
	o := Options{Logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
