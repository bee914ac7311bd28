// SPDX-License-Identifier: MIT

package iv

import (
	"errors"

	"github.com/katalvlaran/lvgmm/robust"
	"go.uber.org/zap"
)

// Sentinel errors returned by the iv package.
var (
	// ErrNilInput indicates that X, Z, W or y is nil.
	ErrNilInput = errors.New("iv: nil input matrix")

	// ErrShape indicates non-conformable X, Z, W or y.
	ErrShape = errors.New("iv: non-conformable matrices")
)

// Options configures an IV estimator.
//
// Inverse – options forwarded to robust.Invert.
// Logger  – receives a debug entry when the covariances are approximated.
type Options struct {
	Inverse []robust.Option
	Logger  *zap.Logger
}

// Option represents a functional option for configuring an IV estimator.
type Option func(*Options)

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
