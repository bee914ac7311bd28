// SPDX-License-Identifier: MIT

package iteration

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the YAML form of an Iteration. Absent keys keep their defaults.
type Config struct {
	Method         Method  `yaml:"method"`
	Atol           float64 `yaml:"atol"`
	Rtol           float64 `yaml:"rtol"`
	MaxEvaluations int     `yaml:"max_evaluations"`
	Norm           Norm    `yaml:"norm"`
}

// DefaultConfig mirrors DefaultOptions with DefaultMethod.
func DefaultConfig() Config {
	o := DefaultOptions()

	return Config{
		Method:         DefaultMethod,
		Atol:           o.Atol,
		Rtol:           o.Rtol,
		MaxEvaluations: o.MaxEvaluations,
		Norm:           o.Norm,
	}
}

// Build turns c into a validated Iteration. Extra options are applied after
// the configured values (e.g. WithLogger).
func (c Config) Build(opts ...Option) (*Iteration, error) {
	base := []Option{
		WithAtol(c.Atol),
		WithRtol(c.Rtol),
		WithMaxEvaluations(c.MaxEvaluations),
		WithNorm(c.Norm),
	}

	return New(c.Method, append(base, opts...)...)
}

// Config returns the YAML form of it.
func (it *Iteration) Config() Config {
	return Config{
		Method:         it.method,
		Atol:           it.opts.Atol,
		Rtol:           it.opts.Rtol,
		MaxEvaluations: it.opts.MaxEvaluations,
		Norm:           it.opts.Norm,
	}
}

// ParseConfig decodes YAML into a ready Iteration.
//
// Errors: YAML syntax errors, plus every error of New.
func ParseConfig(data []byte, opts ...Option) (*Iteration, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ParseConfig: %w", err)
	}
	it, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("ParseConfig: %w", err)
	}
	it.opts.Logger.Debug("iteration: configured",
		zap.String("method", string(cfg.Method)),
		zap.Float64("atol", cfg.Atol),
		zap.Int("max_evaluations", cfg.MaxEvaluations))

	return it, nil
}

// MarshalConfig encodes the configuration of it as YAML.
func MarshalConfig(it *Iteration) ([]byte, error) {
	return yaml.Marshal(it.Config())
}
