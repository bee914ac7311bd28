// SPDX-License-Identifier: MIT

package issues

import (
	"errors"
	"fmt"
)

// Kind enumerates the numerical conditions an estimation step can report.
type Kind int

const (
	// LinearParameterCovariancesInversion: XᵗZWZᵗX could not be inverted exactly.
	LinearParameterCovariancesInversion Kind = iota + 1

	// GMMParameterCovariancesInversion: GᵗWG could not be inverted exactly.
	GMMParameterCovariancesInversion

	// GMMMomentCovariancesInversion: the moment covariance could not be inverted exactly.
	GMMMomentCovariancesInversion

	// AbsorptionConvergence: iterative demeaning exhausted its budget.
	AbsorptionConvergence

	// InvalidWeights: the computed weighting matrix contains NaN.
	InvalidWeights

	// InvalidCovariances: the computed standard errors contain NaN.
	InvalidCovariances
)

var kindNames = map[Kind]string{
	LinearParameterCovariancesInversion: "LinearParameterCovariancesInversion",
	GMMParameterCovariancesInversion:    "GMMParameterCovariancesInversion",
	GMMMomentCovariancesInversion:       "GMMMomentCovariancesInversion",
	AbsorptionConvergence:               "AbsorptionConvergence",
	InvalidWeights:                      "InvalidWeights",
	InvalidCovariances:                  "InvalidCovariances",
}

var kindMessages = map[Kind]string{
	LinearParameterCovariancesInversion: "Failed to invert an estimated covariance matrix of linear parameters",
	GMMParameterCovariancesInversion:    "Failed to invert an estimated covariance matrix of GMM parameters",
	GMMMomentCovariancesInversion:       "Failed to invert an estimated covariance matrix of GMM moments",
	AbsorptionConvergence:               "An iterative procedure used to absorb fixed effects failed to converge",
	InvalidWeights:                      "Failed to compute a GMM weighting matrix because of invalid values",
	InvalidCovariances:                  "Failed to compute standard errors because of invalid estimated covariances",
}

// String returns the canonical error name, e.g. "AbsorptionConvergenceError".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name + "Error"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Message returns the human-readable explanation of the kind.
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}

	return "unknown issue"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]

	return ok
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrLinearParameterCovariancesInversion = errors.New("issues: linear parameter covariances inversion")
	ErrGMMParameterCovariancesInversion    = errors.New("issues: GMM parameter covariances inversion")
	ErrGMMMomentCovariancesInversion       = errors.New("issues: GMM moment covariances inversion")
	ErrAbsorptionConvergence               = errors.New("issues: absorption convergence")
	ErrInvalidWeights                      = errors.New("issues: invalid weights")
	ErrInvalidCovariances                  = errors.New("issues: invalid covariances")
)

var kindSentinels = map[Kind]error{
	LinearParameterCovariancesInversion: ErrLinearParameterCovariancesInversion,
	GMMParameterCovariancesInversion:    ErrGMMParameterCovariancesInversion,
	GMMMomentCovariancesInversion:       ErrGMMMomentCovariancesInversion,
	AbsorptionConvergence:               ErrAbsorptionConvergence,
	InvalidWeights:                      ErrInvalidWeights,
	InvalidCovariances:                  ErrInvalidCovariances,
}

// Sentinel returns the package sentinel for k, or nil for an unknown kind.
func (k Kind) Sentinel() error { return kindSentinels[k] }

// Issue is one deferred error signal. Approximation is empty unless the kind
// describes an inversion that fell back to an approximation.
type Issue struct {
	Kind          Kind
	Approximation string
}

// New returns an Issue without an approximation description.
func New(kind Kind) Issue { return Issue{Kind: kind} }

// Inversion returns an Issue carrying the description of the approximation used.
func Inversion(kind Kind, approximation string) Issue {
	return Issue{Kind: kind, Approximation: approximation}
}

// String renders the issue the way reports show it.
func (i Issue) String() string {
	msg := i.Kind.Message()
	if i.Approximation != "" {
		msg += " The problem was approximated by " + i.Approximation + "."
	} else {
		msg += "."
	}

	return i.Kind.String() + ": " + msg
}

// Err converts the issue into a reportable error.
func (i Issue) Err() error { return &Error{Issue: i} }

// Error is the error form of an Issue.
type Error struct {
	Issue Issue
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Issue.String() }

// Is matches the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	s := e.Issue.Kind.Sentinel()

	return s != nil && s == target
}

// Unwrap exposes the kind sentinel.
func (e *Error) Unwrap() error { return e.Issue.Kind.Sentinel() }
