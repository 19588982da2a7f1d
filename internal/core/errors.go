// Package core holds the error kinds shared across the PID stage packages.
package core

import "errors"

// Error kinds raised during transform construction. Every failure in the
// stage wraps exactly one of these, so callers can classify with errors.Is.
var (
	// ErrConfiguration marks a bad or missing binning axis, a mismatched
	// channel set, or an unsupported parameterization source.
	ErrConfiguration = errors.New("configuration error")

	// ErrLookup marks a flavor group that is neither present in the
	// parameterization nor resolvable via the combined-flavor fallback.
	ErrLookup = errors.New("lookup error")

	// ErrParamFormat marks an expression string that is not recognizable
	// as a numeric function of energy.
	ErrParamFormat = errors.New("parameter format error")
)
