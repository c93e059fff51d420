package stats

import "errors"

var (
	// ErrInsufficientData indicates a group has too few observations for
	// the requested statistic (n=0 for a rate, n<2 for a variance-based test).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidParameter indicates an out-of-domain input, such as a
	// baseline rate outside (0,1) or a non-positive minimum detectable effect.
	ErrInvalidParameter = errors.New("invalid parameter")
)
