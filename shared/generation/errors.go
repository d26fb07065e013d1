package generation

import "errors"

var (
	// ErrNoSamples is returned by callers that need at least one sample to divide by
	ErrNoSamples = errors.New("no weather samples")

	// ErrInvalidConfig wraps structurally invalid equipment configuration
	ErrInvalidConfig = errors.New("invalid equipment configuration")

	// ErrInvalidHorizon is returned when a projection is asked for fewer than one year
	ErrInvalidHorizon = errors.New("projection horizon must be at least one year")
)
