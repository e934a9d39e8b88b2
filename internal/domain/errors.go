package domain

import "errors"

// Computation error taxonomy. Component errors wrap one of these so callers
// can classify failures with errors.Is.
var (
	// ErrInvalidInput is returned for empty series and unparseable values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData is returned when a series is shorter than a required
	// lookback window. It is an expected outcome for young markets.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateParameter is returned for configuration that cannot produce
	// a meaningful result (zero period, negative commission).
	ErrDegenerateParameter = errors.New("degenerate parameter")
)
