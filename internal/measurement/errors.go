package measurement

import "errors"

var (
	// ErrUnknownKind is returned for a measurement kind other than
	// distance, perimeter or area.
	ErrUnknownKind = errors.New("unknown measurement kind")

	// ErrTooFewPoints is returned when completing a measurement that
	// lacks the points its kind needs.
	ErrTooFewPoints = errors.New("too few points")
)
