package clearance

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidDimensions is returned when a width, height or radius is not positive.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidClearance is returned when a clearance fails validation.
	ErrInvalidClearance = errors.New("invalid clearance")
)

// ValidationError carries every message produced by Validate.
// errors.Is(err, ErrInvalidClearance) holds for it.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidClearance.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidClearance
}
