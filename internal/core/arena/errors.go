package arena

import "errors"

var (
	// ErrInvalidConfig is returned when an arena is constructed with a
	// non-positive or non-finite half-width.
	ErrInvalidConfig = errors.New("invalid arena configuration")
)
