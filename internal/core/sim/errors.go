package sim

import "errors"

// Simulator-specific errors
var (
	ErrInvalidConfig = errors.New("invalid simulator configuration")
)
