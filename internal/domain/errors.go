package domain

import (
	"errors"
	"strings"
)

// ErrValidation marks input that failed validation. Use errors.Is to detect it.
var ErrValidation = errors.New("validation failed")

// ValidationError lists the problems found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Is reports ErrValidation so callers can match any validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
