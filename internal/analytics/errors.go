package analytics

import (
	"errors"
	"fmt"
	"math"
)

// InvalidInputError rejects malformed input: non-finite values, negative
// counts, unknown methods. Too little data is never an error; callers get a
// neutral result instead.
type InvalidInputError struct {
	Field  string
	Index  int // -1 when the error is not about a single element
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewInvalidInput creates an InvalidInputError not tied to an element
func NewInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Index: -1, Reason: reason}
}

// IsInvalidInput reports whether err is or wraps an InvalidInputError
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// MaxMagnitude is the largest accepted |value|. Sums and squared deviations
// of values within it stay finite.
const MaxMagnitude = 1e150

// ValidateValues rejects NaN, infinite and out-of-range values
func ValidateValues(field string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidInputError{Field: field, Index: i, Reason: "value must be a finite number"}
		}
		if math.Abs(v) > MaxMagnitude {
			return &InvalidInputError{Field: field, Index: i, Reason: fmt.Sprintf("magnitude must not exceed %g", MaxMagnitude)}
		}
	}
	return nil
}

// Bounded clamps a derived figure to ±MaxMagnitude. NaN becomes 0.
func Bounded(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x > MaxMagnitude:
		return MaxMagnitude
	case x < -MaxMagnitude:
		return -MaxMagnitude
	}
	return x
}
