package wp

import (
	"errors"
	"fmt"
)

// ShapeMismatchError reports input sequences whose lengths do not line up
// with the score matrix dimensions.
type ShapeMismatchError struct {
	Field string // "matrix", "criteria", or "labels"
	Row   int    // offending matrix row for ragged matrices, -1 otherwise
	Got   int
	Want  int
}

func (e *ShapeMismatchError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("matrix row %d has %d entries, expected %d", e.Row, e.Got, e.Want)
	}
	if e.Want == 0 {
		return fmt.Sprintf("%s must not be empty", e.Field)
	}
	return fmt.Sprintf("%s length %d does not match expected %d", e.Field, e.Got, e.Want)
}

// InvalidValueError reports a matrix entry, weight, or criterion kind that
// violates the engine's preconditions.
type InvalidValueError struct {
	Field string // "matrix", "weight", or "kind"
	Row   int    // matrix row, -1 for weight/kind
	Col   int    // column / criterion index
	Value float64
	Label string // offending label, set for "kind" only
}

func (e *InvalidValueError) Error() string {
	switch e.Field {
	case "matrix":
		return fmt.Sprintf("matrix entry [%d][%d] = %v: entries must be finite and > 0", e.Row, e.Col, e.Value)
	case "weight":
		return fmt.Sprintf("weight %d = %v: weights must be non-negative", e.Col, e.Value)
	default:
		return fmt.Sprintf("criterion %d kind %q: must be %q or %q", e.Col, e.Label, Benefit, Cost)
	}
}

// ZeroWeightSumError means every supplied weight was zero, so normalization
// is undefined.
type ZeroWeightSumError struct{}

func (e *ZeroWeightSumError) Error() string {
	return "all weights are zero, normalization undefined"
}

// DegenerateResultError means the raw scores summed to zero at the
// normalization step, which only happens under extreme floating-point
// underflow given valid inputs.
type DegenerateResultError struct {
	Total float64
}

func (e *DegenerateResultError) Error() string {
	return fmt.Sprintf("total raw score is %v, preference vector undefined", e.Total)
}

// Reason classifies an engine error for metrics labels and event payloads.
func Reason(err error) string {
	var (
		shape      *ShapeMismatchError
		value      *InvalidValueError
		zeroSum    *ZeroWeightSumError
		degenerate *DegenerateResultError
	)
	switch {
	case errors.As(err, &shape):
		return "shape_mismatch"
	case errors.As(err, &value):
		return "invalid_value"
	case errors.As(err, &zeroSum):
		return "zero_weight_sum"
	case errors.As(err, &degenerate):
		return "degenerate_result"
	default:
		return "internal"
	}
}
