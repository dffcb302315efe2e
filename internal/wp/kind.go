package wp

import (
	"fmt"
	"strings"
)

// Kind classifies a criterion: for Benefit criteria a higher raw value is
// better, for Cost criteria a lower raw value is better.
type Kind string

const (
	Benefit Kind = "benefit"
	Cost    Kind = "cost"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == Benefit || k == Cost
}

// ParseKind normalizes a criterion-kind label. Matching is case- and
// whitespace-insensitive; anything other than "benefit" or "cost" is an error.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Benefit:
		return Benefit, nil
	case Cost:
		return Cost, nil
	default:
		return "", fmt.Errorf("unknown criterion kind %q, must be %q or %q", s, Benefit, Cost)
	}
}

// Criterion is one evaluation dimension: a non-negative weight plus the
// direction of preference. Name is carried for display only and never enters
// the computation.
type Criterion struct {
	Name   string  `json:"name,omitempty"`
	Weight float64 `json:"weight"`
	Kind   Kind    `json:"kind"`
}
