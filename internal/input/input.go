// Package input turns the comma-separated weight and criterion-kind strings
// accepted at the service boundary into the typed criteria the ranking
// engine consumes. The engine itself never sees raw text.
package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decisionworks/ranker/internal/wp"
)

// ParseWeights parses a comma-separated list of non-negative reals, e.g.
// "0.28,0.22,0.11,0.22,0.17". Whitespace around entries is ignored.
func ParseWeights(s string) ([]float64, error) {
	fields, err := splitFields(s)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	weights := make([]float64, len(fields))
	for i, f := range fields {
		w, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %q is not a number", i, f)
		}
		weights[i] = w
	}
	return weights, nil
}

// ParseKinds parses a comma-separated list of criterion kinds, e.g.
// "benefit,benefit,cost". Matching is case- and whitespace-insensitive.
func ParseKinds(s string) ([]wp.Kind, error) {
	fields, err := splitFields(s)
	if err != nil {
		return nil, fmt.Errorf("kinds: %w", err)
	}
	kinds := make([]wp.Kind, len(fields))
	for i, f := range fields {
		k, err := wp.ParseKind(f)
		if err != nil {
			return nil, fmt.Errorf("kind %d: %w", i, err)
		}
		kinds[i] = k
	}
	return kinds, nil
}

// ParseCriteria combines a weight list and a kind list into engine criteria.
// Both lists must have the same length.
func ParseCriteria(weights, kinds string) ([]wp.Criterion, error) {
	w, err := ParseWeights(weights)
	if err != nil {
		return nil, err
	}
	k, err := ParseKinds(kinds)
	if err != nil {
		return nil, err
	}
	if len(w) != len(k) {
		return nil, fmt.Errorf("%d weights but %d kinds", len(w), len(k))
	}
	criteria := make([]wp.Criterion, len(w))
	for i := range w {
		criteria[i] = wp.Criterion{Weight: w[i], Kind: k[i]}
	}
	return criteria, nil
}

func splitFields(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty list")
	}
	parts := strings.Split(s, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("entry %d is empty", i)
		}
		fields[i] = p
	}
	return fields, nil
}
