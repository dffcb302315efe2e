package wp

import (
	"math"
	"sort"
)

// renormTolerance is how far a weight sum may drift from 1.0 before the
// result is flagged as renormalized.
const renormTolerance = 1e-9

// Ranked is one alternative's position in the output ordering.
type Ranked struct {
	Rank       int     `json:"rank"`
	Label      string  `json:"label"`
	RawScore   float64 `json:"raw_score"`
	Preference float64 `json:"preference_score"`
}

// Result is the full output of one ranking run. It is freshly allocated on
// every call and shares no storage with the caller's inputs.
type Result struct {
	Alternatives      []Ranked  `json:"alternatives"`
	NormalizedWeights []float64 `json:"normalized_weights"`
	// Renormalized is true when the supplied weights did not already sum
	// to 1 and the engine rescaled them.
	Renormalized bool `json:"renormalized"`
}

// NormalizeWeights rescales weights so they sum to 1. The input is not
// modified. Rescaling an already-normalized vector is a no-op beyond
// floating-point rounding.
func NormalizeWeights(weights []float64) ([]float64, error) {
	var sum float64
	for j, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &InvalidValueError{Field: "weight", Row: -1, Col: j, Value: w}
		}
		sum += w
	}
	if sum == 0 {
		return nil, &ZeroWeightSumError{}
	}
	out := make([]float64, len(weights))
	for j, w := range weights {
		out[j] = w / sum
	}
	return out, nil
}

// Rank applies the Weighted Product method: each matrix entry is raised to
// its criterion's normalized weight (negated for Cost criteria), the
// per-alternative products are normalized into a preference vector summing
// to 1, and alternatives are ordered best-first. Ties keep input order.
//
// matrix rows are alternatives, columns are criteria; entries must be finite
// and strictly positive. Rank is pure: it reads its arguments, allocates its
// own output, and holds no state between calls.
func Rank(matrix [][]float64, criteria []Criterion, labels []string) (*Result, error) {
	if len(matrix) == 0 {
		return nil, &ShapeMismatchError{Field: "matrix", Row: -1}
	}
	nCrit := len(matrix[0])
	if nCrit == 0 {
		return nil, &ShapeMismatchError{Field: "matrix", Row: -1}
	}
	for i, row := range matrix {
		if len(row) != nCrit {
			return nil, &ShapeMismatchError{Field: "matrix", Row: i, Got: len(row), Want: nCrit}
		}
	}
	if len(criteria) != nCrit {
		return nil, &ShapeMismatchError{Field: "criteria", Row: -1, Got: len(criteria), Want: nCrit}
	}
	if len(labels) != len(matrix) {
		return nil, &ShapeMismatchError{Field: "labels", Row: -1, Got: len(labels), Want: len(matrix)}
	}

	// Entries are raised to real-valued, possibly negative exponents; zero
	// or negative bases make the product undefined.
	for i, row := range matrix {
		for j, x := range row {
			if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, &InvalidValueError{Field: "matrix", Row: i, Col: j, Value: x}
			}
		}
	}
	for j, c := range criteria {
		if !c.Kind.Valid() {
			return nil, &InvalidValueError{Field: "kind", Row: -1, Col: j, Label: string(c.Kind)}
		}
	}

	weights := make([]float64, nCrit)
	var rawSum float64
	for j, c := range criteria {
		weights[j] = c.Weight
		rawSum += c.Weight
	}
	normalized, err := NormalizeWeights(weights)
	if err != nil {
		return nil, err
	}

	// Cost criteria get the negated weight as exponent, so a larger raw
	// cost value lowers the product.
	exponents := make([]float64, nCrit)
	for j, c := range criteria {
		exponents[j] = normalized[j]
		if c.Kind == Cost {
			exponents[j] = -normalized[j]
		}
	}

	scores := make([]float64, len(matrix))
	var total float64
	for i, row := range matrix {
		s := 1.0
		for j, x := range row {
			s *= math.Pow(x, exponents[j])
		}
		scores[i] = s
		total += s
	}
	if total == 0 {
		return nil, &DegenerateResultError{Total: total}
	}

	ranked := make([]Ranked, len(matrix))
	for i := range matrix {
		ranked[i] = Ranked{
			Label:      labels[i],
			RawScore:   scores[i],
			Preference: scores[i] / total,
		}
	}
	// Stable sort: equal preference scores keep original input order.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Preference > ranked[b].Preference
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return &Result{
		Alternatives:      ranked,
		NormalizedWeights: normalized,
		Renormalized:      math.Abs(rawSum-1.0) > renormTolerance,
	}, nil
}
