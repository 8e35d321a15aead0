package schema

import (
	"fmt"
	"math"
)

// ParameterRange is one named, inclusive search interval.
type ParameterRange struct {
	Name  string  `json:"name"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// BoundsRow is the raw lower/upper bound pair for one model, in parameter order.
type BoundsRow struct {
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// RangeTable maps model identifiers to their search bounds. The table is
// read-only after load; lookups never mutate it.
type RangeTable map[string]BoundsRow

// Arity returns the parameter count of the row.
func (b BoundsRow) Arity() int {
	return len(b.Lower)
}

// Named zips the row with ordered parameter names, failing on arity mismatch.
func (b BoundsRow) Named(names []string) ([]ParameterRange, error) {
	if len(b.Lower) != len(b.Upper) {
		return nil, fmt.Errorf("%d lower bounds vs %d upper bounds", len(b.Lower), len(b.Upper))
	}
	if len(names) != len(b.Lower) {
		return nil, fmt.Errorf("bounds arity %d does not match %d parameter names", len(b.Lower), len(names))
	}
	ranges := make([]ParameterRange, len(names))
	for i, name := range names {
		ranges[i] = ParameterRange{Name: name, Lower: b.Lower[i], Upper: b.Upper[i]}
	}
	return ranges, nil
}

// Lookup returns the bounds row for a model identifier.
func (t RangeTable) Lookup(model string) (BoundsRow, bool) {
	row, ok := t[model]
	return row, ok
}

// Validate checks every row for equal arity, finite values and ordered bounds.
// Degenerate intervals with lower equal to upper are allowed.
func (t RangeTable) Validate() error {
	for model, row := range t {
		if len(row.Lower) == 0 {
			return fmt.Errorf("model %s: empty bounds row", model)
		}
		if len(row.Lower) != len(row.Upper) {
			return fmt.Errorf("model %s: %d lower bounds vs %d upper bounds", model, len(row.Lower), len(row.Upper))
		}
		for i := range row.Lower {
			lo, hi := row.Lower[i], row.Upper[i]
			if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
				return fmt.Errorf("model %s: parameter %d bounds must be finite", model, i+1)
			}
			if lo > hi {
				return fmt.Errorf("model %s: parameter %d lower bound %g above upper bound %g", model, i+1, lo, hi)
			}
		}
	}
	return nil
}
