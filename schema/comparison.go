package schema

import (
	"fmt"
	"math"
)

// ModelRuns groups repeated prediction runs for one model. Runs is run-major:
// Runs[r][i] is the prediction for record i in run r.
type ModelRuns struct {
	Model string      `json:"model"`
	Runs  [][]float64 `json:"runs"`
}

// ComparisonSet pairs measured values with per-model prediction runs.
// Model order is meaningful: selection defaults pick the first two entries.
type ComparisonSet struct {
	Measured []float64   `json:"measured"`
	Models   []ModelRuns `json:"models"`
}

// NewComparisonSet validates run shapes against the measured vector and
// returns an immutable set. Every run of every model must have one value per
// measured record, every model needs at least one run, and model names must
// be unique.
func NewComparisonSet(measured []float64, models []ModelRuns) (*ComparisonSet, error) {
	if len(measured) == 0 {
		return nil, fmt.Errorf("comparison set has no measured values")
	}
	seen := make(map[string]struct{}, len(models))
	for _, m := range models {
		if m.Model == "" {
			return nil, fmt.Errorf("comparison set has a model without a name")
		}
		if _, dup := seen[m.Model]; dup {
			return nil, fmt.Errorf("duplicate model %q in comparison set", m.Model)
		}
		seen[m.Model] = struct{}{}
		if len(m.Runs) == 0 {
			return nil, fmt.Errorf("model %q has no runs", m.Model)
		}
		for r, run := range m.Runs {
			if len(run) != len(measured) {
				return nil, fmt.Errorf("model %q run %d has %d values, want %d", m.Model, r+1, len(run), len(measured))
			}
		}
	}
	return &ComparisonSet{Measured: measured, Models: models}, nil
}

// Model returns the runs for a named model.
func (s *ComparisonSet) Model(name string) (ModelRuns, bool) {
	for _, m := range s.Models {
		if m.Model == name {
			return m, true
		}
	}
	return ModelRuns{}, false
}

// ModelNames returns the model identifiers in set order.
func (s *ComparisonSet) ModelNames() []string {
	names := make([]string, len(s.Models))
	for i, m := range s.Models {
		names[i] = m.Model
	}
	return names
}

// Arrow is one record's shift between two models' mean predictions.
type Arrow struct {
	Index     int       `json:"index"`
	Measured  float64   `json:"measured"`
	From      float64   `json:"from"` // Mean prediction of the first model
	To        float64   `json:"to"`   // Mean prediction of the second model
	Direction Direction `json:"direction"`
}

// MissingMeasured reports whether the record had no observed day.
func (a Arrow) MissingMeasured() bool {
	return math.IsNaN(a.Measured)
}

// BoxSummary is the five-number summary of one model's per-run error
// distribution, with whiskers at 1.5 IQR clamped to the data range.
type BoxSummary struct {
	Model       string    `json:"model"`
	RunRMSE     []float64 `json:"run_rmse"` // One error value per run, in run order
	Median      float64   `json:"median"`
	Q1          float64   `json:"q1"`
	Q3          float64   `json:"q3"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
}
