package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/phenolab/phenocal/schema"
)

// ErrTooFewModels flags comparison sets that cannot support a two-model view.
var ErrTooFewModels = errors.New("core: comparison needs at least two models")

// SelectModels resolves the pair of models a comparison view works on. Empty
// names default positionally to the first and second model of the set, so a
// set built in a deliberate order compares its leading pair with no flags.
func SelectModels(set *schema.ComparisonSet, a, b string) (schema.ModelRuns, schema.ModelRuns, error) {
	if len(set.Models) < 2 {
		return schema.ModelRuns{}, schema.ModelRuns{}, fmt.Errorf("%w: got %d", ErrTooFewModels, len(set.Models))
	}
	if a == "" {
		a = set.Models[0].Model
	}
	if b == "" {
		b = set.Models[1].Model
	}
	if a == b {
		return schema.ModelRuns{}, schema.ModelRuns{}, fmt.Errorf("cannot compare model %q with itself", a)
	}
	first, ok := set.Model(a)
	if !ok {
		return schema.ModelRuns{}, schema.ModelRuns{}, fmt.Errorf("model %q not in comparison set", a)
	}
	second, ok := set.Model(b)
	if !ok {
		return schema.ModelRuns{}, schema.ModelRuns{}, fmt.Errorf("model %q not in comparison set", b)
	}
	return first, second, nil
}

// runMeans collapses a model's runs to one mean prediction per record.
func runMeans(m schema.ModelRuns) []float64 {
	if len(m.Runs) == 1 {
		out := make([]float64, len(m.Runs[0]))
		copy(out, m.Runs[0])
		return out
	}
	nRec := len(m.Runs[0])
	means := make([]float64, nRec)
	col := make([]float64, len(m.Runs))
	for i := 0; i < nRec; i++ {
		for r, run := range m.Runs {
			col[r] = run[i]
		}
		means[i] = stat.Mean(col, nil)
	}
	return means
}

// BuildArrows derives the per-record shift view between two models: for each
// record, the mean prediction of the first model, the mean prediction of the
// second, and the direction of the shift. Records where the two means agree
// exactly are classified [schema.Unchanged] and left out of renderings.
func BuildArrows(set *schema.ComparisonSet, a, b string) ([]schema.Arrow, error) {
	first, second, err := SelectModels(set, a, b)
	if err != nil {
		return nil, err
	}
	from := runMeans(first)
	to := runMeans(second)

	arrows := make([]schema.Arrow, len(set.Measured))
	for i := range set.Measured {
		arrows[i] = schema.Arrow{
			Index:     i,
			Measured:  set.Measured[i],
			From:      from[i],
			To:        to[i],
			Direction: schema.Classify(from[i], to[i]),
		}
	}
	return arrows, nil
}

// RunDistributions summarizes every model's per-run error against the
// measured values as box statistics, together with the shared null-model
// error all of them are judged against.
func RunDistributions(set *schema.ComparisonSet) ([]schema.BoxSummary, float64, error) {
	null, err := nullRMSEOf(set.Measured)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]schema.BoxSummary, len(set.Models))
	for i, m := range set.Models {
		rmses := make([]float64, len(m.Runs))
		for r, run := range m.Runs {
			v, err := RMSE(run, set.Measured)
			if err != nil {
				return nil, 0, fmt.Errorf("model %s run %d: %w", m.Model, r+1, err)
			}
			rmses[r] = v
		}
		summary, err := boxStats(m.Model, rmses)
		if err != nil {
			return nil, 0, fmt.Errorf("model %s: %w", m.Model, err)
		}
		summaries[i] = summary
	}
	return summaries, null, nil
}

// boxStats builds the five-number summary of one error distribution, with
// Tukey whiskers at 1.5 IQR clamped to observed values.
func boxStats(model string, rmses []float64) (schema.BoxSummary, error) {
	summary := schema.BoxSummary{Model: model, RunRMSE: rmses}

	median, err := stats.Median(rmses)
	if err != nil {
		return schema.BoxSummary{}, err
	}
	summary.Median = median

	if len(rmses) < 2 {
		// A single run collapses every box statistic onto its one value.
		summary.Q1 = median
		summary.Q3 = median
		summary.WhiskerLow = median
		summary.WhiskerHigh = median
		return summary, nil
	}

	quartiles, err := stats.Quartile(rmses)
	if err != nil {
		return schema.BoxSummary{}, err
	}
	summary.Q1 = quartiles.Q1
	summary.Q3 = quartiles.Q3

	iqr := quartiles.Q3 - quartiles.Q1
	loFence := quartiles.Q1 - 1.5*iqr
	hiFence := quartiles.Q3 + 1.5*iqr

	sorted := append([]float64(nil), rmses...)
	sort.Float64s(sorted)
	summary.WhiskerLow = sorted[len(sorted)-1]
	summary.WhiskerHigh = sorted[0]
	for _, v := range sorted {
		if v >= loFence && v < summary.WhiskerLow {
			summary.WhiskerLow = v
		}
		if v <= hiFence && v > summary.WhiskerHigh {
			summary.WhiskerHigh = v
		}
	}
	return summary, nil
}
