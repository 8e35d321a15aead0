package core

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/phenolab/phenocal/core/optim"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
)

// ErrModelNotFound flags a model absent from the supplied range table.
var ErrModelNotFound = errors.New("core: model missing from range table")

// Calibrate fits one model to a dataset and derives its goodness-of-fit
// statistics. All configuration problems (unknown model, missing or ragged
// range row, too few records) fail before the first objective evaluation; an
// optimizer or evaluation failure fails the whole run with no retries.
func Calibrate(modelName string, ds *schema.Dataset, table schema.RangeTable, method optim.Method, ctrl optim.Control) (*schema.CalibrationResult, error) {
	// --- 1. Resolve model and bounds ---
	model, err := models.Get(modelName)
	if err != nil {
		return nil, err
	}
	row, ok := table.Lookup(model.Name())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, model.Name())
	}
	ranges, err := row.Named(model.ParamNames())
	if err != nil {
		return nil, fmt.Errorf("range table row for %s: %w", model.Name(), err)
	}

	// --- 2. Check the dataset can support the fit ---
	k := len(ranges)
	n := ds.ValidCount()
	if n < k+2 {
		return nil, fmt.Errorf("%w: %s has %d parameters but only %d usable records", ErrInsufficientData, model.Name(), k, n)
	}

	// --- 3. Optimize ---
	start := time.Now()
	res, err := optim.Minimize(Objective(model, ds), row.Lower, row.Upper, method, ctrl)
	if err != nil {
		return nil, fmt.Errorf("calibrating %s: %w", model.Name(), err)
	}
	best := res.Outcome.Best()

	// --- 4. Final evaluation and statistics ---
	predicted, err := model.Predict(best, ds)
	if err != nil {
		return nil, fmt.Errorf("evaluating fitted %s: %w", model.Name(), err)
	}
	sse, nv, err := SSE(predicted, ds.Observed())
	if err != nil {
		return nil, err
	}
	rmse := math.Sqrt(sse / float64(nv))
	null, err := NullRMSE(ds)
	if err != nil {
		return nil, err
	}
	aicc, err := AICc(sse, nv, k)
	if err != nil {
		return nil, err
	}

	fitted := make([]schema.FittedParam, len(ranges))
	for i, pr := range ranges {
		fitted[i] = schema.FittedParam{Name: pr.Name, Value: best[i], Lower: pr.Lower, Upper: pr.Upper}
	}
	return &schema.CalibrationResult{
		Model:       model.Name(),
		Method:      string(method),
		Params:      fitted,
		RMSE:        rmse,
		NullRMSE:    null,
		AICc:        aicc,
		Predicted:   predicted,
		Evaluations: res.Outcome.Evaluations(),
		Elapsed:     time.Since(start),
	}, nil
}
