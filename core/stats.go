package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/phenolab/phenocal/schema"
)

// ErrInsufficientData flags datasets too small for the requested statistic.
var ErrInsufficientData = errors.New("core: not enough valid records")

// sseFloor keeps the AIC log finite on numerically exact fits.
const sseFloor = 1e-30

// SSE returns the sum of squared errors over records with a usable measured
// value, plus the number of such records. A non-finite prediction against a
// usable measurement is an evaluation failure, not a skippable record.
func SSE(predicted, measured []float64) (float64, int, error) {
	if len(predicted) != len(measured) {
		return 0, 0, fmt.Errorf("%d predictions for %d measured values", len(predicted), len(measured))
	}
	sse := 0.0
	n := 0
	for i := range measured {
		if math.IsNaN(measured[i]) {
			continue
		}
		p := predicted[i]
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, 0, fmt.Errorf("prediction for record %d is not finite", i)
		}
		d := p - measured[i]
		sse += d * d
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no usable measured values", ErrInsufficientData)
	}
	return sse, n, nil
}

// RMSE returns the root mean squared error over usable records. It is zero
// exactly when every usable record is predicted exactly.
func RMSE(predicted, measured []float64) (float64, error) {
	sse, n, err := SSE(predicted, measured)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(sse / float64(n)), nil
}

// AICc computes the Akaike information criterion with the small-sample
// correction 2k(k+1)/(n-k-1) from a fit's error sum, sample count and
// parameter count. It needs n >= k+2 so the correction stays finite and
// positive.
func AICc(sse float64, n, k int) (schema.AICcRecord, error) {
	if k < 1 {
		return schema.AICcRecord{}, fmt.Errorf("parameter count %d must be positive", k)
	}
	if n-k-1 < 1 {
		return schema.AICcRecord{}, fmt.Errorf("%w: AICc needs n >= k+2, got n=%d k=%d", ErrInsufficientData, n, k)
	}
	if sse < sseFloor {
		sse = sseFloor
	}
	aic := float64(n)*math.Log(sse/float64(n)) + 2*float64(k)
	correction := 2 * float64(k) * float64(k+1) / float64(n-k-1)
	return schema.AICcRecord{AIC: aic, AICc: aic + correction, K: k, N: n}, nil
}

// NullRMSE returns the error of the constant predictor fixed at the mean of
// the usable measured values. It is the skill floor every fitted model is
// judged against.
func NullRMSE(ds *schema.Dataset) (float64, error) {
	return nullRMSEOf(ds.ObservedValid())
}

// nullRMSEOf computes the mean-predictor error for a plain value slice,
// entries without a usable value skipped.
func nullRMSEOf(values []float64) (float64, error) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	mean, err := stats.Mean(valid)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	sse := 0.0
	for _, v := range valid {
		d := v - mean
		sse += d * d
	}
	return math.Sqrt(sse / float64(len(valid))), nil
}
