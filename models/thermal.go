package models

import (
	"github.com/phenolab/phenocal/schema"

	"gonum.org/v1/gonum/stat"
)

// LIN predicts the transition date as a linear function of the mean
// temperature of the whole driver series. It is the simplest catalog entry
// and a useful sanity baseline: any threshold model worth keeping should
// beat it.
type LIN struct{}

// Name implements [Model].
func (LIN) Name() string { return "LIN" }

// ParamNames implements [Model]. a is the intercept in days, b the slope in
// days per degree C.
func (LIN) ParamNames() []string { return []string{"a", "b"} }

// Predict implements [Model].
func (m LIN) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	a, b := params[0], params[1]
	return predictEach(m, ds, false, func(rec schema.Observation) float64 {
		return a + b*stat.Mean(rec.Drivers.TMean, nil)
	})
}

// TT is the classic thermal-time model: growing degree days above T_base
// accumulate from day t0 until they reach F_crit.
type TT struct{}

// Name implements [Model].
func (TT) Name() string { return "TT" }

// ParamNames implements [Model].
func (TT) ParamNames() []string { return []string{"t0", "T_base", "F_crit"} }

// Predict implements [Model].
func (m TT) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	t0, tBase, fCrit := params[0], params[1], params[2]
	return predictEach(m, ds, false, func(rec schema.Observation) float64 {
		return forceFrom(rec.Drivers, t0, fCrit, func(i int) float64 {
			return gdd(rec.Drivers.TMean[i], tBase)
		})
	})
}

// TTS replaces the linear degree-day rate of TT with a sigmoid response, so
// daily forcing saturates at one instead of growing without bound on warm
// days.
type TTS struct{}

// Name implements [Model].
func (TTS) Name() string { return "TTs" }

// ParamNames implements [Model].
func (TTS) ParamNames() []string { return []string{"t0", "b", "c", "F_crit"} }

// Predict implements [Model].
func (m TTS) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	t0, b, c, fCrit := params[0], params[1], params[2], params[3]
	return predictEach(m, ds, false, func(rec schema.Observation) float64 {
		return forceFrom(rec.Drivers, t0, fCrit, func(i int) float64 {
			return sigmoidRate(rec.Drivers.TMean[i], b, c)
		})
	})
}
