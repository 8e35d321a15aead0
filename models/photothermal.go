package models

import (
	"math"

	"github.com/phenolab/phenocal/schema"
)

// PTT is the photothermal-time model: degree days weighted by relative day
// length, so a warm day in short light counts less than the same day near
// the solstice. Needs a photoperiod series.
type PTT struct{}

// Name implements [Model].
func (PTT) Name() string { return "PTT" }

// ParamNames implements [Model].
func (PTT) ParamNames() []string { return []string{"t0", "T_base", "F_crit"} }

// Predict implements [Model].
func (m PTT) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	t0, tBase, fCrit := params[0], params[1], params[2]
	return predictEach(m, ds, true, func(rec schema.Observation) float64 {
		return forceFrom(rec.Drivers, t0, fCrit, func(i int) float64 {
			return rec.Drivers.Photoperiod[i] / 24 * gdd(rec.Drivers.TMean[i], tBase)
		})
	})
}

// M1 generalizes PTT with a free photoperiod exponent k, letting the fit
// decide how strongly day length modulates thermal forcing. Needs a
// photoperiod series.
type M1 struct{}

// Name implements [Model].
func (M1) Name() string { return "M1" }

// ParamNames implements [Model].
func (M1) ParamNames() []string { return []string{"t0", "T_base", "k", "F_crit"} }

// Predict implements [Model].
func (m M1) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	t0, tBase, k, fCrit := params[0], params[1], params[2], params[3]
	return predictEach(m, ds, true, func(rec schema.Observation) float64 {
		return forceFrom(rec.Drivers, t0, fCrit, func(i int) float64 {
			return math.Pow(rec.Drivers.Photoperiod[i]/10, k) * gdd(rec.Drivers.TMean[i], tBase)
		})
	})
}
