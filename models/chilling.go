package models

import (
	"math"

	"github.com/phenolab/phenocal/schema"
)

// SQ is the sequential chilling-forcing model: days below T_chill accumulate
// from the start of the series, and only once C_crit chill days are banked
// does degree-day forcing begin, from the following day and no earlier
// than t0.
type SQ struct{}

// Name implements [Model].
func (SQ) Name() string { return "SQ" }

// ParamNames implements [Model].
func (SQ) ParamNames() []string {
	return []string{"t0", "T_base", "T_chill", "C_crit", "F_crit"}
}

// Predict implements [Model].
func (m SQ) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	t0, tBase, tChill, cCrit, fCrit := params[0], params[1], params[2], params[3], params[4]
	return predictEach(m, ds, false, func(rec schema.Observation) float64 {
		drv := rec.Drivers
		chill := 0.0
		forcing := 0.0
		chillMet := cCrit <= 0
		for i := range drv.Doy {
			if !chillMet {
				if drv.TMean[i] < tChill {
					chill++
				}
				chillMet = chill >= cCrit
				continue
			}
			if drv.Doy[i] < t0 {
				continue
			}
			forcing += gdd(drv.TMean[i], tBase)
			if forcing >= fCrit {
				return drv.Doy[i]
			}
		}
		return FarFuture
	})
}

// AT is the alternating model: chill days below T_base and degree days above
// it accumulate in parallel from t0, and the forcing requirement decays
// exponentially with the chill-day count, F* = a + b*exp(c*NCD).
type AT struct{}

// Name implements [Model].
func (AT) Name() string { return "AT" }

// ParamNames implements [Model].
func (AT) ParamNames() []string {
	return []string{"t0", "T_base", "a", "b", "c"}
}

// Predict implements [Model].
func (m AT) Predict(params []float64, ds *schema.Dataset) ([]float64, error) {
	if err := checkArity(m, params); err != nil {
		return nil, err
	}
	t0, tBase, a, b, c := params[0], params[1], params[2], params[3], params[4]
	return predictEach(m, ds, false, func(rec schema.Observation) float64 {
		drv := rec.Drivers
		ncd := 0.0
		forcing := 0.0
		for i := range drv.Doy {
			if drv.Doy[i] < t0 {
				continue
			}
			if drv.TMean[i] < tBase {
				ncd++
			} else {
				forcing += drv.TMean[i] - tBase
			}
			if forcing >= a+b*math.Exp(c*ncd) {
				return drv.Doy[i]
			}
		}
		return FarFuture
	})
}
