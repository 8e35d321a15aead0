package models

import (
	"fmt"
	"math"

	"github.com/phenolab/phenocal/schema"
)

// gdd is the growing-degree-day rate: daily warmth above a base temperature.
func gdd(t, base float64) float64 {
	if t > base {
		return t - base
	}
	return 0
}

// sigmoidRate is the saturating forcing rate of sigmoid thermal-time models,
// in (0, 1) per day. b sets the steepness, c the midpoint temperature.
func sigmoidRate(t, b, c float64) float64 {
	return 1 / (1 + math.Exp(-b*(t-c)))
}

// checkDrivers validates one record's series for a model: day axis and
// temperature must be present and aligned, photoperiod too when the model
// needs it.
func checkDrivers(m Model, rec schema.Observation, photo bool) error {
	drv := rec.Drivers
	if len(drv.Doy) == 0 {
		return fmt.Errorf("%w: %s %s/%d has an empty day axis", ErrDrivers, m.Name(), rec.Site, rec.Year)
	}
	if len(drv.TMean) != len(drv.Doy) {
		return fmt.Errorf("%w: %s %s/%d has %d temperature values for %d days",
			ErrDrivers, m.Name(), rec.Site, rec.Year, len(drv.TMean), len(drv.Doy))
	}
	if photo && len(drv.Photoperiod) != len(drv.Doy) {
		return fmt.Errorf("%w: %s %s/%d needs an aligned photoperiod series",
			ErrDrivers, m.Name(), rec.Site, rec.Year)
	}
	return nil
}

// predictEach validates drivers and evaluates fn once per record. Callers
// check parameter arity before destructuring the vector.
func predictEach(m Model, ds *schema.Dataset, photo bool, fn func(schema.Observation) float64) ([]float64, error) {
	out := make([]float64, len(ds.Records))
	for i, rec := range ds.Records {
		if err := checkDrivers(m, rec, photo); err != nil {
			return nil, err
		}
		out[i] = fn(rec)
	}
	return out, nil
}

// forceFrom walks the day axis from the first day at or after t0, adding
// rate(i) per day, and returns the day the running sum first reaches crit.
// Records that never reach crit predict FarFuture.
func forceFrom(drv schema.Drivers, t0, crit float64, rate func(i int) float64) float64 {
	sum := 0.0
	for i := range drv.Doy {
		if drv.Doy[i] < t0 {
			continue
		}
		sum += rate(i)
		if sum >= crit {
			return drv.Doy[i]
		}
	}
	return FarFuture
}
