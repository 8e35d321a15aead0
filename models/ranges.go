package models

import "github.com/phenolab/phenocal/schema"

// DefaultRangeTable returns the built-in search bounds for every catalog
// model, in [Model.ParamNames] order. The values bracket the ranges reported
// for temperate deciduous species; site-specific work narrows them through a
// user-supplied range table instead of editing these.
func DefaultRangeTable() schema.RangeTable {
	return schema.RangeTable{
		"LIN": {
			Lower: []float64{-100, -20}, // a, b
			Upper: []float64{300, 20},
		},
		"TT": {
			Lower: []float64{1, -5, 0}, // t0, T_base, F_crit
			Upper: []float64{120, 15, 1500},
		},
		"TTs": {
			Lower: []float64{1, 0, -10, 0}, // t0, b, c, F_crit
			Upper: []float64{120, 5, 30, 200},
		},
		"PTT": {
			Lower: []float64{1, -5, 0}, // t0, T_base, F_crit
			Upper: []float64{120, 15, 1000},
		},
		"M1": {
			Lower: []float64{1, -5, 0, 0}, // t0, T_base, k, F_crit
			Upper: []float64{120, 15, 10, 2000},
		},
		"SQ": {
			Lower: []float64{1, 0, -5, 0, 0}, // t0, T_base, T_chill, C_crit, F_crit
			Upper: []float64{120, 15, 10, 150, 1000},
		},
		"AT": {
			Lower: []float64{1, 0, 0, 0, -2}, // t0, T_base, a, b, c
			Upper: []float64{120, 10, 1000, 5000, 0},
		},
	}
}
