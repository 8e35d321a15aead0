// Package schema has data models, enums and shared helpers for all parts of phenocal.
package schema

// Drivers holds the aligned daily environmental series for one site-year.
// Doy and TMean are required by every model. Photoperiod and Precip stay nil
// when the source data does not carry them; models that need an absent series
// reject the record at evaluation time.
type Drivers struct {
	Doy         []float64 `json:"doy"`                     // Day-of-year axis shared by the series below
	TMean       []float64 `json:"tmean_c"`                 // Mean daily air temperature (degrees C)
	Photoperiod []float64 `json:"photoperiod_h,omitempty"` // Day length in hours, nil when absent
	Precip      []float64 `json:"precip_mm,omitempty"`     // Daily precipitation in mm, nil when absent
}

// Observation is a single site-year record: one measured transition date plus
// the driver series a model consumes to predict it.
type Observation struct {
	Site     string  `json:"site"`
	Year     int     `json:"year"`
	Observed float64 `json:"observed_doy"` // Measured transition date (day-of-year), NaN when missing
	Drivers  Drivers `json:"drivers"`
}

// Dataset is an ordered collection of observations. Record order is stable and
// shared with prediction vectors: prediction i always refers to Records[i].
type Dataset struct {
	Records []Observation `json:"records"`
}
