package schema

import (
	"fmt"
	"math"
)

// Missing reports whether the record has no usable measured value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Observed)
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Observed returns the measured values in record order, NaN for missing records.
func (d *Dataset) Observed() []float64 {
	values := make([]float64, len(d.Records))
	for i, rec := range d.Records {
		values[i] = rec.Observed
	}
	return values
}

// ObservedValid returns only the usable measured values, in record order.
func (d *Dataset) ObservedValid() []float64 {
	values := make([]float64, 0, len(d.Records))
	for _, rec := range d.Records {
		if !rec.Missing() {
			values = append(values, rec.Observed)
		}
	}
	return values
}

// ValidCount returns the number of records with a usable measured value.
func (d *Dataset) ValidCount() int {
	count := 0
	for _, rec := range d.Records {
		if !rec.Missing() {
			count++
		}
	}
	return count
}

// ObservedMean returns the mean of the usable measured values, the constant
// prediction of the null model.
func (d *Dataset) ObservedMean() (float64, error) {
	sum := 0.0
	count := 0
	for _, rec := range d.Records {
		if !rec.Missing() {
			sum += rec.Observed
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("dataset has no usable measured values")
	}
	return sum / float64(count), nil
}

// Sites returns the distinct site identifiers in first-seen order.
func (d *Dataset) Sites() []string {
	seen := make(map[string]struct{})
	var sites []string
	for _, rec := range d.Records {
		if _, ok := seen[rec.Site]; !ok {
			seen[rec.Site] = struct{}{}
			sites = append(sites, rec.Site)
		}
	}
	return sites
}
