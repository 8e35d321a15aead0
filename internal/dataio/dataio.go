// Package dataio loads observation datasets, bounds tables and comparison
// run files from disk, and writes datasets back out.
package dataio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/phenolab/phenocal/schema"
)

// wireObservation is the JSON shape of a single site-year. A null observed
// day marks a missing observation, which becomes NaN in memory.
type wireObservation struct {
	Site        string    `json:"site"`
	Year        int       `json:"year"`
	Observed    *float64  `json:"observed_doy"`
	Doy         []float64 `json:"doy"`
	TMeanC      []float64 `json:"tmean_c"`
	Photoperiod []float64 `json:"photoperiod_h,omitempty"`
	PrecipMM    []float64 `json:"precip_mm,omitempty"`
}

// wireDataset is the JSON shape of a full dataset file.
type wireDataset struct {
	Records []wireObservation `json:"records"`
}

// LoadDataset reads a dataset file, picking the decoder from the extension.
// JSON files carry one object per site-year, CSV files carry one row per
// site-year-day in long format.
func LoadDataset(path string) (*schema.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeDatasetJSON(file)
	case ".csv":
		return DecodeDatasetCSV(file)
	default:
		return nil, fmt.Errorf("dataio: unsupported dataset format %q (want .json or .csv)", ext)
	}
}

// DecodeDatasetJSON decodes a dataset from its JSON wire form.
func DecodeDatasetJSON(r io.Reader) (*schema.Dataset, error) {
	var wire wireDataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("dataio: decoding dataset: %w", err)
	}

	ds := &schema.Dataset{Records: make([]schema.Observation, 0, len(wire.Records))}
	for _, rec := range wire.Records {
		observed := math.NaN()
		if rec.Observed != nil {
			observed = *rec.Observed
		}
		ds.Records = append(ds.Records, schema.Observation{
			Site:     rec.Site,
			Year:     rec.Year,
			Observed: observed,
			Drivers: schema.Drivers{
				Doy:         rec.Doy,
				TMean:       rec.TMeanC,
				Photoperiod: rec.Photoperiod,
				Precip:      rec.PrecipMM,
			},
		})
	}
	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// SaveDataset writes a dataset to path in the JSON wire form.
func SaveDataset(path string, ds *schema.Dataset) error {
	wire := wireDataset{Records: make([]wireObservation, 0, len(ds.Records))}
	for _, rec := range ds.Records {
		out := wireObservation{
			Site:        rec.Site,
			Year:        rec.Year,
			Doy:         rec.Drivers.Doy,
			TMeanC:      rec.Drivers.TMean,
			Photoperiod: rec.Drivers.Photoperiod,
			PrecipMM:    rec.Drivers.Precip,
		}
		if !rec.Missing() {
			observed := rec.Observed
			out.Observed = &observed
		}
		wire.Records = append(wire.Records, out)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}

// validateDataset applies the structural checks shared by both decoders.
func validateDataset(ds *schema.Dataset) error {
	if len(ds.Records) == 0 {
		return fmt.Errorf("dataio: dataset has no records")
	}
	for _, rec := range ds.Records {
		drv := rec.Drivers
		if len(drv.Doy) == 0 {
			return fmt.Errorf("dataio: record %s/%d has no driver days", rec.Site, rec.Year)
		}
		if len(drv.TMean) != len(drv.Doy) {
			return fmt.Errorf("dataio: record %s/%d has %d temperatures for %d days",
				rec.Site, rec.Year, len(drv.TMean), len(drv.Doy))
		}
		if len(drv.Photoperiod) != 0 && len(drv.Photoperiod) != len(drv.Doy) {
			return fmt.Errorf("dataio: record %s/%d has %d photoperiods for %d days",
				rec.Site, rec.Year, len(drv.Photoperiod), len(drv.Doy))
		}
		if len(drv.Precip) != 0 && len(drv.Precip) != len(drv.Doy) {
			return fmt.Errorf("dataio: record %s/%d has %d precipitation values for %d days",
				rec.Site, rec.Year, len(drv.Precip), len(drv.Doy))
		}
		for i := 1; i < len(drv.Doy); i++ {
			if drv.Doy[i] <= drv.Doy[i-1] {
				return fmt.Errorf("dataio: record %s/%d has a non-increasing day axis at position %d",
					rec.Site, rec.Year, i)
			}
		}
	}
	return nil
}
