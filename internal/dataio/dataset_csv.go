package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/phenolab/phenocal/schema"
)

// Long-format CSV columns. site, year, doy, tmean_c and observed_doy are
// required, photoperiod_h and precip_mm are optional.
const (
	colSite        = "site"
	colYear        = "year"
	colDoy         = "doy"
	colTMean       = "tmean_c"
	colPhotoperiod = "photoperiod_h"
	colPrecip      = "precip_mm"
	colObserved    = "observed_doy"
)

// DecodeDatasetCSV decodes a long-format dataset where each row is one day of
// one site-year. Rows of the same site-year are gathered in file order and
// must form a strictly increasing day axis. The observed day may appear on
// any row of its group or be left blank everywhere to mark a missing
// observation.
func DecodeDatasetCSV(r io.Reader) (*schema.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataio: reading dataset header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &schema.Dataset{}
	index := make(map[string]int) // site/year -> position in ds.Records

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataio: reading dataset row: %w", err)
		}

		site := strings.TrimSpace(row[cols[colSite]])
		year, err := strconv.Atoi(strings.TrimSpace(row[cols[colYear]]))
		if err != nil {
			return nil, fmt.Errorf("dataio: line %d: bad year %q", line, row[cols[colYear]])
		}

		key := fmt.Sprintf("%s/%d", site, year)
		pos, ok := index[key]
		if !ok {
			pos = len(ds.Records)
			index[key] = pos
			ds.Records = append(ds.Records, schema.Observation{
				Site:     site,
				Year:     year,
				Observed: math.NaN(),
			})
		}
		rec := &ds.Records[pos]

		doy, err := parseCell(row[cols[colDoy]])
		if err != nil {
			return nil, fmt.Errorf("dataio: line %d: bad doy %q", line, row[cols[colDoy]])
		}
		tmean, err := parseCell(row[cols[colTMean]])
		if err != nil {
			return nil, fmt.Errorf("dataio: line %d: bad tmean_c %q", line, row[cols[colTMean]])
		}
		rec.Drivers.Doy = append(rec.Drivers.Doy, doy)
		rec.Drivers.TMean = append(rec.Drivers.TMean, tmean)

		if idx, ok := cols[colPhotoperiod]; ok {
			hours, err := parseCell(row[idx])
			if err != nil {
				return nil, fmt.Errorf("dataio: line %d: bad photoperiod_h %q", line, row[idx])
			}
			rec.Drivers.Photoperiod = append(rec.Drivers.Photoperiod, hours)
		}
		if idx, ok := cols[colPrecip]; ok {
			mm, err := parseCell(row[idx])
			if err != nil {
				return nil, fmt.Errorf("dataio: line %d: bad precip_mm %q", line, row[idx])
			}
			rec.Drivers.Precip = append(rec.Drivers.Precip, mm)
		}

		cell := strings.TrimSpace(row[cols[colObserved]])
		if !isMissingCell(cell) {
			observed, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("dataio: line %d: bad observed_doy %q", line, cell)
			}
			if !rec.Missing() && rec.Observed != observed {
				return nil, fmt.Errorf("dataio: record %s disagrees on observed_doy (%g vs %g)",
					key, rec.Observed, observed)
			}
			rec.Observed = observed
		}
	}

	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// mapColumns resolves header names to indices, insisting on the required set.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colSite, colYear, colDoy, colTMean, colObserved} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataio: dataset header is missing column %q", required)
		}
	}
	return cols, nil
}

// parseCell parses a required numeric cell.
func parseCell(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

// isMissingCell reports whether a cell encodes "no value".
func isMissingCell(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}
