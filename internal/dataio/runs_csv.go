package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/phenolab/phenocal/schema"
)

// LoadComparisonSet reads model run files into a comparison set. A directory
// loads every *.csv inside in name order; a single file loads one model. Each
// file is named after its model (TT.csv) and holds a header
// measured,run_1,...,run_N with one row per record. The measured column must
// agree across all files.
func LoadComparisonSet(path string) (*schema.ComparisonSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.csv"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("dataio: no run files under %s", path)
	}

	var measured []float64
	var modelRuns []schema.ModelRuns
	for _, file := range files {
		model, fileMeasured, runs, err := loadModelRuns(file)
		if err != nil {
			return nil, err
		}
		if measured == nil {
			measured = fileMeasured
		} else if !sameSeries(measured, fileMeasured) {
			return nil, fmt.Errorf("dataio: %s disagrees with earlier files on the measured column", file)
		}
		modelRuns = append(modelRuns, schema.ModelRuns{Model: model, Runs: runs})
	}

	set, err := schema.NewComparisonSet(measured, modelRuns)
	if err != nil {
		return nil, fmt.Errorf("dataio: %w", err)
	}
	return set, nil
}

// loadModelRuns reads one run file. The model takes its name from the file
// stem and the run columns come back run-major.
func loadModelRuns(path string) (string, []float64, [][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", nil, nil, err
	}
	defer func() { _ = file.Close() }()

	model := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	measured, runs, err := decodeRunsCSV(file)
	if err != nil {
		return "", nil, nil, fmt.Errorf("dataio: %s: %w", path, err)
	}
	return model, measured, runs, nil
}

// decodeRunsCSV parses the measured column and the run columns of one file.
func decodeRunsCSV(r io.Reader) ([]float64, [][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "measured") {
		return nil, nil, fmt.Errorf("header must be measured,run_1,...")
	}
	nRuns := len(header) - 1

	var measured []float64
	runs := make([][]float64, nRuns)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row: %w", err)
		}

		cell := strings.TrimSpace(row[0])
		if isMissingCell(cell) {
			measured = append(measured, math.NaN())
		} else {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: bad measured value %q", line, cell)
			}
			measured = append(measured, v)
		}

		for c, cell := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: bad prediction %q", line, cell)
			}
			runs[c] = append(runs[c], v)
		}
	}

	if len(measured) == 0 {
		return nil, nil, fmt.Errorf("no data rows")
	}
	return measured, runs, nil
}

// sameSeries compares two series treating NaN as equal to NaN.
func sameSeries(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
