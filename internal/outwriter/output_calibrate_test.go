package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCalibrations() []*schema.CalibrationResult {
	return []*schema.CalibrationResult{
		{
			Model:  "TT",
			Method: "anneal",
			Params: []schema.FittedParam{
				{Name: "t0", Value: 20.5, Lower: 1, Upper: 150},
				{Name: "T_base", Value: 4.25, Lower: 0, Upper: 10},
				{Name: "F_crit", Value: 210.75, Lower: 50, Upper: 1000},
			},
			RMSE:        2.4,
			NullRMSE:    6.8,
			AICc:        schema.AICcRecord{AIC: 40.5, AICc: 43.5, K: 3, N: 12},
			Predicted:   []float64{118, 127},
			Evaluations: 500,
			Elapsed:     1500 * time.Millisecond,
		},
		{
			Model:  "LIN",
			Method: "anneal",
			Params: []schema.FittedParam{
				{Name: "a", Value: 160.25, Lower: -50, Upper: 300},
				{Name: "b", Value: -3.5, Lower: -30, Upper: 30},
			},
			RMSE:        6.9,
			NullRMSE:    6.8,
			AICc:        schema.AICcRecord{AIC: 61.25, AICc: 62.25, K: 2, N: 12},
			Predicted:   []float64{121, 130},
			Evaluations: 200,
			Elapsed:     250 * time.Millisecond,
		},
	}
}

func TestWriteCalibrationTable(t *testing.T) {
	results := sampleCalibrations()
	cfg := &contract.Config{
		Output:    schema.TextOut,
		Precision: 2,
		Workers:   4,
		Width:     120,
	}
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeCalibrationTable(results, cfg, fmtFloat, intFmt, 100*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "TT")
	assert.Contains(t, output, "anneal")
	assert.Contains(t, output, "2.40")  // RMSE
	assert.Contains(t, output, "43.50") // AICc
	assert.Contains(t, output, "Excellent")
	assert.Contains(t, output, "Poor") // LIN barely below null
	assert.Contains(t, output, "1.5s")
	assert.Contains(t, output, "Calibrated 2 models (700 objective evaluations)")
	assert.Contains(t, output, "Calibration completed in 100ms with 4 workers")

	// No parameter rows without the detail flag
	assert.NotContains(t, output, "F_crit")
}

func TestWriteCalibrationTableDetail(t *testing.T) {
	results := sampleCalibrations()
	cfg := &contract.Config{
		Output:    schema.TextOut,
		Precision: 2,
		Workers:   1,
		Detail:    true,
		Width:     120,
	}
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeCalibrationTable(results, cfg, fmtFloat, intFmt, time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "F_crit")
	assert.Contains(t, output, "210.75")
	// Wide terminal keeps the bound columns
	assert.Contains(t, output, "Lower")
	assert.Contains(t, output, "1000.00")
}

func TestWriteCalibrationTableDetailNarrow(t *testing.T) {
	results := sampleCalibrations()
	cfg := &contract.Config{
		Output:    schema.TextOut,
		Precision: 2,
		Workers:   1,
		Detail:    true,
		Width:     60,
	}
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeCalibrationTable(results, cfg, fmtFloat, intFmt, time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "F_crit")
	// Narrow terminal drops the bound columns
	assert.NotContains(t, output, "Lower")
	assert.NotContains(t, output, "1000.00")
}

func TestWriteCSVResultsForCalibrations(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	results := sampleCalibrations()

	var buf bytes.Buffer
	err := writeCSVResultsForCalibrations(&buf, results, fmtFloat, intFmt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows

	assert.Contains(t, lines[0], "model")
	assert.Contains(t, lines[0], "aicc")
	assert.Contains(t, lines[0], "params")

	assert.Contains(t, lines[1], "TT")
	assert.Contains(t, lines[1], "2.40")
	assert.Contains(t, lines[1], "t0=20.50|T_base=4.25|F_crit=210.75")
	assert.Contains(t, lines[1], "1500") // elapsed ms

	assert.Contains(t, lines[2], "LIN")
	assert.Contains(t, lines[2], "a=160.25|b=-3.50")
}

func TestWriteJSONResultsForCalibrations(t *testing.T) {
	results := sampleCalibrations()

	var buf bytes.Buffer
	err := writeJSONResultsForCalibrations(&buf, results)
	require.NoError(t, err)

	var parsed []map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "Excellent", parsed[0]["label"])
	assert.Equal(t, "TT", parsed[0]["model"])
	assert.Equal(t, 2.4, parsed[0]["rmse"])
	assert.Equal(t, "Poor", parsed[1]["label"])
}

func TestWriteCalibrationResultsToFile(t *testing.T) {
	results := sampleCalibrations()
	outputFile := filepath.Join(t.TempDir(), "results.json")
	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: outputFile,
		Precision:  2,
	}

	err := WriteCalibrationResults(results, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "LIN", parsed[1]["model"])
}

func TestWriteCalibrationResultsParquet(t *testing.T) {
	results := sampleCalibrations()
	outputFile := filepath.Join(t.TempDir(), "results.parquet")
	cfg := &contract.Config{
		Output:     schema.ParquetOut,
		OutputFile: outputFile,
		Precision:  2,
	}

	err := WriteCalibrationResults(results, cfg, time.Second)
	require.NoError(t, err)

	_, err = os.Stat(outputFile)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(outputFile), "results_params.parquet"))
	require.NoError(t, err)
}

func TestWriteCalibrationResultsParquetRequiresFile(t *testing.T) {
	cfg := &contract.Config{
		Output:    schema.ParquetOut,
		Precision: 2,
	}

	err := WriteCalibrationResults(sampleCalibrations(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}

func TestParamsParquetPath(t *testing.T) {
	assert.Equal(t, "out_params.parquet", paramsParquetPath("out.parquet"))
	assert.Equal(t, "runs_params.parquet", paramsParquetPath("runs"))
}
