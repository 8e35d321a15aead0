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

func sampleBoxes() []schema.BoxSummary {
	return []schema.BoxSummary{
		{
			Model:       "TT",
			RunRMSE:     []float64{1.5, 2.5, 3.5, 4.5},
			Median:      3,
			Q1:          2,
			Q3:          4,
			WhiskerLow:  1.5,
			WhiskerHigh: 4.5,
		},
		{
			Model:       "PTT",
			RunRMSE:     []float64{8.25, 9.75},
			Median:      9,
			Q1:          8.25,
			Q3:          9.75,
			WhiskerLow:  8.25,
			WhiskerHigh: 9.75,
		},
	}
}

func TestWriteBoxTable(t *testing.T) {
	cfg := &contract.Config{
		Output:    schema.TextOut,
		Precision: 2,
		Width:     120,
	}
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeBoxTable(sampleBoxes(), 8.0, cfg, fmtFloat, intFmt, 60*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "TT")
	assert.Contains(t, output, "PTT")
	assert.Contains(t, output, "3.00") // TT median
	assert.Contains(t, output, "9.00") // PTT median
	// TT median 3 vs null 8 is below half, PTT median 9 is above the null
	assert.Contains(t, output, "Excellent")
	assert.Contains(t, output, "Poor")
	assert.Contains(t, output, "Null model RMSE: 8.00 (constant mean of the measured values)")
	assert.Contains(t, output, "Comparison completed in 60ms")
}

func TestWriteCSVResultsForBoxes(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	err := writeCSVResultsForBoxes(&buf, sampleBoxes(), 8.0, fmtFloat, intFmt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 models

	assert.Equal(t, "model,runs,median,q1,q3,whisker_low,whisker_high,null_rmse,label", lines[0])
	assert.Equal(t, "TT,4,3.00,2.00,4.00,1.50,4.50,8.00,Excellent", lines[1])
	assert.Equal(t, "PTT,2,9.00,8.25,9.75,8.25,9.75,8.00,Poor", lines[2])
}

func TestWriteJSONResultsForBoxes(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForBoxes(&buf, sampleBoxes(), 8.0)
	require.NoError(t, err)

	var parsed struct {
		NullRMSE float64 `json:"null_rmse"`
		Models   []struct {
			Label   string    `json:"label"`
			Model   string    `json:"model"`
			Median  float64   `json:"median"`
			RunRMSE []float64 `json:"run_rmse"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, 8.0, parsed.NullRMSE)
	require.Len(t, parsed.Models, 2)
	assert.Equal(t, "TT", parsed.Models[0].Model)
	assert.Equal(t, "Excellent", parsed.Models[0].Label)
	assert.Equal(t, 3.0, parsed.Models[0].Median)
	assert.Len(t, parsed.Models[0].RunRMSE, 4)
	assert.Equal(t, "Poor", parsed.Models[1].Label)
}

func TestWriteBoxResultsToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "boxes.json")
	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: outputFile,
		Precision:  2,
	}

	err := WriteBoxResults(sampleBoxes(), 8.0, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "null_rmse")
}

func TestWriteBoxResultsParquet(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "scores.parquet")
	cfg := &contract.Config{
		Output:     schema.ParquetOut,
		OutputFile: outputFile,
		Precision:  2,
	}

	err := WriteBoxResults(sampleBoxes(), 8.0, cfg, time.Second)
	require.NoError(t, err)

	_, err = os.Stat(outputFile)
	require.NoError(t, err)
}

func TestWriteBoxResultsParquetRequiresFile(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut, Precision: 2}

	err := WriteBoxResults(sampleBoxes(), 8.0, cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}
