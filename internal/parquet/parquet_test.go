package parquet

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenolab/phenocal/schema"
)

func sampleResults() []*schema.CalibrationResult {
	return []*schema.CalibrationResult{
		{
			Model:  "TT",
			Method: "anneal",
			Params: []schema.FittedParam{
				{Name: "t0", Value: 21, Lower: 1, Upper: 120},
				{Name: "T_base", Value: 2.5, Lower: -5, Upper: 15},
				{Name: "F_crit", Value: 190, Lower: 0, Upper: 1500},
			},
			RMSE:        2.4,
			NullRMSE:    6.8,
			AICc:        schema.AICcRecord{AIC: 40.2, AICc: 46.2, K: 3, N: 8},
			Evaluations: 20000,
			Elapsed:     1500 * time.Millisecond,
		},
		{
			Model:  "LIN",
			Method: "anneal",
			Params: []schema.FittedParam{
				{Name: "a", Value: 30, Lower: -100, Upper: 300},
				{Name: "b", Value: 4, Lower: -20, Upper: 20},
			},
			RMSE:        6.9,
			NullRMSE:    6.8,
			AICc:        schema.AICcRecord{AIC: 55.0, AICc: 57.4, K: 2, N: 8},
			Evaluations: 20000,
			Elapsed:     900 * time.Millisecond,
		},
	}
}

func TestCalibrationRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	fileSchema := parquet.SchemaOf(new(CalibrationRun))
	require.NotNil(t, fileSchema)

	expectedColumns := []string{
		"model",
		"method",
		"rmse",
		"null_rmse",
		"aic",
		"aicc",
		"param_count",
		"record_count",
		"evaluations",
		"elapsed_ms",
		"label",
	}

	for _, colName := range expectedColumns {
		col, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestArrowRecordStructTags(t *testing.T) {
	fileSchema := parquet.SchemaOf(new(ArrowRecord))
	require.NotNil(t, fileSchema)

	for _, colName := range []string{"record", "measured", "from_doy", "to_doy", "direction"} {
		_, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteCalibrationRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "calibration_runs.parquet")

	data := ConvertCalibrationResults(sampleResults())
	require.Len(t, data, 2)

	require.NoError(t, WriteCalibrationRunsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0))

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[CalibrationRun](file)
	defer func() { _ = reader.Close() }()

	readData := make([]CalibrationRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(data), n, "Should read all records")

	assert.Equal(t, "TT", readData[0].Model)
	assert.InDelta(t, 2.4, readData[0].RMSE, 1e-9)
	assert.Equal(t, int32(3), readData[0].ParamCount)
	assert.Equal(t, int64(1500), readData[0].ElapsedMs)
	assert.Equal(t, "Excellent", readData[0].Label, "2.4 vs null 6.8 grades well")
	assert.Equal(t, "Poor", readData[1].Label, "6.9 vs null 6.8 grades poorly")
}

func TestWriteArrowRecordsParquetNullableMeasured(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "arrows.parquet")

	arrows := []schema.Arrow{
		{Index: 0, Measured: 120, From: 118, To: 122, Direction: schema.Rising},
		{Index: 1, Measured: math.NaN(), From: 128, To: 126, Direction: schema.Falling},
	}
	data := ConvertArrows(arrows)
	require.Len(t, data, 2)
	require.NotNil(t, data[0].Measured)
	require.Nil(t, data[1].Measured, "missing measurement becomes a null cell")

	require.NoError(t, WriteArrowRecordsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ArrowRecord](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ArrowRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)

	require.NotNil(t, readData[0].Measured)
	assert.Equal(t, 120.0, *readData[0].Measured)
	assert.Nil(t, readData[1].Measured)
	assert.Equal(t, "rising", readData[0].Direction)
}

func TestConvertParameterEstimates(t *testing.T) {
	rows := ConvertParameterEstimates(sampleResults())
	require.Len(t, rows, 5, "three TT parameters plus two LIN parameters")

	assert.Equal(t, "TT", rows[0].Model)
	assert.Equal(t, "t0", rows[0].Name)
	assert.Equal(t, 21.0, rows[0].Value)
	assert.Equal(t, "LIN", rows[3].Model)
	assert.Equal(t, "a", rows[3].Name)
}

func TestConvertRunScores(t *testing.T) {
	boxes := []schema.BoxSummary{
		{Model: "TT", RunRMSE: []float64{0, 2, 4}},
		{Model: "PTT", RunRMSE: []float64{1}},
	}

	rows := ConvertRunScores(boxes)
	require.Len(t, rows, 4)
	assert.Equal(t, RunScore{Model: "TT", Run: 1, RMSE: 0}, rows[0])
	assert.Equal(t, RunScore{Model: "TT", Run: 3, RMSE: 4}, rows[2])
	assert.Equal(t, RunScore{Model: "PTT", Run: 1, RMSE: 1}, rows[3])
}

func TestWriteParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_runs.parquet")

	require.NoError(t, WriteRunScoresParquet([]RunScore{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquetInvalidPath(t *testing.T) {
	data := ConvertCalibrationResults(sampleResults())
	err := WriteCalibrationRunsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}
