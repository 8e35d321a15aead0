// Package parquet provides data structures and functions for exporting
// calibration and comparison results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/schema"
)

// CalibrationRun represents one calibrated model with its fit statistics.
type CalibrationRun struct {
	// Model is the calibrated model name
	Model string `parquet:"model,snappy"`

	// Method is the optimizer backend used for the search
	Method string `parquet:"method,snappy"`

	// RMSE is the day error of the fitted model
	RMSE float64 `parquet:"rmse,snappy"`

	// NullRMSE is the day error of the mean predictor on the same records
	NullRMSE float64 `parquet:"null_rmse,snappy"`

	// AIC is the uncorrected information criterion
	AIC float64 `parquet:"aic,snappy"`

	// AICc is the small-sample corrected information criterion
	AICc float64 `parquet:"aicc,snappy"`

	// ParamCount is the number of fitted parameters
	ParamCount int32 `parquet:"param_count,snappy"`

	// RecordCount is the number of usable observations
	RecordCount int32 `parquet:"record_count,snappy"`

	// Evaluations is the number of objective evaluations spent
	Evaluations int32 `parquet:"evaluations,snappy"`

	// ElapsedMs is the wall-clock calibration time in milliseconds
	ElapsedMs int64 `parquet:"elapsed_ms,snappy"`

	// Label grades the fit against the null model
	Label string `parquet:"label,snappy"`
}

// ParameterEstimate represents a single fitted parameter of a calibration.
type ParameterEstimate struct {
	// Model is the calibrated model name
	Model string `parquet:"model,snappy"`

	// Method is the optimizer backend used for the search
	Method string `parquet:"method,snappy"`

	// Name is the parameter name within the model
	Name string `parquet:"name,snappy"`

	// Value is the fitted value
	Value float64 `parquet:"value,snappy"`

	// Lower is the lower search bound
	Lower float64 `parquet:"lower,snappy"`

	// Upper is the upper search bound
	Upper float64 `parquet:"upper,snappy"`
}

// RunScore represents the error of one comparison run of one model.
type RunScore struct {
	// Model is the model the run belongs to
	Model string `parquet:"model,snappy"`

	// Run is the 1-based run index within the model
	Run int32 `parquet:"run,snappy"`

	// RMSE is the day error of this run against the measured days
	RMSE float64 `parquet:"rmse,snappy"`
}

// ArrowRecord represents one record of a two-model arrow comparison.
type ArrowRecord struct {
	// Record is the 1-based record index
	Record int32 `parquet:"record,snappy"`

	// Measured is the observed transition day (nullable for missing records)
	Measured *float64 `parquet:"measured,optional,snappy"`

	// FromDoy is the first model's mean prediction
	FromDoy float64 `parquet:"from_doy,snappy"`

	// ToDoy is the second model's mean prediction
	ToDoy float64 `parquet:"to_doy,snappy"`

	// Direction is rising, falling or unchanged
	Direction string `parquet:"direction,snappy"`
}

// PredictionRecord represents one model prediction for one site-year.
type PredictionRecord struct {
	// Model is the model identifier
	Model string `parquet:"model,snappy"`

	// Site is the site identifier of the record
	Site string `parquet:"site,snappy"`

	// Year is the observation year of the record
	Year int32 `parquet:"year,snappy"`

	// Observed is the measured transition day (nullable for missing records)
	Observed *float64 `parquet:"observed,optional,snappy"`

	// Predicted is the model's transition day
	Predicted float64 `parquet:"predicted,snappy"`

	// Delta is predicted minus observed (nullable for missing records)
	Delta *float64 `parquet:"delta,optional,snappy"`
}

// writeParquet writes any record slice to a Parquet file, inferring the
// schema from the struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// The footer only lands on Close, so its error decides success.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteCalibrationRunsParquet writes a slice of CalibrationRun structs to a Parquet file.
func WriteCalibrationRunsParquet(data []CalibrationRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteParameterEstimatesParquet writes a slice of ParameterEstimate structs to a Parquet file.
func WriteParameterEstimatesParquet(data []ParameterEstimate, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunScoresParquet writes a slice of RunScore structs to a Parquet file.
func WriteRunScoresParquet(data []RunScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteArrowRecordsParquet writes a slice of ArrowRecord structs to a Parquet file.
func WriteArrowRecordsParquet(data []ArrowRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePredictionRecordsParquet writes a slice of PredictionRecord structs to a Parquet file.
func WritePredictionRecordsParquet(data []PredictionRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertCalibrationResults converts calibration results to CalibrationRun
// rows for Parquet export.
func ConvertCalibrationResults(results []*schema.CalibrationResult) []CalibrationRun {
	rows := make([]CalibrationRun, len(results))
	for i, res := range results {
		rows[i] = CalibrationRun{
			Model:       res.Model,
			Method:      res.Method,
			RMSE:        res.RMSE,
			NullRMSE:    res.NullRMSE,
			AIC:         res.AICc.AIC,
			AICc:        res.AICc.AICc,
			ParamCount:  int32(res.AICc.K),
			RecordCount: int32(res.AICc.N),
			Evaluations: int32(res.Evaluations),
			ElapsedMs:   res.Elapsed.Milliseconds(),
			Label:       contract.GetPlainLabel(res.RMSE, res.NullRMSE),
		}
	}
	return rows
}

// ConvertParameterEstimates flattens calibration results into one
// ParameterEstimate row per fitted parameter.
func ConvertParameterEstimates(results []*schema.CalibrationResult) []ParameterEstimate {
	var rows []ParameterEstimate
	for _, res := range results {
		for _, p := range res.Params {
			rows = append(rows, ParameterEstimate{
				Model:  res.Model,
				Method: res.Method,
				Name:   p.Name,
				Value:  p.Value,
				Lower:  p.Lower,
				Upper:  p.Upper,
			})
		}
	}
	return rows
}

// ConvertRunScores flattens box summaries into one RunScore row per run.
func ConvertRunScores(boxes []schema.BoxSummary) []RunScore {
	var rows []RunScore
	for _, box := range boxes {
		for r, rmse := range box.RunRMSE {
			rows = append(rows, RunScore{
				Model: box.Model,
				Run:   int32(r + 1),
				RMSE:  rmse,
			})
		}
	}
	return rows
}

// ConvertPredictions pairs dataset records with their predictions as
// PredictionRecord rows. Missing measurements become null cells.
func ConvertPredictions(model string, ds *schema.Dataset, predicted []float64) []PredictionRecord {
	rows := make([]PredictionRecord, len(ds.Records))
	for i, rec := range ds.Records {
		row := PredictionRecord{
			Model:     model,
			Site:      rec.Site,
			Year:      int32(rec.Year),
			Predicted: predicted[i],
		}
		if !rec.Missing() {
			observed := rec.Observed
			delta := predicted[i] - rec.Observed
			row.Observed = &observed
			row.Delta = &delta
		}
		rows[i] = row
	}
	return rows
}

// ConvertArrows converts arrow comparisons to ArrowRecord rows. Missing
// measurements become null cells.
func ConvertArrows(arrows []schema.Arrow) []ArrowRecord {
	rows := make([]ArrowRecord, len(arrows))
	for i, a := range arrows {
		row := ArrowRecord{
			Record:    int32(a.Index + 1),
			FromDoy:   a.From,
			ToDoy:     a.To,
			Direction: string(a.Direction),
		}
		if !a.MissingMeasured() {
			measured := a.Measured
			row.Measured = &measured
		}
		rows[i] = row
	}
	return rows
}
