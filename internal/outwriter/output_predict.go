package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/internal/parquet"
	"github.com/phenolab/phenocal/schema"
)

// WritePredictionResults outputs per-record predictions, dispatching based on the output format configured.
func WritePredictionResults(model string, ds *schema.Dataset, predicted []float64, cfg *contract.Config, duration time.Duration) error {
	if len(predicted) != ds.Len() {
		return fmt.Errorf("prediction count %d does not match %d dataset records", len(predicted), ds.Len())
	}

	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForPredictions(w, model, ds, predicted)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForPredictions(w, ds, predicted, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetResultsForPredictions(model, ds, predicted, cfg)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePredictionTable(model, ds, predicted, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writePredictionTable generates and writes the human-readable table.
func writePredictionTable(model string, ds *schema.Dataset, predicted []float64, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Site", "Year", "Observed", "Predicted", "Delta"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, rec := range ds.Records {
		delta := missingCell
		if !rec.Missing() {
			delta = fmt.Sprintf("%+.*f", cfg.Precision, predicted[i]-rec.Observed)
		}
		row := []string{
			rec.Site,
			strconv.Itoa(rec.Year),
			fmtMeasured(rec.Observed, fmtFloat),
			fmtFloat(predicted[i]),
			delta,
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	if _, err := fmt.Fprintf(writer, "Predicted %d records with %s (%d with a measured day)\n", ds.Len(), model, ds.ValidCount()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Prediction completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPredictions writes one row per dataset record.
func writeCSVResultsForPredictions(w io.Writer, ds *schema.Dataset, predicted []float64, fmtFloat func(float64) string) error {
	header := []string{
		"site",
		"year",
		"observed_doy",
		"predicted_doy",
		"delta",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, rec := range ds.Records {
			delta := missingCell
			if !rec.Missing() {
				delta = fmtFloat(predicted[i] - rec.Observed)
			}
			row := []string{
				rec.Site,
				strconv.Itoa(rec.Year),
				fmtMeasured(rec.Observed, fmtFloat),
				fmtFloat(predicted[i]),
				delta,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForPredictions marshals the predictions to JSON.
// Missing measured values become null instead of NaN, which JSON cannot carry.
func writeJSONResultsForPredictions(w io.Writer, model string, ds *schema.Dataset, predicted []float64) error {
	type JSONPrediction struct {
		Site      string   `json:"site"`
		Year      int      `json:"year"`
		Observed  *float64 `json:"observed"`
		Predicted float64  `json:"predicted"`
		Delta     *float64 `json:"delta"`
	}
	type JSONPredictionReport struct {
		Model       string           `json:"model"`
		Predictions []JSONPrediction `json:"predictions"`
	}

	report := JSONPredictionReport{Model: model, Predictions: make([]JSONPrediction, ds.Len())}
	for i, rec := range ds.Records {
		entry := JSONPrediction{
			Site:      rec.Site,
			Year:      rec.Year,
			Predicted: predicted[i],
		}
		if !math.IsNaN(rec.Observed) {
			observed := rec.Observed
			delta := predicted[i] - rec.Observed
			entry.Observed = &observed
			entry.Delta = &delta
		}
		report.Predictions[i] = entry
	}

	return writeJSON(w, report)
}

// writeParquetResultsForPredictions exports the predictions as a Parquet file.
func writeParquetResultsForPredictions(model string, ds *schema.Dataset, predicted []float64, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	records := parquet.ConvertPredictions(model, ds, predicted)
	if err := parquet.WritePredictionRecordsParquet(records, cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write prediction records: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Exported %d prediction records to %s\n", len(records), cfg.OutputFile)
	return nil
}
