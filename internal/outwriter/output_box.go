package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/internal/parquet"
	"github.com/phenolab/phenocal/schema"
)

// WriteBoxResults outputs per-model error distributions, dispatching based on the output format configured.
func WriteBoxResults(boxes []schema.BoxSummary, nullRMSE float64, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForBoxes(w, boxes, nullRMSE)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForBoxes(w, boxes, nullRMSE, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetResultsForBoxes(boxes, cfg)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBoxTable(boxes, nullRMSE, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeBoxTable generates and writes the human-readable distribution table.
func writeBoxTable(boxes []schema.BoxSummary, nullRMSE float64, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Model", "Runs", "Median", "Q1", "Q3", "Low", "High", "Label"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	label := contract.GetColorLabel
	if !cfg.UseColors {
		label = contract.GetPlainLabel
	}
	var data [][]string
	for _, b := range boxes {
		row := []string{
			b.Model,
			fmt.Sprintf(intFmt, len(b.RunRMSE)),
			fmtFloat(b.Median),
			fmtFloat(b.Q1),
			fmtFloat(b.Q3),
			fmtFloat(b.WhiskerLow),
			fmtFloat(b.WhiskerHigh),
			label(b.Median, nullRMSE),
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
	if _, err := fmt.Fprintf(writer, "Null model RMSE: %s (constant mean of the measured values)\n", fmtFloat(nullRMSE)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Comparison completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForBoxes writes one row per model with the shared null error repeated.
func writeCSVResultsForBoxes(w io.Writer, boxes []schema.BoxSummary, nullRMSE float64, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"model",
		"runs",
		"median",
		"q1",
		"q3",
		"whisker_low",
		"whisker_high",
		"null_rmse",
		"label",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range boxes {
			row := []string{
				b.Model,
				fmt.Sprintf(intFmt, len(b.RunRMSE)),
				fmtFloat(b.Median),
				fmtFloat(b.Q1),
				fmtFloat(b.Q3),
				fmtFloat(b.WhiskerLow),
				fmtFloat(b.WhiskerHigh),
				fmtFloat(nullRMSE),
				contract.GetPlainLabel(b.Median, nullRMSE),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForBoxes marshals the box summaries with the shared null error.
func writeJSONResultsForBoxes(w io.Writer, boxes []schema.BoxSummary, nullRMSE float64) error {
	// 1. Prepare the data structure for JSON with the fit label added
	type JSONBoxSummary struct {
		Label string `json:"label"`
		schema.BoxSummary
	}
	type JSONBoxReport struct {
		NullRMSE float64          `json:"null_rmse"`
		Models   []JSONBoxSummary `json:"models"`
	}

	report := JSONBoxReport{NullRMSE: nullRMSE, Models: make([]JSONBoxSummary, len(boxes))}
	for i, b := range boxes {
		report.Models[i] = JSONBoxSummary{
			Label:      contract.GetPlainLabel(b.Median, nullRMSE),
			BoxSummary: b,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, report)
}

// writeParquetResultsForBoxes exports the per-run error scores as a Parquet file.
func writeParquetResultsForBoxes(boxes []schema.BoxSummary, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	scores := parquet.ConvertRunScores(boxes)
	if err := parquet.WriteRunScoresParquet(scores, cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write run scores: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Exported %d run scores to %s\n", len(scores), cfg.OutputFile)
	return nil
}
