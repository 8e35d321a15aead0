package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/internal/parquet"
	"github.com/phenolab/phenocal/schema"
)

// WriteArrowResults outputs per-record shifts, dispatching based on the output format configured.
func WriteArrowResults(arrows []schema.Arrow, modelA, modelB string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForArrows(w, arrows, modelA, modelB)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForArrows(w, arrows, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetResultsForArrows(arrows, cfg)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeArrowTable(arrows, modelA, modelB, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeArrowTable writes the shifted records in a custom comparison format.
// Records where the two models agree exactly are left out of the table.
func writeArrowTable(arrows []schema.Arrow, modelA, modelB string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// --- 1. Define Headers ---
	headers := []string{"Record", "Measured", modelA, modelB, "Shift"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var red, blue func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		blue = color.New(color.FgBlue).SprintFunc()
	} else {
		red = fmt.Sprint
		blue = fmt.Sprint
	}

	var data [][]string
	rising, falling := 0, 0
	meanShift := 0.0
	for _, a := range arrows {
		delta := a.To - a.From
		meanShift += delta

		var shiftStr string
		switch a.Direction {
		case schema.Rising:
			rising++
			// Explicitly add + sign
			shiftStr = red(fmt.Sprintf("+%.*f ▲", cfg.Precision, delta))
		case schema.Falling:
			falling++
			// Keeps the - sign from the float
			shiftStr = blue(fmt.Sprintf("%.*f ▼", cfg.Precision, delta))
		default:
			// Unchanged records stay out of the rendering
			continue
		}

		row := []string{
			strconv.Itoa(a.Index + 1), // Record
			fmtMeasured(a.Measured, fmtFloat),
			fmtFloat(a.From), // First model mean
			fmtFloat(a.To),   // Second model mean
			shiftStr,
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	unchanged := len(arrows) - rising - falling
	if len(arrows) > 0 {
		meanShift /= float64(len(arrows))
	}
	if _, err := fmt.Fprintf(writer, "Showing %d shifted records of %d (%d rising, %d falling, %d unchanged)\n", rising+falling, len(arrows), rising, falling, unchanged); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Mean shift %s -> %s: %+.*f days\n", modelA, modelB, cfg.Precision, meanShift); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Comparison completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForArrows writes every record, including unchanged ones.
func writeCSVResultsForArrows(w io.Writer, arrows []schema.Arrow, fmtFloat func(float64) string) error {
	header := []string{
		"record",
		"measured",
		"from",
		"to",
		"delta",
		"direction",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, a := range arrows {
			row := []string{
				strconv.Itoa(a.Index + 1),
				fmtMeasured(a.Measured, fmtFloat),
				fmtFloat(a.From),
				fmtFloat(a.To),
				fmtFloat(a.To - a.From),
				string(a.Direction),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForArrows marshals the arrows to JSON with model names attached.
// Missing measured values become null instead of NaN, which JSON cannot carry.
func writeJSONResultsForArrows(w io.Writer, arrows []schema.Arrow, modelA, modelB string) error {
	type JSONArrow struct {
		Index     int              `json:"index"`
		Measured  *float64         `json:"measured"`
		From      float64          `json:"from"`
		To        float64          `json:"to"`
		Delta     float64          `json:"delta"`
		Direction schema.Direction `json:"direction"`
	}
	type JSONArrowReport struct {
		ModelA string      `json:"model_a"`
		ModelB string      `json:"model_b"`
		Arrows []JSONArrow `json:"arrows"`
	}

	report := JSONArrowReport{ModelA: modelA, ModelB: modelB, Arrows: make([]JSONArrow, len(arrows))}
	for i, a := range arrows {
		var measured *float64
		if !math.IsNaN(a.Measured) {
			v := a.Measured
			measured = &v
		}
		report.Arrows[i] = JSONArrow{
			Index:     a.Index,
			Measured:  measured,
			From:      a.From,
			To:        a.To,
			Delta:     a.To - a.From,
			Direction: a.Direction,
		}
	}

	return writeJSON(w, report)
}

// writeParquetResultsForArrows exports the shift records as a Parquet file.
func writeParquetResultsForArrows(arrows []schema.Arrow, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	records := parquet.ConvertArrows(arrows)
	if err := parquet.WriteArrowRecordsParquet(records, cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write arrow records: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Exported %d arrow records to %s\n", len(records), cfg.OutputFile)
	return nil
}
