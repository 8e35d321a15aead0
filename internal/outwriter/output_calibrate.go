package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/internal/parquet"
	"github.com/phenolab/phenocal/schema"
)

// WriteCalibrationResults outputs calibration results, dispatching based on the output format configured.
func WriteCalibrationResults(results []*schema.CalibrationResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForCalibrations(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCalibrations(w, results, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetResultsForCalibrations(results, cfg)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCalibrationTable(results, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeCalibrationTable generates and writes the human-readable table.
func writeCalibrationTable(results []*schema.CalibrationResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Model", "Method", "RMSE", "Null", "AICc", "Label", "Evals", "Time"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	label := contract.GetColorLabel
	if !cfg.UseColors {
		label = contract.GetPlainLabel
	}
	var data [][]string
	for _, r := range results {
		row := []string{
			r.Model,
			r.Method,
			fmtFloat(r.RMSE),
			fmtFloat(r.NullRMSE),
			fmtFloat(r.AICc.AICc),
			label(r.RMSE, r.NullRMSE),
			fmt.Sprintf(intFmt, r.Evaluations),
			r.Elapsed.Round(time.Millisecond).String(),
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

	// Optional per-parameter breakdown below the main table
	if cfg.Detail {
		if err := writeParamTable(results, cfg, fmtFloat, writer); err != nil {
			return err
		}
	}

	// Compute summary stats
	totalEvals := 0
	for _, r := range results {
		totalEvals += r.Evaluations
	}
	if _, err := fmt.Fprintf(writer, "Calibrated %d models (%d objective evaluations)\n", len(results), totalEvals); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Calibration completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeParamTable renders the fitted parameter values, one row per parameter.
// Bound columns are dropped on narrow terminals.
func writeParamTable(results []*schema.CalibrationResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	wide := getTableWidth(cfg) >= wideTableMinWidth

	table := tablewriter.NewWriter(writer)
	headers := []string{"Model", "Param", "Value"}
	if wide {
		headers = append(headers, "Lower", "Upper")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range results {
		for _, p := range r.Params {
			row := []string{r.Model, p.Name, fmtFloat(p.Value)}
			if wide {
				row = append(row, fmtFloat(p.Lower), fmtFloat(p.Upper))
			}
			data = append(data, row)
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForCalibrations writes calibration results in CSV format.
func writeCSVResultsForCalibrations(w io.Writer, results []*schema.CalibrationResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"model",
		"method",
		"rmse",
		"null_rmse",
		"aic",
		"aicc",
		"k",
		"n",
		"label",
		"params",
		"evaluations",
		"elapsed_ms",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			rec := []string{
				r.Model,
				r.Method,
				fmtFloat(r.RMSE),
				fmtFloat(r.NullRMSE),
				fmtFloat(r.AICc.AIC),
				fmtFloat(r.AICc.AICc),
				fmt.Sprintf(intFmt, r.AICc.K),
				fmt.Sprintf(intFmt, r.AICc.N),
				contract.GetPlainLabel(r.RMSE, r.NullRMSE),
				formatParams(r.Params, fmtFloat),
				fmt.Sprintf(intFmt, r.Evaluations),
				fmt.Sprintf(intFmt, r.Elapsed.Milliseconds()),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatParams joins fitted parameters as name=value pairs.
func formatParams(params []schema.FittedParam, fmtFloat func(float64) string) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s=%s", p.Name, fmtFloat(p.Value))
	}
	return strings.Join(parts, "|")
}

// writeJSONResultsForCalibrations writes calibration results in JSON format.
func writeJSONResultsForCalibrations(w io.Writer, results []*schema.CalibrationResult) error {
	// 1. Prepare the data structure for JSON with the fit label added
	type JSONCalibrationResult struct {
		Label string `json:"label"`
		*schema.CalibrationResult
	}

	output := make([]JSONCalibrationResult, len(results))
	for i, r := range results {
		output[i] = JSONCalibrationResult{
			Label:             contract.GetPlainLabel(r.RMSE, r.NullRMSE),
			CalibrationResult: r,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// writeParquetResultsForCalibrations exports calibration runs and fitted
// parameters as two Parquet files.
func writeParquetResultsForCalibrations(results []*schema.CalibrationResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	runs := parquet.ConvertCalibrationResults(results)
	if err := parquet.WriteCalibrationRunsParquet(runs, cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write calibration runs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Exported %d calibration runs to %s\n", len(runs), cfg.OutputFile)

	estimates := parquet.ConvertParameterEstimates(results)
	paramsFile := paramsParquetPath(cfg.OutputFile)
	if err := parquet.WriteParameterEstimatesParquet(estimates, paramsFile); err != nil {
		return fmt.Errorf("failed to write parameter estimates: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Exported %d parameter estimates to %s\n", len(estimates), paramsFile)
	return nil
}

// paramsParquetPath derives the companion parameter file path from the main
// output path: results.parquet -> results_params.parquet.
func paramsParquetPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, ".parquet") + "_params.parquet"
}
