package outwriter

import (
	"fmt"
	"path/filepath"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/schema"
)

// Run headers print only in text mode so csv/json/parquet streams on stdout
// stay machine readable.

// LogCalibrateHeader prints a concise, 2-line header before calibration starts.
func LogCalibrateHeader(cfg *contract.Config, ds *schema.Dataset, modelCount int) {
	if cfg.Output != schema.TextOut {
		return
	}
	name := dataName(cfg.DataPath)
	if cfg.UseEmojis {
		fmt.Printf("🔎 Dataset: %s (%d records, %d measured)\n", name, ds.Len(), ds.ValidCount())
		fmt.Printf("🧪 Fitting %d models with %s (%d workers)\n", modelCount, cfg.Method, cfg.Workers)
	} else {
		fmt.Printf("Dataset: %s (%d records, %d measured)\n", name, ds.Len(), ds.ValidCount())
		fmt.Printf("Fitting %d models with %s (%d workers)\n", modelCount, cfg.Method, cfg.Workers)
	}
}

// LogPredictHeader prints a header for a single-model prediction run.
func LogPredictHeader(cfg *contract.Config, model string, ds *schema.Dataset) {
	if cfg.Output != schema.TextOut {
		return
	}
	name := dataName(cfg.DataPath)
	if cfg.UseEmojis {
		fmt.Printf("🔎 Dataset: %s (%d records, %d measured)\n", name, ds.Len(), ds.ValidCount())
		fmt.Printf("🌿 Predicting with %s\n", model)
	} else {
		fmt.Printf("Dataset: %s (%d records, %d measured)\n", name, ds.Len(), ds.ValidCount())
		fmt.Printf("Predicting with %s\n", model)
	}
}

// LogArrowHeader prints a header for an arrow comparison.
func LogArrowHeader(cfg *contract.Config, modelA, modelB string, records int) {
	if cfg.Output != schema.TextOut {
		return
	}
	name := dataName(cfg.DataPath)
	if cfg.UseEmojis {
		fmt.Printf("🔎 Runs: %s\n", name)
		fmt.Printf("📊 Comparing: %s → %s (%d records)\n", modelA, modelB, records)
	} else {
		fmt.Printf("Runs: %s\n", name)
		fmt.Printf("Comparing: %s -> %s (%d records)\n", modelA, modelB, records)
	}
}

// LogBoxHeader prints a header for a box comparison.
func LogBoxHeader(cfg *contract.Config, modelCount, records int) {
	if cfg.Output != schema.TextOut {
		return
	}
	name := dataName(cfg.DataPath)
	if cfg.UseEmojis {
		fmt.Printf("🔎 Runs: %s\n", name)
		fmt.Printf("📊 Comparing: %d models across %d records\n", modelCount, records)
	} else {
		fmt.Printf("Runs: %s\n", name)
		fmt.Printf("Comparing: %d models across %d records\n", modelCount, records)
	}
}

// dataName is the short display name of a dataset or run file path.
func dataName(path string) string {
	name := filepath.Base(path)
	if name == "" || name == "." {
		return "current"
	}
	return name
}
