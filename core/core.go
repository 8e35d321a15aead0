// Package core has core logic for calibration, scoring and comparison.
package core

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/internal/dataio"
	"github.com/phenolab/phenocal/internal/outwriter"
	"github.com/phenolab/phenocal/internal/plotio"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
)

// ExecutorFunc defines the function signature for executing different run modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteCalibrate fits the selected models to the dataset and prints results
// ranked best fit first. It serves as the main entry point for the
// 'calibrate' mode.
func ExecuteCalibrate(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	ds, table, err := loadFitInputs(cfg)
	if err != nil {
		return err
	}
	names := cfg.Models
	if len(names) == 0 {
		names = models.Names()
	}
	outwriter.LogCalibrateHeader(cfg, ds, len(names))

	results, err := calibrateAll(ctx, cfg, ds, table, names)
	if err != nil {
		return err
	}
	ranked := RankCalibrations(results)

	if cfg.PlotFile != "" {
		if err := plotio.SaveCalibrationScatter(ranked[0], ds, cfg.PlotFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Scatter for %s saved to %s\n", ranked[0].Model, cfg.PlotFile)
	}

	duration := time.Since(start)
	writer := outwriter.NewOutWriter()
	return writer.WriteCalibrations(ranked, cfg, duration)
}

// ExecutePredict runs one model at an explicit parameter vector over the
// dataset and prints per-record predictions. It serves as the main entry
// point for the 'predict' mode.
func ExecutePredict(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	if len(cfg.Models) != 1 {
		return fmt.Errorf("predict needs exactly one model via --models (got %d)", len(cfg.Models))
	}
	if len(cfg.Params) == 0 {
		return fmt.Errorf("predict needs an explicit parameter vector via --params")
	}
	model, err := models.Get(cfg.Models[0])
	if err != nil {
		return err
	}
	ds, err := dataio.LoadDataset(cfg.DataPath)
	if err != nil {
		return err
	}
	outwriter.LogPredictHeader(cfg, model.Name(), ds)

	predicted, err := model.Predict(cfg.Params, ds)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	writer := outwriter.NewOutWriter()
	return writer.WritePredictions(model.Name(), ds, predicted, cfg, duration)
}

// ExecuteCompareArrows derives the per-record shift view between two models
// from saved run files. It serves as the main entry point for the
// 'compare arrows' mode.
func ExecuteCompareArrows(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	set, err := dataio.LoadComparisonSet(cfg.DataPath)
	if err != nil {
		return err
	}
	first, second, err := SelectModels(set, cfg.ModelA, cfg.ModelB)
	if err != nil {
		return err
	}
	outwriter.LogArrowHeader(cfg, first.Model, second.Model, len(set.Measured))

	arrows, err := BuildArrows(set, first.Model, second.Model)
	if err != nil {
		return err
	}

	if cfg.PlotFile != "" {
		if err := plotio.SaveArrowDiagram(arrows, first.Model, second.Model, cfg.PlotFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Arrow diagram saved to %s\n", cfg.PlotFile)
	}

	duration := time.Since(start)
	writer := outwriter.NewOutWriter()
	return writer.WriteArrows(arrows, first.Model, second.Model, cfg, duration)
}

// ExecuteCompareBox summarizes every model's per-run error distribution from
// saved run files. It serves as the main entry point for the 'compare box'
// mode.
func ExecuteCompareBox(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	set, err := dataio.LoadComparisonSet(cfg.DataPath)
	if err != nil {
		return err
	}
	outwriter.LogBoxHeader(cfg, len(set.Models), len(set.Measured))

	boxes, nullRMSE, err := RunDistributions(set)
	if err != nil {
		return err
	}

	if cfg.PlotFile != "" {
		if err := plotio.SaveBoxPlot(boxes, nullRMSE, cfg.PlotFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Box plot saved to %s\n", cfg.PlotFile)
	}

	duration := time.Since(start)
	writer := outwriter.NewOutWriter()
	return writer.WriteBoxes(boxes, nullRMSE, cfg, duration)
}

// ExecuteModels displays the model catalog with parameter names and default
// bounds. This is a static display that does not touch any dataset.
func ExecuteModels(_ context.Context, cfg *contract.Config) error {
	writer := outwriter.NewOutWriter()
	return writer.WriteCatalog(cfg)
}

// loadFitInputs reads the dataset and resolves the bounds table. User rows
// override the built-in bounds model by model.
func loadFitInputs(cfg *contract.Config) (*schema.Dataset, schema.RangeTable, error) {
	ds, err := dataio.LoadDataset(cfg.DataPath)
	if err != nil {
		return nil, nil, err
	}
	table := models.DefaultRangeTable()
	if cfg.RangesPath != "" {
		custom, err := dataio.LoadRangeTable(cfg.RangesPath)
		if err != nil {
			return nil, nil, err
		}
		for name, row := range custom {
			table[name] = row
		}
	}
	return ds, table, nil
}

// calibrateAll fits every requested model over a worker pool of cfg.Workers
// goroutines. Results come back indexed by request order regardless of finish
// order, and the first failure fails the whole run.
func calibrateAll(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, table schema.RangeTable, names []string) ([]*schema.CalibrationResult, error) {
	type indexed struct {
		pos int
		res *schema.CalibrationResult
		err error
	}
	jobCh := make(chan int, len(names))
	resultCh := make(chan indexed, len(names))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for pos := range jobCh {
				if err := ctx.Err(); err != nil {
					resultCh <- indexed{pos: pos, err: err}
					continue
				}
				res, err := Calibrate(names[pos], ds, table, cfg.Method, cfg.Control)
				resultCh <- indexed{pos: pos, res: res, err: err}
			}
		})
	}

	// Send models to worker channel
	for pos := range names {
		jobCh <- pos
	}
	close(jobCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	results := make([]*schema.CalibrationResult, len(names))
	for r := range resultCh {
		if r.err != nil {
			return nil, r.err
		}
		results[r.pos] = r.res
	}
	return results, nil
}
