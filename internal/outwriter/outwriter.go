// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCalibrations prints calibration results using the configured output format.
func (ow *OutWriter) WriteCalibrations(results []*schema.CalibrationResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCalibrationResults(results, cfg, duration)
}

// WriteArrows prints per-record shifts between two models using the configured output format.
func (ow *OutWriter) WriteArrows(arrows []schema.Arrow, modelA, modelB string, cfg *contract.Config, duration time.Duration) error {
	return WriteArrowResults(arrows, modelA, modelB, cfg, duration)
}

// WriteBoxes prints per-model error distributions using the configured output format.
func (ow *OutWriter) WriteBoxes(boxes []schema.BoxSummary, nullRMSE float64, cfg *contract.Config, duration time.Duration) error {
	return WriteBoxResults(boxes, nullRMSE, cfg, duration)
}

// WritePredictions prints per-record model predictions using the configured output format.
func (ow *OutWriter) WritePredictions(model string, ds *schema.Dataset, predicted []float64, cfg *contract.Config, duration time.Duration) error {
	return WritePredictionResults(model, ds, predicted, cfg, duration)
}

// WriteCatalog prints the model catalog using the configured output format.
func (ow *OutWriter) WriteCatalog(cfg *contract.Config) error {
	return WriteModelCatalog(cfg)
}
