package core

import (
	"github.com/phenolab/phenocal/core/optim"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
)

// Objective builds the calibration cost for one model over a dataset: the
// RMSE between model predictions and measured transition dates, records
// without a usable measurement excluded. The closure is deterministic, never
// mutates the dataset, and reports model evaluation failures as errors so
// the optimizer stops instead of wandering a broken surface.
func Objective(model models.Model, ds *schema.Dataset) optim.Objective {
	measured := ds.Observed()
	return func(params []float64) (float64, error) {
		predicted, err := model.Predict(params, ds)
		if err != nil {
			return 0, err
		}
		return RMSE(predicted, measured)
	}
}
