package cmd

import (
	"github.com/phenolab/phenocal/core"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/spf13/cobra"
)

// calibrateCmd fits models to observations and ranks the results.
var calibrateCmd = &cobra.Command{
	Use:   "calibrate <dataset>",
	Short: "Fit phenology models to observations and rank them by AICc.",
	Long: `Fit each selected model to the observed transition dates and rank the fits.

Every fit reports the calibrated parameters, the RMSE against observations,
the null model RMSE, and the AICc score used for ranking, helping you:
- Pick the candidate an independent dataset would favor
- See whether extra parameters actually buy predictive skill
- Compare optimizer backends on identical data and budgets
- Spot datasets too small to support a model's parameter count

Ranking uses AICc, so parameter-hungry models only win when their error
reduction pays for the extra degrees of freedom.

Examples:
  # Fit the full catalog with simulated annealing
  phenocal calibrate observations.csv

  # Fit two candidates with the evolution backend
  phenocal calibrate observations.csv --models TT,PTT --method evolve

  # Reproducible run with a fixed budget and a local polish pass
  phenocal calibrate observations.csv --seed 42 --iterations 20000 --polish

  # Export the ranking to CSV and save a fit scatter for the winner
  phenocal calibrate observations.csv --output csv --output-file fits.csv --plot-file best.png`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCalibrate(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run calibration", err)
		}
	},
}
