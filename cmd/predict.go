package cmd

import (
	"github.com/phenolab/phenocal/core"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/spf13/cobra"
)

// predictCmd applies a fixed parameter vector to a dataset.
var predictCmd = &cobra.Command{
	Use:   "predict <dataset>",
	Short: "Predict transition dates with an explicit parameter vector.",
	Long: `Apply one model with fixed parameters to a dataset and report the predicted
transition date for every site-year record.

Useful for:
- Scoring a calibrated model on held-out observations
- Generating run files for the compare subcommands
- Checking how a parameter tweak shifts predicted dates
- Producing dates for records with missing observations

The output lists observed day of year, predicted day of year, and the
delta per record. Records whose forcing requirement is never met within
the driver series are reported as unreached.

Examples:
  # Predict with a calibrated thermal time model
  phenocal predict observations.csv --models TT --params 20,5,150

  # Score a photoperiod-driven fit on held-out data as JSON
  phenocal predict holdout.json --models PTT --params 15,2,300 --output json

  # Write a run file for later comparison
  phenocal predict observations.csv --models TT --params 20,5,150 --output csv --output-file TT.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePredict(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run prediction", err)
		}
	},
}
