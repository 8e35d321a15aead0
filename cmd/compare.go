package cmd

import (
	"github.com/phenolab/phenocal/core"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd focused on cross-model comparisons of saved runs.
var compareCmd = &cobra.Command{
	Use:   "compare [runs-dir]",
	Short: "Compare saved model runs against shared observations.",
	Long: `Compare saved model runs record by record to see how the candidates differ.

Ideal for:
- Model selection reviews - see where two candidates disagree
- Calibration follow-ups - check whether a refit moved predictions
- Dataset audits - find records every model struggles with
- Reporting - produce arrow and box summaries for a writeup

Available comparison types:
  compare arrows - Per-record prediction shifts between two models
  compare box    - Error distributions for every model in the set

Run files are CSVs named after their model, holding a measured column
and one or more run columns, as written by 'phenocal predict'. All files
in the directory must share the same measured series.`,
}

// runCompare executes the given comparison and reports failures.
func runCompare(executeFunc core.ExecutorFunc) {
	if err := executeFunc(rootCtx, cfg); err != nil {
		contract.LogFatal("Cannot run comparison", err)
	}
}

// compareArrowsCmd looks at per-record shifts between two models.
var compareArrowsCmd = &cobra.Command{
	Use:   "arrows [runs-dir]",
	Short: "Show per-record prediction shifts between two models",
	Long: `Compare two models record by record, drawing each prediction pair as an
arrow from the first model's date to the second's.

Each record reports both predicted dates, the shift in days, and whether
the second model moved toward or away from the observation, making it
ideal for:
- Spotting which site-years drive an overall skill difference
- Checking that a refit moved predictions the right way
- Finding records where the two models flatly disagree

Without --model-a and --model-b the first two run files in the directory
are compared in name order.

Examples:
  # Compare the first two run files in the current directory
  phenocal compare arrows

  # Compare two named models from a runs directory
  phenocal compare arrows runs/ --model-a TT --model-b PTT

  # Save the arrow diagram next to the table
  phenocal compare arrows runs/ --plot-file arrows.svg`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runCompare(core.ExecuteCompareArrows)
	},
}

// compareBoxCmd looks at error distributions across the whole set.
var compareBoxCmd = &cobra.Command{
	Use:   "box [runs-dir]",
	Short: "Show error distributions for every model in the set",
	Long: `Summarize each model's errors against the shared observations as a
five-number distribution, the numbers behind a box plot.

Provides a whole-set view of fit quality, ideal for:
- Ranking many candidates at once without refitting
- Seeing whether a model's wins come from a few lucky records
- Checking error symmetry before trusting an RMSE comparison

Each model reports minimum, quartiles, median, maximum, and the RMSE
alongside the shared null model baseline.

Examples:
  # Summarize every run file in the current directory
  phenocal compare box

  # Summarize a runs directory and save the box plot
  phenocal compare box runs/ --plot-file box.png

  # Export the distribution table as JSON
  phenocal compare box runs/ --output json --output-file box.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runCompare(core.ExecuteCompareBox)
	},
}
