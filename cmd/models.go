package cmd

import (
	"github.com/phenolab/phenocal/core"
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/spf13/cobra"
)

// modelsCmd displays the formal definitions of all catalog models.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Display the model catalog with parameters and default bounds",
	Long: `Show every model in the catalog with its purpose, parameter names, and the
default search ranges used during calibration.

No fitting is performed - this is purely informational.

Use this to:
- Check a model's parameter order before passing --params
- See which drivers each model responds to
- Review the default bounds before overriding them with --ranges
- Document the candidate set for a study

Examples:
  # Show the catalog
  phenocal models

  # Export the catalog as JSON
  phenocal models --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModels(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display models", err)
		}
	},
}
