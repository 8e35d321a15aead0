// Package cmd defines the command-line interface for phenocal.
package cmd

import (
	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the compare subcommands to the parent compare command
	compareCmd.AddCommand(compareArrowsCmd)
	compareCmd.AddCommand(compareBoxCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored fit labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-parameter rows for each fitted model")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in run headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("method", contract.DefaultMethod, "Optimizer backend: anneal or evolve or bayes")
	rootCmd.PersistentFlags().StringP("models", "m", "", "Comma-separated list of models to work on (empty = full catalog)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("plot-file", "", "Optional figure path; extension picks the format (.png, .svg, .pdf)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("ranges", "", "CSV table of parameter bounds overriding the built-in ranges")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Random seed for reproducible searches (0 = draw from entropy)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of models to calibrate concurrently")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of calibrateCmd to Viper
	calibrateCmd.Flags().Int("burn-in", 0, "Bayes: samples discarded before the posterior window (0 = method default)")
	calibrateCmd.Flags().Int("evaluations", 0, "Evolve: objective evaluation budget (0 = method default)")
	calibrateCmd.Flags().Int("iterations", 0, "Anneal/evolve: search iterations (0 = method default)")
	calibrateCmd.Flags().Float64("noise-sd", 0, "Bayes: observation noise scale in days (0 = method default)")
	calibrateCmd.Flags().Bool("polish", false, "Refine the best point with a local pattern search afterwards")
	calibrateCmd.Flags().Int("population", 0, "Evolve: population size per generation (0 = method default)")
	calibrateCmd.Flags().Int("samples", 0, "Bayes: posterior samples to keep (0 = method default)")
	calibrateCmd.Flags().Float64("step-scale", 0, "Anneal/bayes: proposal step as a fraction of each range (0 = method default)")
	if err := viper.BindPFlags(calibrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding calibrate flags", err)
	}

	// Bind all persistent flags of compareCmd to Viper
	compareCmd.PersistentFlags().String("model-a", "", "First model of the comparison (empty = first run file)")
	compareCmd.PersistentFlags().String("model-b", "", "Second model of the comparison (empty = second run file)")
	if err := viper.BindPFlags(compareCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of predictCmd to Viper
	predictCmd.Flags().String("params", "", "Comma-separated parameter vector in the model's parameter order")
	if err := viper.BindPFlags(predictCmd.Flags()); err != nil {
		contract.LogFatal("Error binding predict flags", err)
	}
}
