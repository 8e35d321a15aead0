// Package contract holds the validated runtime configuration and shared
// helpers that the command layer hands to the execution layer.
package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/phenolab/phenocal/core/optim"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxPrecision     = 3
	DefaultMethod    = string(optim.MethodAnneal)
)

// DefaultWorkers is the default number of concurrent calibrations to run.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ValidPlotExtensions lists the image formats the plot writer can save.
var ValidPlotExtensions = map[string]struct{}{
	".png": {},
	".svg": {},
	".pdf": {},
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a phenocal run.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath   string   // Dataset file (.json or .csv)
	RangesPath string   // Optional bounds table CSV; empty uses built-in ranges
	Models     []string // Models to work on; empty means the full catalog

	Method  optim.Method // Optimizer backend
	Control optim.Control

	ModelA string // First model of a comparison
	ModelB string // Second model of a comparison

	Params []float64 // Explicit parameter vector for predict runs

	Workers    int
	Output     schema.OutputMode
	OutputFile string
	PlotFile   string // Optional figure target; extension picks the format
	Precision  int
	Detail     bool // Show per-parameter rows in table output
	Width      int  // Terminal width override (0 = auto-detect)

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Ranges     string `mapstructure:"ranges"`
	Models     string `mapstructure:"models"`
	Method     string `mapstructure:"method"`
	Seed       uint64 `mapstructure:"seed"`
	Workers    int    `mapstructure:"workers"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	PlotFile   string `mapstructure:"plot-file"`
	Precision  int    `mapstructure:"precision"`
	Detail     bool   `mapstructure:"detail"`
	Width      int    `mapstructure:"width"`
	Emoji      string `mapstructure:"emoji"`
	Color      string `mapstructure:"color"`

	// --- Fields from calibrateCmd.Flags() ---
	Iterations  int     `mapstructure:"iterations"`
	Evaluations int     `mapstructure:"evaluations"`
	Population  int     `mapstructure:"population"`
	Samples     int     `mapstructure:"samples"`
	BurnIn      int     `mapstructure:"burn-in"`
	StepScale   float64 `mapstructure:"step-scale"`
	NoiseSD     float64 `mapstructure:"noise-sd"`
	Polish      bool    `mapstructure:"polish"`

	// --- Fields from compareCmd.PersistentFlags() ---
	ModelA string `mapstructure:"model-a"`
	ModelB string `mapstructure:"model-b"`

	// --- Fields from predictCmd.Flags() ---
	Params string `mapstructure:"params"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processModelSelection(cfg, input); err != nil {
		return err
	}
	if err := processOptimizer(cfg, input); err != nil {
		return err
	}
	if err := processParams(cfg, input); err != nil {
		return err
	}
	if err := resolveDataPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.RangesPath = input.Ranges
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.ModelA = strings.TrimSpace(input.ModelA)
	cfg.ModelB = strings.TrimSpace(input.ModelB)

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.Width = input.Width

	// --- 3. Plot Target Validation ---
	cfg.PlotFile = strings.TrimSpace(input.PlotFile)
	if cfg.PlotFile != "" {
		ext := strings.ToLower(filepath.Ext(cfg.PlotFile))
		if _, ok := ValidPlotExtensions[ext]; !ok {
			return fmt.Errorf("invalid plot file extension '%s'. must be .png, .svg, .pdf", ext)
		}
	}

	return nil
}

// processModelSelection parses the comma separated model list and checks every
// name against the catalog.
func processModelSelection(cfg *Config, input *ConfigRawInput) error {
	cfg.Models = nil
	if strings.TrimSpace(input.Models) == "" {
		return nil
	}

	known := make(map[string]struct{})
	for _, name := range models.Names() {
		known[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(input.Models, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown model '%s'. must be one of %s", name, strings.Join(models.Names(), ", "))
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("model '%s' listed twice", name)
		}
		seen[name] = struct{}{}
		cfg.Models = append(cfg.Models, name)
	}

	if len(cfg.Models) == 0 {
		return fmt.Errorf("--models must name at least one model")
	}
	return nil
}

// processOptimizer validates the method choice and assembles the search budget.
func processOptimizer(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Method Validation ---
	cfg.Method = optim.Method(strings.ToLower(input.Method))
	if _, ok := optim.ValidMethods[cfg.Method]; !ok {
		return fmt.Errorf("invalid method '%s'. must be anneal, evolve, bayes", input.Method)
	}

	// --- 2. Budget Validation ---
	// Zero means "use the method default", so only negatives are rejected.
	for _, check := range []struct {
		name  string
		value int
	}{
		{"iterations", input.Iterations},
		{"evaluations", input.Evaluations},
		{"population", input.Population},
		{"samples", input.Samples},
		{"burn-in", input.BurnIn},
	} {
		if check.value < 0 {
			return fmt.Errorf("%s cannot be negative (received %d)", check.name, check.value)
		}
	}
	if input.StepScale < 0 || input.StepScale > 1 {
		return fmt.Errorf("step-scale must be within [0, 1] (received %g)", input.StepScale)
	}
	if input.NoiseSD < 0 {
		return fmt.Errorf("noise-sd cannot be negative (received %g)", input.NoiseSD)
	}

	cfg.Control = optim.Control{
		MaxIterations:  input.Iterations,
		MaxEvaluations: input.Evaluations,
		PopulationSize: input.Population,
		Samples:        input.Samples,
		BurnIn:         input.BurnIn,
		StepScale:      input.StepScale,
		NoiseSD:        input.NoiseSD,
		Seed:           input.Seed,
		Polish:         input.Polish,
	}
	return nil
}

// processParams parses the comma separated parameter vector a predict run
// applies, in the model's parameter order.
func processParams(cfg *Config, input *ConfigRawInput) error {
	cfg.Params = nil
	if strings.TrimSpace(input.Params) == "" {
		return nil
	}
	for part := range strings.SplitSeq(input.Params, ",") {
		cell := strings.TrimSpace(part)
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("invalid --params value '%s'. must be comma separated numbers", cell)
		}
		cfg.Params = append(cfg.Params, v)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveDataPath resolves the dataset argument to an absolute path and makes
// sure both it and the optional ranges table exist.
func resolveDataPath(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.DataPathStr) == "" {
		return fmt.Errorf("a dataset path is required")
	}

	absPath, err := filepath.Abs(input.DataPathStr)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	// Comparison commands accept a directory of run files, so directories
	// pass through untouched.
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("cannot read dataset: %w", err)
	}
	cfg.DataPath = absPath

	if cfg.RangesPath != "" {
		if _, err := os.Stat(cfg.RangesPath); err != nil {
			return fmt.Errorf("cannot read ranges table: %w", err)
		}
	}
	return nil
}
