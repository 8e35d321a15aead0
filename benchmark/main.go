// Package main provides a performance benchmarking tool for the phenocal CLI.
// It measures calibration times across optimizer backends and search budgets,
// running each combination multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - phenocal binary installed and available in PATH
//
// Datasets are generated in process, so no external data is needed.
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated datasets and the results CSV (default: system temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/phenolab/phenocal/internal/dataio"
	"github.com/phenolab/phenocal/internal/synth"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Model    string
	Method   string
	Budget   int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Runs       int
	Seed       uint64
	Methods    []string
	Budgets    []int
	Models     []string
	TrueParams map[string][]float64
}

func main() {
	// Parse command line arguments
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.TempDir()
	if len(os.Args) == 2 {
		workDir = os.Args[1]
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 2 * time.Minute,
		Runs:    4,
		Seed:    17,
		Methods: []string{"anneal", "evolve", "bayes"},
		Budgets: []int{2000, 20000},
		Models:  []string{"TT", "PTT"},
		TrueParams: map[string][]float64{
			"TT":  {20, 5, 150},
			"PTT": {20, 5, 80},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(config, results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the phenocal binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if phenocal is available
	if _, err := exec.LookPath("phenocal"); err != nil {
		return fmt.Errorf("phenocal binary not found in PATH")
	}

	// Check if the work directory exists
	if _, err := os.Stat(config.WorkDir); os.IsNotExist(err) {
		return fmt.Errorf("work directory not found at %s", config.WorkDir)
	}

	return nil
}

// generateDatasets writes one synthetic dataset per benchmarked model and
// returns the path of each, keyed by model name.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	datasets := make(map[string]string)

	for _, model := range config.Models {
		cfg := synth.DefaultConfig()
		cfg.Model = model
		cfg.TrueParams = config.TrueParams[model]
		cfg.Seed = config.Seed

		ds, err := synth.New(cfg).Generate()
		if err != nil {
			return nil, fmt.Errorf("generating %s dataset: %w", model, err)
		}

		path := filepath.Join(config.WorkDir, fmt.Sprintf("phenocal_bench_%s.json", model))
		if err := dataio.SaveDataset(path, ds); err != nil {
			return nil, fmt.Errorf("saving %s dataset: %w", model, err)
		}
		fmt.Printf("Generated %s dataset at %s (%d records)\n", model, path, ds.Len())
		datasets[model] = path
	}

	return datasets, nil
}

// runBenchmarks executes all benchmark tests across configured methods and budgets
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d models, %d methods, %d budgets, %v timeout, %d runs each\n",
		len(config.Models), len(config.Methods), len(config.Budgets), config.Timeout, config.Runs)

	for _, model := range config.Models {
		fmt.Printf("Benchmarking %s\n", model)

		for _, method := range config.Methods {
			for _, budget := range config.Budgets {
				result := runBenchmarkSuite(config, model, datasets[model], method, budget)
				results = append(results, result)
			}
		}
	}

	return results
}

// runBenchmarkSuite runs the timed calibrations for one model, method and budget combination
func runBenchmarkSuite(config BenchmarkConfig, model, dataset, method string, budget int) BenchmarkResult {
	fmt.Printf("Running %s calibration on %s (budget %d, %d runs)\n", method, model, budget, config.Runs)

	coldTime, warmTimes := runBenchmark(config, model, dataset, method, budget)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Model:    model,
		Method:   method,
		Budget:   budget,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// budgetFlags maps each optimizer method to the flag that carries its budget.
var budgetFlags = map[string]string{
	"anneal": "--iterations",
	"evolve": "--evaluations",
	"bayes":  "--samples",
}

// runBenchmark executes a phenocal calibration multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, model, dataset, method string, budget int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"calibrate", dataset,
		"--models", model,
		"--method", method,
		budgetFlags[method], strconv.Itoa(budget),
		"--seed", strconv.FormatUint(config.Seed, 10),
		"--workers", "1",
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("phenocal", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)

	return strings.Contains(outputStr, "Calibration completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(config BenchmarkConfig, results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(config.WorkDir, fmt.Sprintf("phenocal_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"model", "method", "budget", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		record := []string{result.Model, result.Method, strconv.Itoa(result.Budget), result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printMethodSummary(results, "anneal", "Simulated Annealing:")
	printMethodSummary(results, "evolve", "CMA Evolution:")
	printMethodSummary(results, "bayes", "Bayesian Sampling:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printMethodSummary displays results for a specific optimizer method
func printMethodSummary(results []BenchmarkResult, method, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Method == method {
			fmt.Printf("  %-4s budget %-6d: Cold: %s, Warm: %s\n", result.Model, result.Budget, result.ColdTime, result.WarmTime)
		}
	}
}
