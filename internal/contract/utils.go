package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Fit label constants.
const (
	ExcellentValue = "Excellent" // Well under half the null error
	GoodValue      = "Good"      // Clearly better than the null model
	FairValue      = "Fair"      // Barely better than the null model
	PoorValue      = "Poor"      // No better than predicting the mean
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // excellentColor marks a strong fit.
	GoodColor      = color.New(color.FgCyan)              // goodColor marks a usable fit.
	FairColor      = color.New(color.FgYellow)            // fairColor marks a marginal fit.
	PoorColor      = color.New(color.FgRed, color.Bold)   // poorColor marks a fit worth discarding.
)

// GetPlainLabel returns a plain text label grading a calibration by its error
// relative to the null model. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(rmse, nullRMSE float64) string {
	if nullRMSE <= 0 {
		return PoorValue
	}
	switch ratio := rmse / nullRMSE; {
	case ratio <= 0.5:
		return ExcellentValue
	case ratio <= 0.75:
		return GoodValue
	case ratio < 1:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(rmse, nullRMSE float64) string {
	text := GetPlainLabel(rmse, nullRMSE)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
