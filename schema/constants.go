package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Direction represents the sign of a record's shift between two models.
	Direction string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All shift directions supported.
const (
	Rising    Direction = "rising"    // Second model predicts a later date
	Falling   Direction = "falling"   // Second model predicts an earlier date
	Unchanged Direction = "unchanged" // Identical predictions, omitted from rendering
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// Classify returns the direction of a from-to shift between two predictions.
func Classify(from, to float64) Direction {
	switch {
	case to > from:
		return Rising
	case to < from:
		return Falling
	default:
		return Unchanged
	}
}
