package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phenolab/phenocal/schema"
)

// Bound row labels in a ranges CSV.
const (
	boundLower = "lower"
	boundUpper = "upper"
)

// LoadRangeTable reads a bounds table CSV. The header is
// model,bound,p1,...,pN and every model contributes a lower and an upper row.
// Trailing empty cells let narrow models share a wide header.
func LoadRangeTable(path string) (schema.RangeTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return DecodeRangeTableCSV(file)
}

// DecodeRangeTableCSV decodes a bounds table from CSV.
func DecodeRangeTableCSV(r io.Reader) (schema.RangeTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataio: reading ranges header: %w", err)
	}
	if len(header) < 3 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "model") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "bound") {
		return nil, fmt.Errorf("dataio: ranges header must start with model,bound,p1,...")
	}

	lowers := make(map[string][]float64)
	uppers := make(map[string][]float64)
	var order []string

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataio: reading ranges row: %w", err)
		}

		model := strings.TrimSpace(row[0])
		if model == "" {
			return nil, fmt.Errorf("dataio: line %d: empty model name", line)
		}

		values, err := parseBoundCells(row[2:])
		if err != nil {
			return nil, fmt.Errorf("dataio: line %d: %w", line, err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("dataio: line %d: no parameter bounds for %s", line, model)
		}

		switch bound := strings.ToLower(strings.TrimSpace(row[1])); bound {
		case boundLower:
			if _, dup := lowers[model]; dup {
				return nil, fmt.Errorf("dataio: duplicate lower row for %s", model)
			}
			lowers[model] = values
		case boundUpper:
			if _, dup := uppers[model]; dup {
				return nil, fmt.Errorf("dataio: duplicate upper row for %s", model)
			}
			uppers[model] = values
		default:
			return nil, fmt.Errorf("dataio: line %d: bound must be lower or upper, got %q", line, row[1])
		}

		order = appendUnique(order, model)
	}

	table := make(schema.RangeTable, len(order))
	for _, model := range order {
		lower, ok := lowers[model]
		if !ok {
			return nil, fmt.Errorf("dataio: model %s has no lower row", model)
		}
		upper, ok := uppers[model]
		if !ok {
			return nil, fmt.Errorf("dataio: model %s has no upper row", model)
		}
		if len(lower) != len(upper) {
			return nil, fmt.Errorf("dataio: model %s has %d lower bounds but %d upper bounds",
				model, len(lower), len(upper))
		}
		table[model] = schema.BoundsRow{Lower: lower, Upper: upper}
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("dataio: %w", err)
	}
	return table, nil
}

// parseBoundCells parses the numeric tail of a bounds row, trimming trailing
// empty or NA cells.
func parseBoundCells(cells []string) ([]float64, error) {
	end := len(cells)
	for end > 0 && isMissingCell(strings.TrimSpace(cells[end-1])) {
		end--
	}

	values := make([]float64, 0, end)
	for _, cell := range cells[:end] {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("bad bound %q", cell)
		}
		values = append(values, v)
	}
	return values, nil
}

func appendUnique(list []string, item string) []string {
	for _, have := range list {
		if have == item {
			return list
		}
	}
	return append(list, item)
}
