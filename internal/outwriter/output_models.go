package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
)

// modelPurposes maps catalog identifiers to one-line descriptions for display.
var modelPurposes = map[string]string{
	"LIN": "Linear regression on mean pre-season temperature",
	"TT":  "Thermal time - degree days above a base accumulate to a critical sum",
	"TTs": "Sigmoid thermal time - smooth temperature response instead of a hard base",
	"PTT": "Photothermal time - degree days weighted by relative day length",
	"M1":  "Photoperiod-modulated thermal time with an exponent on day length",
	"SQ":  "Sequential - chilling requirement must complete before forcing starts",
	"AT":  "Alternating - forcing requirement relaxes as chill days accumulate",
}

// catalogEntry is one model of the render model handed to the format writers.
type catalogEntry struct {
	Name    string                  `json:"name"`
	Purpose string                  `json:"purpose"`
	Params  []string                `json:"params"`
	Bounds  []schema.ParameterRange `json:"bounds"`
}

// catalogRenderModel is the complete catalog with display metadata.
type catalogRenderModel struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Models      []catalogEntry `json:"models"`
}

// WriteModelCatalog displays the model catalog with parameter names and
// default search bounds. This is a static display that needs no dataset.
func WriteModelCatalog(cfg *contract.Config) error {
	renderModel, err := buildCatalogRenderModel()
	if err != nil {
		return err
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCatalog(w, renderModel)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the model catalog")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextCatalog(w, renderModel, cfg)
		}, "Wrote text")
	}
}

// buildCatalogRenderModel zips the registry with its default bounds.
func buildCatalogRenderModel() (*catalogRenderModel, error) {
	table := models.DefaultRangeTable()

	entries := make([]catalogEntry, 0, len(models.All()))
	for _, m := range models.All() {
		row, ok := table.Lookup(m.Name())
		if !ok {
			return nil, fmt.Errorf("model %s has no default bounds", m.Name())
		}
		bounds, err := row.Named(m.ParamNames())
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name(), err)
		}
		entries = append(entries, catalogEntry{
			Name:    m.Name(),
			Purpose: modelPurposes[m.Name()],
			Params:  m.ParamNames(),
			Bounds:  bounds,
		})
	}

	return &catalogRenderModel{
		Title:       "Phenology Model Catalog",
		Description: "All models map daily driver series to one transition day per site-year",
		Models:      entries,
	}, nil
}

// writeTextCatalog displays the catalog in human-readable text format.
func writeTextCatalog(w io.Writer, renderModel *catalogRenderModel, cfg *contract.Config) error {
	title := renderModel.Title
	if cfg.UseEmojis {
		title = "🌱 " + title
	}
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", strings.Repeat("=", len(renderModel.Title)+3)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", renderModel.Description); err != nil {
		return err
	}

	for _, entry := range renderModel.Models {
		if _, err := fmt.Fprintf(w, "%s: %s\n", entry.Name, entry.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Params: %s\n", strings.Join(entry.Params, ", ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Bounds: %s\n", formatBounds(entry.Bounds)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Records whose requirement never completes predict day %d\n", models.FarFuture); err != nil {
		return err
	}
	return nil
}

// writeCSVCatalog displays the catalog in CSV format.
func writeCSVCatalog(w io.Writer, renderModel *catalogRenderModel) error {
	header := []string{"model", "purpose", "params", "bounds"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, entry := range renderModel.Models {
			record := []string{
				entry.Name,
				entry.Purpose,
				strings.Join(entry.Params, "|"),
				formatBounds(entry.Bounds),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatBounds renders named intervals as "t0 [1..150], T_base [0..10]".
func formatBounds(bounds []schema.ParameterRange) string {
	parts := make([]string, len(bounds))
	for i, b := range bounds {
		parts[i] = fmt.Sprintf("%s [%g..%g]", b.Name, b.Lower, b.Upper)
	}
	return strings.Join(parts, ", ")
}
