// Package plotio renders calibration and comparison results as image files.
// Rendering is a side effect driven by the command layer; library results
// never depend on it, so headless runs stay unaffected.
package plotio

import (
	"fmt"
	"image/color"
	"math"

	"github.com/phenolab/phenocal/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Fixed direction colors shared by the arrow diagram and its legend.
var (
	risingColor  = color.RGBA{R: 204, G: 37, B: 41, A: 255}
	fallingColor = color.RGBA{R: 57, G: 106, B: 177, A: 255}
	neutralGray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Default canvas size used by all plots.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// SaveCalibrationScatter writes an observed-versus-predicted scatter with a
// 1:1 reference line. Records without a measured day are left out.
func SaveCalibrationScatter(result *schema.CalibrationResult, ds *schema.Dataset, outputFile string) error {
	if len(result.Predicted) != ds.Len() {
		return fmt.Errorf("plotio: %d predictions for %d records", len(result.Predicted), ds.Len())
	}

	pts := make(plotter.XYs, 0, ds.Len())
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, rec := range ds.Records {
		if rec.Missing() {
			continue
		}
		pts = append(pts, plotter.XY{X: rec.Observed, Y: result.Predicted[i]})
		lo = math.Min(lo, math.Min(rec.Observed, result.Predicted[i]))
		hi = math.Max(hi, math.Max(rec.Observed, result.Predicted[i]))
	}
	if len(pts) == 0 {
		return fmt.Errorf("plotio: no measured records to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s calibration (%s, RMSE %.1f)", result.Model, result.Method, result.RMSE)
	p.X.Label.Text = "Observed day of year"
	p.Y.Label.Text = "Predicted day of year"

	// 1:1 reference line under the points
	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return fmt.Errorf("plotio: %w", err)
	}
	ref.LineStyle.Color = neutralGray
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ref)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("plotio: %w", err)
	}
	scatter.GlyphStyle.Color = fallingColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add(result.Model, scatter)

	return save(p, outputFile)
}

// SaveArrowDiagram writes per-record shift segments between two models' mean
// predictions. Unchanged records are fully transparent: they are not drawn.
func SaveArrowDiagram(arrows []schema.Arrow, modelA, modelB, outputFile string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Shift %s to %s", modelA, modelB)
	p.X.Label.Text = "Record"
	p.Y.Label.Text = "Predicted day of year"

	drawn := 0
	for _, a := range arrows {
		var c color.RGBA
		switch a.Direction {
		case schema.Rising:
			c = risingColor
		case schema.Falling:
			c = fallingColor
		default:
			continue
		}

		x := float64(a.Index + 1)
		seg, err := plotter.NewLine(plotter.XYs{{X: x, Y: a.From}, {X: x, Y: a.To}})
		if err != nil {
			return fmt.Errorf("plotio: %w", err)
		}
		seg.LineStyle.Color = c
		seg.LineStyle.Width = vg.Points(2)
		p.Add(seg)

		// Mark the destination end so the direction is readable
		tip, err := plotter.NewScatter(plotter.XYs{{X: x, Y: a.To}})
		if err != nil {
			return fmt.Errorf("plotio: %w", err)
		}
		tip.GlyphStyle.Color = c
		tip.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(tip)
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("plotio: no shifted records to plot")
	}

	if err := addDirectionLegend(p); err != nil {
		return err
	}
	return save(p, outputFile)
}

// addDirectionLegend attaches one legend entry per drawn direction.
func addDirectionLegend(p *plot.Plot) error {
	for _, entry := range []struct {
		label string
		color color.RGBA
	}{
		{"later", risingColor},
		{"earlier", fallingColor},
	} {
		line, err := plotter.NewLine(plotter.XYs{})
		if err != nil {
			return fmt.Errorf("plotio: %w", err)
		}
		line.LineStyle.Color = entry.color
		line.LineStyle.Width = vg.Points(2)
		p.Legend.Add(entry.label, line)
	}
	p.Legend.Top = true
	return nil
}

// SaveBoxPlot writes one error distribution box per model with a dashed
// reference line at the null model error.
func SaveBoxPlot(boxes []schema.BoxSummary, nullRMSE float64, outputFile string) error {
	if len(boxes) == 0 {
		return fmt.Errorf("plotio: no models to plot")
	}

	p := plot.New()
	p.Title.Text = "Run error by model"
	p.Y.Label.Text = "RMSE (days)"

	names := make([]string, len(boxes))
	for i, b := range boxes {
		names[i] = b.Model

		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(b.RunRMSE))
		if err != nil {
			return fmt.Errorf("plotio: model %s: %w", b.Model, err)
		}
		box.FillColor = familyColor(b.Model)
		p.Add(box)
	}
	p.NominalX(names...)

	// Null model reference across the full x range
	null, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: nullRMSE},
		{X: float64(len(boxes)) - 0.5, Y: nullRMSE},
	})
	if err != nil {
		return fmt.Errorf("plotio: %w", err)
	}
	null.LineStyle.Color = neutralGray
	null.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(null)
	p.Legend.Add("null model", null)
	p.Legend.Top = true

	return save(p, outputFile)
}

// familyColor groups models by their mechanism through the identifier's
// first letter: thermal, photothermal, chilling-driven, or baseline.
func familyColor(model string) color.Color {
	if model == "" {
		return neutralGray
	}
	switch model[0] {
	case 'T':
		return color.RGBA{R: 62, G: 150, B: 81, A: 255} // thermal greens
	case 'P', 'M':
		return color.RGBA{R: 218, G: 124, B: 48, A: 255} // photothermal oranges
	case 'S', 'A':
		return color.RGBA{R: 107, G: 76, B: 154, A: 255} // chilling purples
	default:
		return neutralGray
	}
}

// save writes the plot at the shared canvas size. The file format follows
// the extension.
func save(p *plot.Plot, outputFile string) error {
	if err := p.Save(plotWidth, plotHeight, outputFile); err != nil {
		return fmt.Errorf("plotio: save %s: %w", outputFile, err)
	}
	return nil
}
