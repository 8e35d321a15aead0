package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phenolab/phenocal/internal/contract"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogRenderModel(t *testing.T) {
	renderModel, err := buildCatalogRenderModel()
	require.NoError(t, err)

	require.Len(t, renderModel.Models, len(models.Names()))
	assert.Equal(t, "LIN", renderModel.Models[0].Name)

	for _, entry := range renderModel.Models {
		assert.NotEmpty(t, entry.Purpose, "model %s needs a purpose line", entry.Name)
		assert.Len(t, entry.Bounds, len(entry.Params))
	}
}

func TestWriteTextCatalog(t *testing.T) {
	renderModel, err := buildCatalogRenderModel()
	require.NoError(t, err)

	cfg := &contract.Config{Output: schema.TextOut, UseEmojis: true}

	var buf bytes.Buffer
	require.NoError(t, writeTextCatalog(&buf, renderModel, cfg))

	output := buf.String()
	assert.Contains(t, output, "🌱 Phenology Model Catalog")
	assert.Contains(t, output, "TT: Thermal time")
	assert.Contains(t, output, "Params: t0, T_base, F_crit")
	assert.Contains(t, output, "Bounds: ")
	assert.Contains(t, output, "predict day 9999")
}

func TestWriteTextCatalogWithoutEmojis(t *testing.T) {
	renderModel, err := buildCatalogRenderModel()
	require.NoError(t, err)

	cfg := &contract.Config{Output: schema.TextOut, UseEmojis: false}

	var buf bytes.Buffer
	require.NoError(t, writeTextCatalog(&buf, renderModel, cfg))

	assert.NotContains(t, buf.String(), "🌱")
	assert.Contains(t, buf.String(), "Phenology Model Catalog")
}

func TestWriteCSVCatalog(t *testing.T) {
	renderModel, err := buildCatalogRenderModel()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCSVCatalog(&buf, renderModel))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(models.Names())+1)

	assert.Equal(t, "model,purpose,params,bounds", lines[0])
	assert.Contains(t, lines[1], "LIN")
	assert.Contains(t, buf.String(), "t0|T_base|F_crit")
}

func TestWriteModelCatalogJSONToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "catalog.json")
	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: outputFile,
	}

	require.NoError(t, WriteModelCatalog(cfg))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var parsed struct {
		Title  string `json:"title"`
		Models []struct {
			Name   string   `json:"name"`
			Params []string `json:"params"`
			Bounds []struct {
				Name  string  `json:"name"`
				Lower float64 `json:"lower"`
				Upper float64 `json:"upper"`
			} `json:"bounds"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "Phenology Model Catalog", parsed.Title)
	require.Len(t, parsed.Models, len(models.Names()))
	for _, m := range parsed.Models {
		require.Len(t, m.Bounds, len(m.Params))
		for _, b := range m.Bounds {
			assert.LessOrEqual(t, b.Lower, b.Upper)
		}
	}
}

func TestWriteModelCatalogRejectsParquet(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}

	err := WriteModelCatalog(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet")
}

func TestFormatBounds(t *testing.T) {
	bounds := []schema.ParameterRange{
		{Name: "t0", Lower: 1, Upper: 150},
		{Name: "T_base", Lower: -5, Upper: 10},
	}
	assert.Equal(t, "t0 [1..150], T_base [-5..10]", formatBounds(bounds))
}
