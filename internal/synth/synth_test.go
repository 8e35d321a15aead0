package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenolab/phenocal/models"
)

func TestGenerateShape(t *testing.T) {
	cfg := DefaultConfig()
	ds, err := New(cfg).Generate()
	require.NoError(t, err)

	require.Equal(t, cfg.Sites*cfg.Years, ds.Len())
	first := ds.Records[0]
	assert.Equal(t, "site_01", first.Site)
	assert.Equal(t, cfg.StartYear, first.Year)
	assert.Len(t, first.Drivers.Doy, cfg.Days)
	assert.Len(t, first.Drivers.TMean, cfg.Days)
	assert.Len(t, first.Drivers.Photoperiod, cfg.Days)
	assert.Equal(t, 1.0, first.Drivers.Doy[0])

	last := ds.Records[ds.Len()-1]
	assert.Equal(t, "site_04", last.Site)
	assert.Equal(t, cfg.StartYear+cfg.Years-1, last.Year)

	for _, hours := range first.Drivers.Photoperiod {
		assert.Greater(t, hours, 8.0)
		assert.Less(t, hours, 16.5)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, err := New(cfg).Generate()
	require.NoError(t, err)
	b, err := New(cfg).Generate()
	require.NoError(t, err)

	require.Equal(t, a.Len(), a.ValidCount())
	assert.Equal(t, a, b)
}

func TestGenerateSeedsDiffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	a, err := New(cfg).Generate()
	require.NoError(t, err)

	cfg.Seed = 2
	b, err := New(cfg).Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a.Records[0].Drivers.TMean, b.Records[0].Drivers.TMean)
}

func TestGenerateObservedPlausible(t *testing.T) {
	ds, err := New(DefaultConfig()).Generate()
	require.NoError(t, err)

	require.Equal(t, ds.Len(), ds.ValidCount())
	for _, rec := range ds.Records {
		assert.Greater(t, rec.Observed, 60.0)
		assert.Less(t, rec.Observed, 200.0)
	}
}

func TestGenerateMissingRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 1
	ds, err := New(cfg).Generate()
	require.NoError(t, err)

	assert.Zero(t, ds.ValidCount())
	for _, rec := range ds.Records {
		assert.True(t, rec.Missing())
	}
}

func TestGenerateUnknownModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "nope"
	_, err := New(cfg).Generate()
	assert.ErrorIs(t, err, models.ErrUnknownModel)
}

func TestGenerateArityMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrueParams = []float64{20}
	_, err := New(cfg).Generate()
	assert.ErrorIs(t, err, models.ErrParamCount)
}

func TestSeasonalTemp(t *testing.T) {
	g := New(DefaultConfig())
	assert.InDelta(t, g.config.TempMin, g.seasonalTemp(coldestDoy), 1e-12)
	assert.InDelta(t, g.config.TempMax, g.seasonalTemp(coldestDoy+182.5), 1e-12)
}

func TestDayLength(t *testing.T) {
	t.Run("equinox", func(t *testing.T) {
		assert.InDelta(t, 12.2, DayLength(48, 80), 0.3)
	})
	t.Run("solstices", func(t *testing.T) {
		assert.Greater(t, DayLength(48, 172), 15.0)
		assert.Less(t, DayLength(48, 355), 9.0)
	})
	t.Run("equator", func(t *testing.T) {
		for _, doy := range []float64{1, 100, 200, 300} {
			assert.InDelta(t, 12.1, DayLength(0, doy), 0.3)
		}
	})
	t.Run("polar", func(t *testing.T) {
		assert.Equal(t, 24.0, DayLength(80, 172))
		assert.Equal(t, 0.0, DayLength(80, 355))
	})
}
