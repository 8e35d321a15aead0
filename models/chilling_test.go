package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenolab/phenocal/schema"
)

// rampDataset builds one record with days 1..len(temps) and the given
// temperature per day.
func rampDataset(temps []float64) *schema.Dataset {
	doy := make([]float64, len(temps))
	for i := range doy {
		doy[i] = float64(i + 1)
	}
	return &schema.Dataset{Records: []schema.Observation{{
		Site:     "test",
		Year:     2020,
		Observed: 120,
		Drivers:  schema.Drivers{Doy: doy, TMean: temps},
	}}}
}

// coldThenWarm yields cold days at tCold followed by warm days at tWarm.
func coldThenWarm(cold, warm int, tCold, tWarm float64) []float64 {
	temps := make([]float64, 0, cold+warm)
	for i := 0; i < cold; i++ {
		temps = append(temps, tCold)
	}
	for i := 0; i < warm; i++ {
		temps = append(temps, tWarm)
	}
	return temps
}

func TestSQPredict(t *testing.T) {
	// Ten chill days bank the requirement, then ten degree days per day.
	ds := rampDataset(coldThenWarm(10, 40, 0, 10))

	got, err := SQ{}.Predict([]float64{1, 0, 5, 10, 100}, ds)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got[0])
}

func TestSQWithoutChillNeverForces(t *testing.T) {
	// Warmth alone cannot start the forcing phase.
	ds := flatDataset(50, 10, 0)

	got, err := SQ{}.Predict([]float64{1, 0, 5, 10, 100}, ds)
	require.NoError(t, err)
	assert.Equal(t, float64(FarFuture), got[0])
}

func TestSQZeroChillRequirementMatchesTT(t *testing.T) {
	ds := flatDataset(50, 10, 0)

	got, err := SQ{}.Predict([]float64{1, 0, 5, 0, 100}, ds)
	require.NoError(t, err)

	ref, err := TT{}.Predict([]float64{1, 0, 100}, ds)
	require.NoError(t, err)
	assert.Equal(t, ref[0], got[0])
}

func TestATPredict(t *testing.T) {
	// No chill days: the requirement stays at a+b.
	ds := flatDataset(50, 10, 0)

	got, err := AT{}.Predict([]float64{1, 0, 50, 50, -1}, ds)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got[0])
}

func TestATChillLowersRequirement(t *testing.T) {
	// Five chill days shrink the requirement to about 50.3, reached after
	// six warm days instead of ten.
	ds := rampDataset(coldThenWarm(5, 45, -5, 10))

	got, err := AT{}.Predict([]float64{1, 0, 50, 50, -1}, ds)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got[0])
}

func TestATUnreachableRequirement(t *testing.T) {
	ds := flatDataset(50, 10, 0)

	got, err := AT{}.Predict([]float64{1, 0, 1e6, 0, 0}, ds)
	require.NoError(t, err)
	assert.Equal(t, float64(FarFuture), got[0])
}
