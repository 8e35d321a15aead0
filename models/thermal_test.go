package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLINPredict(t *testing.T) {
	ds := flatDataset(60, 10, 0)

	got, err := LIN{}.Predict([]float64{100, 2.5}, ds)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 125, got[0], 1e-9) // 100 + 2.5*10
}

func TestTTPredict(t *testing.T) {
	tests := []struct {
		name   string
		params []float64 // t0, T_base, F_crit
		want   float64
	}{
		{"crossing at ten degree days per day", []float64{1, 0, 100}, 10},
		{"later start shifts the crossing", []float64{6, 0, 100}, 15},
		{"base temperature halves the rate", []float64{1, 5, 100}, 20},
		{"zero requirement met on first day", []float64{1, 0, 0}, 1},
		{"unreachable requirement", []float64{1, 0, 1e6}, FarFuture},
	}
	ds := flatDataset(50, 10, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TT{}.Predict(tc.params, ds)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got[0])
		})
	}
}

func TestTTSPredict(t *testing.T) {
	// A steep sigmoid far below the daily temperature saturates at one unit
	// per day, making the crossing day equal the requirement.
	ds := flatDataset(50, 10, 0)

	got, err := TTS{}.Predict([]float64{1, 10, 5, 20}, ds)
	require.NoError(t, err)
	assert.InDelta(t, 20, got[0], 1e-9)
}

func TestTTSSaturatesBelowOne(t *testing.T) {
	// At the midpoint temperature the rate is exactly one half.
	ds := flatDataset(50, 5, 0)

	got, err := TTS{}.Predict([]float64{1, 2, 5, 10}, ds)
	require.NoError(t, err)
	assert.InDelta(t, 20, got[0], 1e-9)
}

func TestTTColdSeriesNeverForces(t *testing.T) {
	ds := flatDataset(50, -10, 0)

	got, err := TT{}.Predict([]float64{1, 0, 1}, ds)
	require.NoError(t, err)
	assert.Equal(t, float64(FarFuture), got[0])
}
