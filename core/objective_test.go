package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenolab/phenocal/models"
)

func TestObjectiveIsDeterministic(t *testing.T) {
	ds, truth := syntheticThermal(t, 6)
	model, err := models.Get("TT")
	require.NoError(t, err)

	obj := Objective(model, ds)
	first, err := obj(truth)
	require.NoError(t, err)
	second, err := obj(truth)
	require.NoError(t, err)

	assert.Zero(t, first, "truth generated the labels")
	assert.Equal(t, first, second)
}

func TestObjectivePropagatesModelErrors(t *testing.T) {
	ds, _ := syntheticThermal(t, 6)
	model, err := models.Get("TT")
	require.NoError(t, err)

	_, err = Objective(model, ds)([]float64{1, 2})
	assert.ErrorIs(t, err, models.ErrParamCount)
}

func TestObjectivePenalizesMissedTransitions(t *testing.T) {
	ds, truth := syntheticThermal(t, 6)
	model, err := models.Get("TT")
	require.NoError(t, err)
	obj := Objective(model, ds)

	at, err := obj(truth)
	require.NoError(t, err)

	// An unreachable forcing requirement predicts the far-future sentinel
	// everywhere, which costs thousands of days of error.
	missed, err := obj([]float64{truth[0], truth[1], 1e9})
	require.NoError(t, err)
	assert.Greater(t, missed, at+1000)
}
