package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenolab/phenocal/core/optim"
	"github.com/phenolab/phenocal/models"
	"github.com/phenolab/phenocal/schema"
)

// syntheticThermal builds records with flat temperature profiles so a thermal
// time model crosses on a different day each year, then labels the records
// with the model's own predictions at truth. The best reachable RMSE is zero.
func syntheticThermal(t *testing.T, records int) (*schema.Dataset, []float64) {
	t.Helper()
	truth := []float64{20, 2, 180}
	ds := &schema.Dataset{}
	for r := 0; r < records; r++ {
		temp := 6 + 0.5*float64(r)
		drv := schema.Drivers{}
		for d := 1; d <= 150; d++ {
			drv.Doy = append(drv.Doy, float64(d))
			drv.TMean = append(drv.TMean, temp)
		}
		ds.Records = append(ds.Records, schema.Observation{
			Site:    "meadow",
			Year:    2000 + r,
			Drivers: drv,
		})
	}
	model, err := models.Get("TT")
	require.NoError(t, err)
	pred, err := model.Predict(truth, ds)
	require.NoError(t, err)
	for i := range ds.Records {
		ds.Records[i].Observed = pred[i]
	}
	return ds, truth
}

func calibControl(method optim.Method) optim.Control {
	ctrl := optim.Control{Seed: 7}
	switch method {
	case optim.MethodAnneal:
		ctrl.MaxIterations = 500
	case optim.MethodEvolve:
		ctrl.MaxEvaluations = 500
	case optim.MethodBayes:
		ctrl.Samples = 200
		ctrl.BurnIn = 50
	}
	return ctrl
}

func TestCalibrateFieldsAndBounds(t *testing.T) {
	ds, _ := syntheticThermal(t, 8)
	table := models.DefaultRangeTable()

	for _, method := range optim.AllMethods {
		t.Run(string(method), func(t *testing.T) {
			res, err := Calibrate("TT", ds, table, method, calibControl(method))
			require.NoError(t, err)

			assert.Equal(t, "TT", res.Model)
			assert.Equal(t, string(method), res.Method)
			assert.Positive(t, res.Evaluations)
			assert.GreaterOrEqual(t, res.RMSE, 0.0)
			assert.Positive(t, res.NullRMSE)
			assert.Len(t, res.Predicted, ds.Len())
			assert.Equal(t, 3, res.AICc.K)
			assert.Equal(t, 8, res.AICc.N)
			assert.GreaterOrEqual(t, res.AICc.AICc, res.AICc.AIC)

			require.Len(t, res.Params, 3)
			row := table["TT"]
			for i, p := range res.Params {
				assert.Equal(t, row.Lower[i], p.Lower)
				assert.Equal(t, row.Upper[i], p.Upper)
				assert.GreaterOrEqual(t, p.Value, p.Lower, "param %s", p.Name)
				assert.LessOrEqual(t, p.Value, p.Upper, "param %s", p.Name)
			}
		})
	}
}

func TestCalibrateBeatsNullModel(t *testing.T) {
	ds, _ := syntheticThermal(t, 8)
	table := models.DefaultRangeTable()

	ctrl := optim.Control{Seed: 3} // default annealing budget
	res, err := Calibrate("TT", ds, table, optim.MethodAnneal, ctrl)
	require.NoError(t, err)

	assert.Less(t, res.RMSE, res.NullRMSE)
	assert.Positive(t, res.Skill())
}

func TestCalibrateDegenerateBoundsMatchDirectEvaluation(t *testing.T) {
	ds, truth := syntheticThermal(t, 8)
	table := schema.RangeTable{
		"TT": {Lower: truth, Upper: truth},
	}

	model, err := models.Get("TT")
	require.NoError(t, err)
	direct, err := Objective(model, ds)(truth)
	require.NoError(t, err)

	for _, method := range optim.AllMethods {
		t.Run(string(method), func(t *testing.T) {
			res, err := Calibrate("TT", ds, table, method, calibControl(method))
			require.NoError(t, err)

			assert.Equal(t, truth, res.ParamValues())
			assert.Equal(t, direct, res.RMSE)
			assert.Zero(t, res.RMSE, "truth labels the data, so the pinned fit is exact")
		})
	}
}

func TestCalibrateModelMissingFromTable(t *testing.T) {
	ds, _ := syntheticThermal(t, 8)
	table := schema.RangeTable{
		"LIN": {Lower: []float64{-100, -20}, Upper: []float64{300, 20}},
	}

	_, err := Calibrate("TT", ds, table, optim.MethodAnneal, optim.Control{Seed: 1})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestCalibrateUnknownModelFailsBeforeEvaluating(t *testing.T) {
	ds, _ := syntheticThermal(t, 8)

	_, err := Calibrate("bogus", ds, models.DefaultRangeTable(), optim.MethodAnneal, optim.Control{Seed: 1})
	assert.ErrorIs(t, err, models.ErrUnknownModel)
}

func TestCalibrateRejectsBadMethodAndArity(t *testing.T) {
	ds, _ := syntheticThermal(t, 8)

	_, err := Calibrate("TT", ds, models.DefaultRangeTable(), optim.Method("gradient"), optim.Control{})
	assert.ErrorIs(t, err, optim.ErrUnknownMethod)

	table := schema.RangeTable{
		"TT": {Lower: []float64{1, -5}, Upper: []float64{120, 15}}, // one bound short
	}
	_, err = Calibrate("TT", ds, table, optim.MethodAnneal, optim.Control{Seed: 1})
	assert.Error(t, err)
}

func TestCalibrateNeedsEnoughRecords(t *testing.T) {
	ds, _ := syntheticThermal(t, 4) // TT has k=3, so n must be at least 5

	_, err := Calibrate("TT", ds, models.DefaultRangeTable(), optim.MethodAnneal, optim.Control{Seed: 1})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalibrateSeedReproducible(t *testing.T) {
	ds, _ := syntheticThermal(t, 8)
	ctrl := optim.Control{MaxIterations: 400, Seed: 11}

	first, err := Calibrate("TT", ds, models.DefaultRangeTable(), optim.MethodAnneal, ctrl)
	require.NoError(t, err)
	second, err := Calibrate("TT", ds, models.DefaultRangeTable(), optim.MethodAnneal, ctrl)
	require.NoError(t, err)

	assert.Equal(t, first.ParamValues(), second.ParamValues())
	assert.Equal(t, first.RMSE, second.RMSE)
	assert.Equal(t, first.Evaluations, second.Evaluations)
}
