package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDataset() *Dataset {
	return &Dataset{Records: []Observation{
		{Site: "alpine", Year: 2016, Observed: 121},
		{Site: "alpine", Year: 2017, Observed: math.NaN()},
		{Site: "boreal", Year: 2016, Observed: 134},
		{Site: "alpine", Year: 2018, Observed: 117},
	}}
}

func TestDatasetObserved(t *testing.T) {
	ds := testDataset()
	got := ds.Observed()
	assert.Len(t, got, 4)
	assert.Equal(t, 121.0, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 134.0, got[2])
}

func TestDatasetObservedValid(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, []float64{121, 134, 117}, ds.ObservedValid())
	assert.Equal(t, 3, ds.ValidCount())
	assert.Equal(t, 4, ds.Len())
}

func TestDatasetObservedMean(t *testing.T) {
	mean, err := testDataset().ObservedMean()
	assert.NoError(t, err)
	assert.Equal(t, 124.0, mean)
}

func TestDatasetObservedMeanAllMissing(t *testing.T) {
	ds := &Dataset{Records: []Observation{{Observed: math.NaN()}}}
	_, err := ds.ObservedMean()
	assert.Error(t, err)
}

func TestDatasetSites(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, []string{"alpine", "boreal"}, ds.Sites())
}

func TestObservationMissing(t *testing.T) {
	assert.True(t, Observation{Observed: math.NaN()}.Missing())
	assert.False(t, Observation{Observed: 0}.Missing())
	assert.False(t, Observation{Observed: 152}.Missing())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		from float64
		to   float64
		want Direction
	}{
		{"later date rises", 110, 120, Rising},
		{"earlier date falls", 120, 110, Falling},
		{"identical is unchanged", 115, 115, Unchanged},
		{"tiny shift still rises", 115, 115.0001, Rising},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.from, tc.to))
		})
	}
}
