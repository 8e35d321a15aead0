package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsRowNamed(t *testing.T) {
	row := BoundsRow{Lower: []float64{1, -5, 0}, Upper: []float64{60, 10, 800}}

	ranges, err := row.Named([]string{"t0", "T_base", "F_crit"})
	require.NoError(t, err)
	require.Len(t, ranges, 3)
	assert.Equal(t, ParameterRange{Name: "T_base", Lower: -5, Upper: 10}, ranges[1])

	_, err = row.Named([]string{"t0", "T_base"})
	assert.Error(t, err)
}

func TestBoundsRowNamedRaggedRow(t *testing.T) {
	row := BoundsRow{Lower: []float64{1, 2}, Upper: []float64{3}}
	_, err := row.Named([]string{"a", "b"})
	assert.Error(t, err)
}

func TestRangeTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   RangeTable
		wantErr bool
	}{
		{
			name:    "ordered bounds pass",
			table:   RangeTable{"TT": {Lower: []float64{1, -5, 0}, Upper: []float64{60, 10, 800}}},
			wantErr: false,
		},
		{
			name:    "degenerate interval passes",
			table:   RangeTable{"TT": {Lower: []float64{5, 5}, Upper: []float64{5, 5}}},
			wantErr: false,
		},
		{
			name:    "crossed bounds fail",
			table:   RangeTable{"TT": {Lower: []float64{10}, Upper: []float64{1}}},
			wantErr: true,
		},
		{
			name:    "ragged row fails",
			table:   RangeTable{"TT": {Lower: []float64{1, 2}, Upper: []float64{3}}},
			wantErr: true,
		},
		{
			name:    "empty row fails",
			table:   RangeTable{"TT": {}},
			wantErr: true,
		},
		{
			name:    "nan bound fails",
			table:   RangeTable{"TT": {Lower: []float64{math.NaN()}, Upper: []float64{1}}},
			wantErr: true,
		},
		{
			name:    "infinite bound fails",
			table:   RangeTable{"TT": {Lower: []float64{0}, Upper: []float64{math.Inf(1)}}},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.table.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRangeTableLookup(t *testing.T) {
	table := RangeTable{"TT": {Lower: []float64{1}, Upper: []float64{2}}}

	row, ok := table.Lookup("TT")
	assert.True(t, ok)
	assert.Equal(t, 1, row.Arity())

	_, ok = table.Lookup("nope")
	assert.False(t, ok)
}
