package geom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := `Name, Latitude, Longitude
Paris, 48.85, 2.35
broken, abc, 1
Madrid, 40.4, -3.7
short
`
	pts, bbox, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 2)

	assert.Equal(t, CSVPoint{Line: 2, Label: "Paris", Lon: 2.35, Lat: 48.85}, pts[0])
	assert.Equal(t, CSVPoint{Line: 4, Label: "Madrid", Lon: -3.7, Lat: 40.4}, pts[1])
	assert.Equal(t, BBox{MinLon: -3.7, MinLat: 40.4, MaxLon: 2.35, MaxLat: 48.85}, bbox)
}

func TestReadCSV_ShortAliases(t *testing.T) {
	pts, _, err := ReadCSV(strings.NewReader("x,y\n10,20\n"))
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, 10.0, pts[0].Lon)
	assert.Equal(t, 20.0, pts[0].Lat)
	assert.Empty(t, pts[0].Label)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty", "", "empty csv"},
		{"no columns", "a,b\n1,2\n", "columns not found"},
		{"no valid rows", "lat,lon\nx,y\n", "no valid points"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadCSV(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
