package geom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWKT(t *testing.T) {
	g, err := ParseWKT("POLYGON ((0 0, 4 0, 4 4, 0 4, 0 0), (1 1, 2 1, 2 2, 1 1))")
	require.NoError(t, err)
	poly, ok := g.(Polygon)
	require.True(t, ok)
	require.Len(t, poly, 2)
	assert.Equal(t, [2]float64{4, 4}, poly[0][2])

	g, err = ParseWKT(" MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 5, 6 6, 5 5))) ")
	require.NoError(t, err)
	mp, ok := g.(MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
}

func TestParseWKT_Errors(t *testing.T) {
	for _, s := range []string{"", "   ", "POLYGON ((0 0, 1", "POINT (1 2)", "LINESTRING (0 0, 1 1)"} {
		_, err := ParseWKT(s)
		assert.Error(t, err, "%q", s)
	}
}

func TestReadWKTCSV(t *testing.T) {
	in := `code,ISO_A2_EH,name,wkt
XX,FR,France,"MULTIPOLYGON (((-1 43, 7 43, 7 50, -1 50, -1 43)))"
YY,-99,Nowhere,"POLYGON ((0 0, 1 0, 1 1, 0 0))"
ZZ
`
	fs, err := ReadWKTCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "FR", fs[0].Code, "ISO column beats the generic code column")
	assert.Equal(t, "France", fs[0].Name)
	assert.IsType(t, MultiPolygon{}, fs[0].Geometry)
	assert.Equal(t, "-99", fs[1].Code)
}

func TestReadWKTCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "empty csv"},
		{"no geometry column", "code,name\nFR,France\n", "columns not found"},
		{"header only", "code,wkt\n", "no features"},
		{"bad geometry", "code,wkt\nFR,POLYGON ((\n", "line 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadWKTCSV(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
