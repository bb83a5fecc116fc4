package geom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"ISO_A2": "-99", "ISO_A2_EH": "FR", "NAME": "France"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]],
          [[[8, 8], [9, 8], [9, 9], [8, 8]]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {"iso_a2": "SM", "name": "San Marino"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [
          [[10, 10], [20, 10], [20, 20], [10, 20]],
          [[14, 14], [16, 14], [16, 16], [14, 16]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {"ISO_A2_EH": "-99", "NAME": "N. Cyprus"},
      "geometry": {"type": "Polygon", "coordinates": [[[1, 1], [2, 1], [2, 2]]]}
    }
  ]
}`

func TestDecodeFeatures(t *testing.T) {
	fs, err := DecodeFeatures([]byte(sampleCollection))
	require.NoError(t, err)
	require.Len(t, fs, 3)

	assert.Equal(t, "FR", fs[0].Code)
	assert.Equal(t, "France", fs[0].Name)
	mp, ok := fs[0].Geometry.(MultiPolygon)
	require.True(t, ok, "want MultiPolygon, got %T", fs[0].Geometry)
	require.Len(t, mp, 2)
	assert.Equal(t, Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}, mp[0][0])

	assert.Equal(t, "SM", fs[1].Code)
	assert.Equal(t, "San Marino", fs[1].Name)
	poly, ok := fs[1].Geometry.(Polygon)
	require.True(t, ok, "want Polygon, got %T", fs[1].Geometry)
	require.Len(t, poly, 2)
	assert.Len(t, poly[1], 4, "open rings are kept as-is")

	assert.Equal(t, "-99", fs[2].Code)
}

func TestDecodeFeatures_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"invalid json", `{"type":`, "decode feature collection"},
		{"no features", `{"type":"FeatureCollection","features":[]}`, "no features"},
		{
			"point geometry",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`,
			"unsupported geometry type",
		},
		{
			"null geometry",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":null}]}`,
			"missing geometry",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFeatures([]byte(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoadFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleCollection), 0o644))

	fs, err := LoadFeatures(path)
	require.NoError(t, err)
	assert.Len(t, fs, 3)

	_, err = LoadFeatures(filepath.Join(t.TempDir(), "missing.geojson"))
	require.Error(t, err)
}
