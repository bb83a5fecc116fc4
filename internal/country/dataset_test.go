package country

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whichcountry/internal/geom"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(context.Background(), []geom.Feature{
		{Code: "IT", Name: "Italy", Geometry: geom.Polygon{sq(0, 0, 10, 10), sq(4, 4, 6, 6)}},
		{Code: "SM", Name: "San Marino", Geometry: geom.Polygon{sq(4, 4, 6, 6)}},
		{Code: "FR", Name: "France", Geometry: geom.MultiPolygon{{sq(-10, 0, 0, 10)}, {sq(20, 20, 21, 21)}}},
		{Code: "-99", Name: "Nowhere", Geometry: geom.Polygon{sq(8, 8, 12, 12)}},
		{Code: "PT", Name: "Point", Geometry: geom.Polygon{{{30, 30}, {30, 30}, {30, 30}}}},
		{Code: "NO", Name: "Empty", Geometry: nil},
		{Code: "FR", Name: "Duplicate", Geometry: geom.Polygon{sq(50, 50, 51, 51)}},
	}, 2)
	require.NoError(t, err)
	return d
}

func TestDataset_Lookup(t *testing.T) {
	d := testDataset(t)

	i, ok := d.Lookup("sm")
	require.True(t, ok)
	assert.Equal(t, "San Marino", d.At(i).Name)

	i, ok = d.Lookup(" fr ")
	require.True(t, ok)
	assert.Equal(t, 2, i, "first occurrence wins")

	_, ok = d.Lookup("US")
	assert.False(t, ok)

	assert.Equal(t, 7, d.Len())
	assert.Len(t, d.Countries(), 7)
}

func TestDataset_LocateMatchesFindCountry(t *testing.T) {
	d := testDataset(t)
	for lon := -14.0; lon <= 34; lon += 0.35 {
		for lat := -3.0; lat <= 34; lat += 0.35 {
			wantIdx, wantOK := FindCountry(lon, lat, d.Countries())
			gotIdx, gotOK := d.Locate(lon, lat)
			require.Equal(t, wantOK, gotOK, "(%v, %v)", lon, lat)
			require.Equal(t, wantIdx, gotIdx, "(%v, %v)", lon, lat)
		}
	}
}

func TestDataset_LocateEdges(t *testing.T) {
	d := testDataset(t)

	i, ok := d.Locate(5, 5)
	require.True(t, ok)
	assert.Equal(t, "SM", d.At(i).Code)

	i, ok = d.Locate(-5, 5)
	require.True(t, ok)
	assert.Equal(t, "FR", d.At(i).Code)

	// exactly on a bbox edge: inclusive bbox test, ray cast decides
	wantIdx, wantOK := FindCountry(10, 2, d.Countries())
	gotIdx, gotOK := d.Locate(10, 2)
	assert.Equal(t, wantOK, gotOK)
	assert.Equal(t, wantIdx, gotIdx)

	_, ok = d.Locate(-60, -40)
	assert.False(t, ok)
}

func TestDataset_OverlappingMatchesLinearScan(t *testing.T) {
	d := testDataset(t)
	boxes := []geom.BBox{
		{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1},
		{MinLon: 10, MinLat: 10, MaxLon: 20, MaxLat: 20}, // touches IT and FR's island corner
		{MinLon: 29, MinLat: 29, MaxLon: 31, MaxLat: 31},
		{MinLon: 30, MinLat: 30, MaxLon: 30, MaxLat: 30},
		{MinLon: -180, MinLat: -90, MaxLon: 180, MaxLat: 90},
		{MinLon: 100, MinLat: 0, MaxLon: 110, MaxLat: 5},
	}
	for _, b := range boxes {
		var want []int
		for i, c := range d.Countries() {
			if c.BBox.Overlaps(b) {
				want = append(want, i)
			}
		}
		assert.Equal(t, want, d.Overlapping(b), "bbox %+v", b)
	}
}

func TestDataset_OverlappingInvalidBox(t *testing.T) {
	d := testDataset(t)
	assert.Empty(t, d.Overlapping(geom.EmptyBBox()))
}
