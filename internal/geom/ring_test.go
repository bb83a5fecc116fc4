package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(minX, minY, maxX, maxY float64) Ring {
	return Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}}
}

func reversed(r Ring) Ring {
	out := make(Ring, len(r))
	for i := range r {
		out[len(r)-1-i] = r[i]
	}
	return out
}

func rotated(r Ring, k int) Ring {
	out := make(Ring, 0, len(r))
	out = append(out, r[k:]...)
	return append(out, r[:k]...)
}

// ---------------------------------------------------------------------------
// RingSignedArea
// ---------------------------------------------------------------------------

func TestRingSignedArea_CounterClockwisePositive(t *testing.T) {
	assert.InDelta(t, 100.0, RingSignedArea(square(0, 0, 10, 10)), 1e-9)
}

func TestRingSignedArea_ReversalFlipsSign(t *testing.T) {
	rings := []Ring{
		square(0, 0, 10, 10),
		{{0, 0}, {4, 1}, {6, 5}, {1, 3}},
		{{-3, -1}, {2, -4}, {5, 2}, {0, 6}, {-4, 3}},
	}
	for _, r := range rings {
		a := RingSignedArea(r)
		assert.InDelta(t, -a, RingSignedArea(reversed(r)), 1e-9)
	}
}

func TestRingSignedArea_RotationInvariant(t *testing.T) {
	r := Ring{{-3, -1}, {2, -4}, {5, 2}, {0, 6}, {-4, 3}}
	want := RingSignedArea(r)
	for k := 1; k < len(r); k++ {
		assert.InDelta(t, want, RingSignedArea(rotated(r, k)), 1e-9, "rotation %d", k)
	}
}

func TestRingSignedArea_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, RingSignedArea(nil))
	assert.Equal(t, 0.0, RingSignedArea(Ring{{1, 1}}))
	assert.Equal(t, 0.0, RingSignedArea(Ring{{1, 1}, {2, 2}}))
}

// ---------------------------------------------------------------------------
// PointInRing / PointInPolygon
// ---------------------------------------------------------------------------

func TestPointInRing(t *testing.T) {
	r := square(0, 0, 10, 10)
	tests := []struct {
		name     string
		lon, lat float64
		want     bool
	}{
		{"centre", 5, 5, true},
		{"near corner", 0.1, 9.9, true},
		{"east", 15, 5, false},
		{"west", -1, 5, false},
		{"north", 5, 11, false},
		{"south", 5, -0.5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PointInRing(tc.lon, tc.lat, r))
		})
	}
}

func TestPointInRing_RotationInvariant(t *testing.T) {
	// concave "L" shape
	r := Ring{{0, 0}, {6, 0}, {6, 2}, {2, 2}, {2, 6}, {0, 6}}
	points := [][2]float64{{1, 1}, {5, 1}, {1, 5}, {4, 4}, {7, 1}, {-1, 3}}
	for _, p := range points {
		want := PointInRing(p[0], p[1], r)
		for k := 1; k < len(r); k++ {
			assert.Equal(t, want, PointInRing(p[0], p[1], rotated(r, k)), "point %v rotation %d", p, k)
		}
	}
	assert.True(t, PointInRing(1, 1, r))
	assert.False(t, PointInRing(4, 4, r))
}

func TestPointInRing_ClosedRingSameAsOpen(t *testing.T) {
	open := square(0, 0, 10, 10)
	closed := append(append(Ring{}, open...), open[0])
	for _, p := range [][2]float64{{5, 5}, {11, 5}, {9.9, 0.1}} {
		assert.Equal(t, PointInRing(p[0], p[1], open), PointInRing(p[0], p[1], closed))
	}
}

func TestPointInRing_Degenerate(t *testing.T) {
	assert.False(t, PointInRing(0, 0, nil))
	assert.False(t, PointInRing(0.5, 0.5, Ring{{0, 0}, {1, 1}}))
}

func TestPointInPolygon_Hole(t *testing.T) {
	poly := Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)}

	assert.False(t, PointInPolygon(5, 5, poly), "hole centre")
	assert.True(t, PointInPolygon(2, 2, poly), "between hole and boundary")
	assert.True(t, PointInPolygon(8, 5, poly), "east of hole")
	assert.False(t, PointInPolygon(20, 20, poly), "outside")
}

func TestPointInPolygon_Empty(t *testing.T) {
	assert.False(t, PointInPolygon(0, 0, nil))
	assert.False(t, PointInPolygon(0, 0, Polygon{}))
}

// ---------------------------------------------------------------------------
// Spans
// ---------------------------------------------------------------------------

func TestHorizontalSpans(t *testing.T) {
	assert.Equal(t, [][2]float64{{0, 10}}, HorizontalSpans(5, square(0, 0, 10, 10)))

	// "U" shape: two interior spans at lat 5
	u := Ring{{0, 0}, {9, 0}, {9, 9}, {6, 9}, {6, 3}, {3, 3}, {3, 9}, {0, 9}}
	assert.Equal(t, [][2]float64{{0, 3}, {6, 9}}, HorizontalSpans(5, u))

	assert.Empty(t, HorizontalSpans(20, square(0, 0, 10, 10)))
	assert.Nil(t, HorizontalSpans(0, Ring{{0, 0}, {1, 1}}))
}

func TestVerticalSpans(t *testing.T) {
	assert.Equal(t, [][2]float64{{0, 10}}, VerticalSpans(5, square(0, 0, 10, 10)))
	assert.Empty(t, VerticalSpans(-3, square(0, 0, 10, 10)))
	assert.Nil(t, VerticalSpans(0, nil))
}

// ---------------------------------------------------------------------------
// BBox
// ---------------------------------------------------------------------------

func TestBBox(t *testing.T) {
	b := EmptyBBox()
	assert.False(t, b.Valid())
	assert.False(t, b.Contains(0, 0))

	b.Extend(2, 3)
	b.Extend(-1, 7)
	assert.True(t, b.Valid())
	assert.Equal(t, BBox{MinLon: -1, MinLat: 3, MaxLon: 2, MaxLat: 7}, b)
	assert.True(t, b.Contains(2, 7), "inclusive edge")
	assert.True(t, b.Overlaps(BBox{MinLon: 2, MinLat: 7, MaxLon: 5, MaxLat: 9}), "touching corner")
	assert.False(t, b.Overlaps(BBox{MinLon: 2.1, MinLat: 0, MaxLon: 5, MaxLat: 9}))

	lon, lat := b.Center()
	assert.InDelta(t, 0.5, lon, 1e-12)
	assert.InDelta(t, 5.0, lat, 1e-12)
}

func TestGeometryPolygons(t *testing.T) {
	p := Polygon{square(0, 0, 1, 1)}
	assert.Equal(t, []Polygon{p}, p.Polygons())

	mp := MultiPolygon{p, Polygon{square(2, 2, 3, 3)}}
	assert.Len(t, mp.Polygons(), 2)

	assert.Nil(t, Polygon(nil).Polygons())
}
