package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"whichcountry/internal/geom"
)

func TestNewViewport_SquareTarget(t *testing.T) {
	vp := NewViewport(geom.BBox{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}, 60, 30)
	assert.InDelta(t, -10.0, vp.MinLon, 1e-12)
	assert.InDelta(t, 20.0, vp.MaxLat, 1e-12)
	assert.InDelta(t, 30.0, vp.LonRange, 1e-12)
	assert.InDelta(t, 30.0, vp.LatRange, 1e-12)
	assert.InDelta(t, 0.5, vp.LonPerCol, 1e-12)
	assert.InDelta(t, 1.0, vp.LatPerRow, 1e-12)

	col, row := vp.Cell(5, 5)
	assert.Equal(t, 30, col)
	assert.Equal(t, 15, row)
}

func TestNewViewport_SmallTargetPadsMinimumSpan(t *testing.T) {
	// a 1x1 degree island still gets 4 degrees of padding on each side
	vp := NewViewport(geom.BBox{MinLon: 12, MinLat: 43, MaxLon: 13, MaxLat: 44}, 80, 24)
	b := vp.Bounds()
	assert.LessOrEqual(t, b.MinLon, 8.0+1e-9)
	assert.GreaterOrEqual(t, b.MaxLon, 17.0-1e-9)
	assert.LessOrEqual(t, b.MinLat, 39.0+1e-9)
	assert.GreaterOrEqual(t, b.MaxLat, 48.0-1e-9)
}

func TestNewViewport_AspectCorrection(t *testing.T) {
	boxes := []geom.BBox{
		{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10},
		{MinLon: -5, MinLat: 40, MaxLon: 40, MaxLat: 45},  // wide
		{MinLon: 10, MinLat: -30, MaxLon: 12, MaxLat: 30}, // tall
	}
	sizes := [][2]int{{80, 24}, {40, 40}, {10, 60}, {1, 1}}
	for _, b := range boxes {
		for _, sz := range sizes {
			vp := NewViewport(b, sz[0], sz[1])
			assert.InDelta(t, 2*vp.LonPerCol, vp.LatPerRow, 1e-9, "bbox %+v size %v", b, sz)
			assert.Equal(t, sz[0], vp.Width)
			assert.Equal(t, sz[1], vp.Height)

			// padded target is never cropped by the aspect fix
			vb := vp.Bounds()
			assert.LessOrEqual(t, vb.MinLon, b.MinLon)
			assert.GreaterOrEqual(t, vb.MaxLon, b.MaxLon)
			assert.LessOrEqual(t, vb.MinLat, b.MinLat)
			assert.GreaterOrEqual(t, vb.MaxLat, b.MaxLat)
		}
	}
}

func TestNewViewport_ClampsToWorld(t *testing.T) {
	vp := NewViewport(geom.BBox{MinLon: -179, MinLat: 80, MaxLon: -170, MaxLat: 89}, 80, 24)
	assert.GreaterOrEqual(t, vp.MinLon, -180.0)
	assert.LessOrEqual(t, vp.MaxLat, 90.0)
}

func TestNewViewport_InvalidTarget(t *testing.T) {
	vp := NewViewport(geom.EmptyBBox(), 20, 10)
	assert.False(t, math.IsNaN(vp.MinLon))
	assert.False(t, math.IsInf(vp.LonRange, 0))
	assert.True(t, vp.Bounds().Contains(0, 0))
}

func TestViewport_CellTruncatesTowardZero(t *testing.T) {
	vp := Viewport{MinLon: 0, MaxLat: 10, LonRange: 10, LatRange: 10, LonPerCol: 1, LatPerRow: 1, Width: 10, Height: 10}

	col, row := vp.Cell(2.9, 7.1)
	assert.Equal(t, 2, col)
	assert.Equal(t, 2, row)

	col, row = vp.Cell(-0.5, 10.5)
	assert.Equal(t, 0, col, "-0.5 truncates to 0, not -1")
	assert.Equal(t, 0, row)

	col, row = vp.Cell(-1.5, 11.5)
	assert.Equal(t, -1, col)
	assert.Equal(t, -1, row)

	col, row = vp.Cell(math.NaN(), 1e300)
	assert.Equal(t, 0, col)
	assert.Equal(t, math.MinInt32, row)
}
