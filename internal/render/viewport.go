package render

import (
	"math"

	"whichcountry/internal/geom"
)

const (
	// charAspect is the assumed height/width ratio of a terminal cell.
	charAspect = 2.0
	// minSpan is the smallest extent, in degrees, used for padding a target.
	minSpan = 4.0
)

// Viewport maps lon/lat onto a width x height character grid with a flat
// equirectangular projection.
type Viewport struct {
	MinLon    float64
	MaxLat    float64
	LonRange  float64
	LatRange  float64
	LonPerCol float64
	LatPerRow float64
	Width     int
	Height    int
}

// NewViewport frames target with one span of padding on every side, then
// widens one axis so the grid's cell aspect is respected. The frame only
// ever grows to fix the aspect. width and height must be at least 1.
func NewViewport(target geom.BBox, width, height int) Viewport {
	if !target.Valid() {
		target = geom.BBox{}
	}
	lonSpan := math.Max(target.Width(), minSpan)
	latSpan := math.Max(target.Height(), minSpan)

	minLon := math.Max(target.MinLon-lonSpan, -180)
	maxLon := math.Min(target.MaxLon+lonSpan, 180)
	minLat := math.Max(target.MinLat-latSpan, -90)
	maxLat := math.Min(target.MaxLat+latSpan, 90)

	lonRange := maxLon - minLon
	latRange := maxLat - minLat
	w, h := float64(width), float64(height)
	desiredLon := latRange * w / h / charAspect
	desiredLat := lonRange * h / w * charAspect
	if desiredLon > lonRange {
		lonRange = desiredLon
	} else {
		latRange = desiredLat
	}

	centerLon := (minLon + maxLon) / 2
	centerLat := (minLat + maxLat) / 2

	return Viewport{
		MinLon:    math.Max(centerLon-lonRange/2, -180),
		MaxLat:    math.Min(centerLat+latRange/2, 90),
		LonRange:  lonRange,
		LatRange:  latRange,
		LonPerCol: lonRange / w,
		LatPerRow: latRange / h,
		Width:     width,
		Height:    height,
	}
}

// Bounds is the lon/lat rectangle covered by the grid.
func (v Viewport) Bounds() geom.BBox {
	return geom.BBox{
		MinLon: v.MinLon,
		MinLat: v.MaxLat - v.LatRange,
		MaxLon: v.MinLon + v.LonRange,
		MaxLat: v.MaxLat,
	}
}

// Cell maps a coordinate to a grid column and row. Results outside
// [0,Width) x [0,Height) are off-grid but still meaningful for line drawing.
func (v Viewport) Cell(lon, lat float64) (col, row int) {
	return toCell((lon - v.MinLon) / v.LonPerCol), toCell((v.MaxLat - lat) / v.LatPerRow)
}

// toCell truncates toward zero, saturating at the int32 range; NaN maps to 0.
func toCell(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
