package geom

import "math"

// Ring is an ordered list of {lon, lat} vertices. The first vertex is not
// required to be repeated at the end.
type Ring [][2]float64

// Polygon is a list of rings: index 0 is the outer boundary, the rest are holes.
type Polygon []Ring

// MultiPolygon is a list of polygons belonging to one feature.
type MultiPolygon []Polygon

// Geometry is either a Polygon or a MultiPolygon.
type Geometry interface {
	// Polygons normalises the geometry to a list of polygons.
	Polygons() []Polygon
	isGeometry()
}

func (p Polygon) Polygons() []Polygon {
	if p == nil {
		return nil
	}
	return []Polygon{p}
}

func (mp MultiPolygon) Polygons() []Polygon { return mp }

func (Polygon) isGeometry()      {}
func (MultiPolygon) isGeometry() {}

// Feature is one decoded country record.
type Feature struct {
	Code     string
	Name     string
	Geometry Geometry
}

// BBox is an axis-aligned lon/lat rectangle.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// EmptyBBox returns an inverted box that any Extend call will replace.
func EmptyBBox() BBox {
	return BBox{
		MinLon: math.MaxFloat64,
		MinLat: math.MaxFloat64,
		MaxLon: -math.MaxFloat64,
		MaxLat: -math.MaxFloat64,
	}
}

// Extend grows the box to include (lon, lat).
func (b *BBox) Extend(lon, lat float64) {
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
}

// Valid reports whether the box has been extended at least once.
func (b BBox) Valid() bool {
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat
}

// Contains is inclusive on every edge.
func (b BBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// Overlaps reports whether the two boxes share any point; touching edges count.
func (b BBox) Overlaps(o BBox) bool {
	return !(b.MaxLon < o.MinLon || b.MinLon > o.MaxLon || b.MaxLat < o.MinLat || b.MinLat > o.MaxLat)
}

func (b BBox) Center() (lon, lat float64) {
	return (b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2
}

func (b BBox) Width() float64  { return b.MaxLon - b.MinLon }
func (b BBox) Height() float64 { return b.MaxLat - b.MinLat }

// RingBBox returns the bounding box of a single ring.
func RingBBox(ring Ring) BBox {
	b := EmptyBBox()
	for _, p := range ring {
		b.Extend(p[0], p[1])
	}
	return b
}
