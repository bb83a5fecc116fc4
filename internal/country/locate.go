package country

import "whichcountry/internal/geom"

// nudgeOffsets are tried smallest first when the exact point misses every
// country, e.g. a coastal city just outside a low-resolution outline.
var nudgeOffsets = []float64{0.25, 0.5, 1.0}

// nudgeDirections is the fixed order of unit deltas (lon, lat) tried at each
// offset. The first hit wins; this is not a nearest-country search.
var nudgeDirections = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// PointInCountry reports whether any of the country's polygons contains the
// point. Points outside the bbox are rejected without touching a ring.
func PointInCountry(lon, lat float64, c *Country) bool {
	if !c.BBox.Contains(lon, lat) {
		return false
	}
	for _, poly := range c.Polygons {
		if geom.PointInPolygon(lon, lat, poly) {
			return true
		}
	}
	return false
}

// FindCountry returns the index of the first country containing the point,
// falling back to nudging it by fixed offsets. ok is false when every
// nudged point misses.
func FindCountry(lon, lat float64, countries []Country) (idx int, ok bool) {
	return nudge(lon, lat, func(lon, lat float64) int {
		for i := range countries {
			if PointInCountry(lon, lat, &countries[i]) {
				return i
			}
		}
		return -1
	})
}

// nudge runs the exact query then the offset fallback with the given
// first-match function, which returns -1 on a miss.
func nudge(lon, lat float64, first func(lon, lat float64) int) (int, bool) {
	if i := first(lon, lat); i >= 0 {
		return i, true
	}
	for _, off := range nudgeOffsets {
		for _, d := range nudgeDirections {
			if i := first(lon+d[0]*off, lat+d[1]*off); i >= 0 {
				return i, true
			}
		}
	}
	return -1, false
}
