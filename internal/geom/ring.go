package geom

import "sort"

// RingSignedArea returns the shoelace area of a ring, positive for
// counter-clockwise winding. Rings with fewer than 3 points have zero area.
func RingSignedArea(ring Ring) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	area := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		area += (ring[j][0] - ring[i][0]) * (ring[j][1] + ring[i][1])
		j = i
	}
	return area / 2
}

// PointInRing is the even-odd ray cast towards +lon. The edge from the last
// vertex back to the first is always tested.
func PointInRing(lon, lat float64, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > lat) != (yj > lat) && lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PointInPolygon reports whether the point is inside the outer ring and
// outside every hole. Islands inside holes are not supported.
func PointInPolygon(lon, lat float64, poly Polygon) bool {
	if len(poly) == 0 || !PointInRing(lon, lat, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if PointInRing(lon, lat, hole) {
			return false
		}
	}
	return true
}

// HorizontalSpans returns the interior [enter, exit] longitude intervals of
// the ring along the given latitude, sorted west to east.
func HorizontalSpans(lat float64, ring Ring) [][2]float64 {
	n := len(ring)
	if n < 3 {
		return nil
	}
	var xs []float64
	j := n - 1
	for i := 0; i < n; i++ {
		yi, yj := ring[i][1], ring[j][1]
		if (yi > lat) != (yj > lat) {
			xi, xj := ring[i][0], ring[j][0]
			xs = append(xs, (xj-xi)*(lat-yi)/(yj-yi)+xi)
		}
		j = i
	}
	return pairCrossings(xs)
}

// VerticalSpans returns the interior [enter, exit] latitude intervals of the
// ring along the given longitude, sorted south to north.
func VerticalSpans(lon float64, ring Ring) [][2]float64 {
	n := len(ring)
	if n < 3 {
		return nil
	}
	var ys []float64
	j := n - 1
	for i := 0; i < n; i++ {
		xi, xj := ring[i][0], ring[j][0]
		if (xi > lon) != (xj > lon) {
			yi, yj := ring[i][1], ring[j][1]
			ys = append(ys, (yj-yi)*(lon-xi)/(xj-xi)+yi)
		}
		j = i
	}
	return pairCrossings(ys)
}

// pairCrossings sorts crossings and pairs them 1-2, 3-4, ...; a trailing odd
// crossing is dropped.
func pairCrossings(cs []float64) [][2]float64 {
	if len(cs) < 2 {
		return nil
	}
	sort.Float64s(cs)
	spans := make([][2]float64, 0, len(cs)/2)
	for i := 0; i+1 < len(cs); i += 2 {
		spans = append(spans, [2]float64{cs[i], cs[i+1]})
	}
	return spans
}
