package geom

import "math"

// labelSteps is the number of latitude bands the label scan divides a ring
// into; the 23 interior band edges are sampled.
const labelSteps = 24

// LabelPoint finds an anchor for text inside the ring. Each sampled latitude
// is cut into horizontal interior spans; a span's midpoint scores
// min(half width, half height), where the half height is the distance to the
// nearer edge of the vertical span through that midpoint, capped at the half
// width. The best scoring midpoint wins; if nothing scores above zero the
// ring's bbox centre is returned.
func LabelPoint(ring Ring) [2]float64 {
	b := RingBBox(ring)
	cx, cy := b.Center()
	best := [2]float64{cx, cy}
	bestScore := 0.0

	for row := 1; row < labelSteps; row++ {
		lat := b.MinLat + (b.MaxLat-b.MinLat)*float64(row)/labelSteps
		for _, h := range HorizontalSpans(lat, ring) {
			mid := (h[0] + h[1]) / 2
			halfW := (h[1] - h[0]) / 2

			for _, v := range VerticalSpans(mid, ring) {
				if lat < v[0] || lat > v[1] {
					continue
				}
				halfH := math.Min(math.Min(lat-v[0], v[1]-lat), halfW)
				if score := math.Min(halfW, halfH); score > bestScore {
					bestScore = score
					best = [2]float64{mid, lat}
				}
				break
			}
		}
	}
	return best
}
