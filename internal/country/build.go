// Package country turns decoded features into immutable Country records and
// answers which country contains a coordinate.
package country

import (
	"context"
	"math"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"whichcountry/internal/geom"
)

// UnknownCode is the dataset's placeholder for features without a standard
// ISO code. Such countries take part in lookups but are never labelled.
const UnknownCode = "-99"

// Country is built once at load time and never mutated afterwards.
type Country struct {
	Code     string
	Name     string
	Polygons []geom.Polygon
	BBox     geom.BBox
	Label    [2]float64 // lon, lat
}

// Build converts features to countries, preserving input order. The order
// matters: it breaks ties in lookups and decides draw order when rendering.
func Build(features []geom.Feature) []Country {
	out := make([]Country, len(features))
	for i, f := range features {
		out[i] = buildOne(f)
	}
	return out
}

// BuildContext is Build with the per-feature work spread over up to workers
// goroutines (GOMAXPROCS when workers <= 0). The result is identical to Build.
func BuildContext(ctx context.Context, features []geom.Feature, workers int) ([]Country, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Country, len(features))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range features {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = buildOne(features[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "country: build")
	}
	return out, nil
}

func buildOne(f geom.Feature) Country {
	var polys []geom.Polygon
	if f.Geometry != nil {
		polys = f.Geometry.Polygons()
	}

	bbox := geom.EmptyBBox()
	for _, poly := range polys {
		for _, ring := range poly {
			for _, p := range ring {
				bbox.Extend(p[0], p[1])
			}
		}
	}

	c := Country{
		Code:     f.Code,
		Name:     f.Name,
		Polygons: polys,
		BBox:     bbox,
	}
	if outer, ok := largestOuterRing(polys); ok {
		c.Label = geom.LabelPoint(outer)
	} else {
		lon, lat := bbox.Center()
		c.Label = [2]float64{lon, lat}
	}
	return c
}

// largestOuterRing returns the outer ring with the greatest absolute area
// among polygons whose outer ring has at least 3 points. The first maximal
// ring wins ties.
func largestOuterRing(polys []geom.Polygon) (geom.Ring, bool) {
	var best geom.Ring
	bestArea := -1.0
	for _, poly := range polys {
		if len(poly) == 0 || len(poly[0]) < 3 {
			continue
		}
		if a := math.Abs(geom.RingSignedArea(poly[0])); a > bestArea {
			bestArea = a
			best = poly[0]
		}
	}
	return best, bestArea >= 0
}
