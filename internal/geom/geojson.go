package geom

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Property keys tried in order. Natural Earth uses the upper-case forms;
// ISO_A2_EH fills in codes that ISO_A2 leaves as -99 (France, Norway, ...).
var (
	codeKeys = []string{"ISO_A2_EH", "iso_a2_eh", "ISO_A2", "iso_a2"}
	nameKeys = []string{"NAME", "name", "NAME_EN", "name_en", "ADMIN"}
)

// LoadFeatures reads a GeoJSON FeatureCollection of country polygons from disk.
func LoadFeatures(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "geom: open geojson")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "geom: read geojson")
	}
	return DecodeFeatures(data)
}

// DecodeFeatures decodes a FeatureCollection whose features carry Polygon or
// MultiPolygon geometries. Feature order is preserved. Any other geometry
// type fails the whole decode.
func DecodeFeatures(data []byte) ([]Feature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geom: decode feature collection")
	}
	if len(fc.Features) == 0 {
		return nil, eris.New("geom: no features found")
	}

	out := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil {
			return nil, eris.Errorf("geom: feature %d is null", i)
		}
		g, err := convertGeometry(f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "geom: feature %d", i)
		}
		out = append(out, Feature{
			Code:     stringProperty(f.Properties, codeKeys),
			Name:     stringProperty(f.Properties, nameKeys),
			Geometry: g,
		})
	}
	zap.L().Debug("geom: decoded features", zap.Int("count", len(out)))
	return out, nil
}

func convertGeometry(t gogeom.T) (Geometry, error) {
	switch g := t.(type) {
	case *gogeom.Polygon:
		return polygonFromCoords(g.Coords()), nil
	case *gogeom.MultiPolygon:
		coords := g.Coords()
		mp := make(MultiPolygon, len(coords))
		for i, p := range coords {
			mp[i] = polygonFromCoords(p)
		}
		return mp, nil
	case nil:
		return nil, eris.New("missing geometry")
	default:
		return nil, eris.Errorf("unsupported geometry type %T", t)
	}
}

func polygonFromCoords(rings [][]gogeom.Coord) Polygon {
	poly := make(Polygon, len(rings))
	for i, ring := range rings {
		r := make(Ring, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			r = append(r, [2]float64{c[0], c[1]})
		}
		poly[i] = r
	}
	return poly
}

func stringProperty(props map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
