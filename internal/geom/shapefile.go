package geom

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadShapefile reads polygon records and their DBF attributes from a
// shapefile such as Natural Earth's admin-0 countries. Null shapes become
// features without geometry; any other non-polygon shape fails the load, as
// does a shapefile without a .dbf or without an ISO code column.
func LoadShapefile(shpPath string) ([]Feature, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "geom: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	if !hasAnyKey(fieldIdx, codeKeys) {
		return nil, eris.New("geom: shapefile has no ISO code attribute")
	}
	attr := func(keys []string) string {
		for _, k := range keys {
			idx, ok := fieldIdx[strings.ToLower(k)]
			if !ok {
				continue
			}
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			if val != "" {
				return val
			}
		}
		return ""
	}

	var out []Feature
	var nulls int
	for reader.Next() {
		n, shape := reader.Shape()
		f := Feature{Code: attr(codeKeys), Name: attr(nameKeys)}
		switch s := shape.(type) {
		case *shp.Polygon:
			f.Geometry = shapePolygons(s)
		case *shp.Null, nil:
			nulls++
		default:
			return nil, eris.Errorf("geom: shapefile record %d: unsupported shape %T", n, shape)
		}
		out = append(out, f)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "geom: read shapefile")
	}

	if nulls > 0 {
		zap.L().Debug("geom: shapefile null records", zap.Int("nulls", nulls))
	}
	if len(out) == 0 {
		return nil, eris.New("geom: no features found")
	}
	return out, nil
}

// hasAnyKey reports whether one of keys names a DBF column. A missing .dbf
// leaves the field list empty.
func hasAnyKey(fieldIdx map[string]int, keys []string) bool {
	for _, k := range keys {
		if _, ok := fieldIdx[strings.ToLower(k)]; ok {
			return true
		}
	}
	return false
}

// shapePolygons splits a shapefile polygon record into parts and groups them:
// a clockwise part starts a new polygon, a counter-clockwise part is a hole
// of the polygon before it.
func shapePolygons(p *shp.Polygon) MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var mp MultiPolygon
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}
		if start < 0 || end > int32(len(p.Points)) || start >= end {
			zap.L().Debug("geom: skipping malformed shapefile part", zap.Int32("part", i))
			continue
		}

		ring := make(Ring, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, [2]float64{p.Points[j].X, p.Points[j].Y})
		}

		if len(mp) == 0 || RingSignedArea(ring) <= 0 {
			mp = append(mp, Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}
	return mp
}
