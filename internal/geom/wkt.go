package geom

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkt"
	"go.uber.org/zap"
)

// ParseWKT parses a POLYGON or MULTIPOLYGON in well-known text.
func ParseWKT(s string) (Geometry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, eris.New("geom: empty wkt")
	}
	t, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, eris.Wrap(err, "geom: parse wkt")
	}
	return convertGeometry(t)
}

// LoadWKTCSV reads a boundary table from a CSV file; see ReadWKTCSV.
func LoadWKTCSV(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "geom: open csv")
	}
	defer f.Close()
	return ReadWKTCSV(f)
}

// ReadWKTCSV reads one feature per row from a CSV with a geometry column
// (wkt|geometry|geom|the_geom), a code column (iso_a2_eh|iso_a2|code) and an
// optional name column (name|admin). Any unparsable geometry fails the read.
func ReadWKTCSV(r io.Reader) ([]Feature, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.New("geom: empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "geom: read csv header")
	}

	idxGeom, idxCode, idxName := -1, -1, -1
	codeRank := len(codeKeys)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case "wkt", "geometry", "geom", "the_geom":
			if idxGeom == -1 {
				idxGeom = i
			}
		case "name", "admin":
			if idxName == -1 {
				idxName = i
			}
		case "code":
			if idxCode == -1 {
				idxCode = i
			}
		}
		// prefer the best ranked ISO column over a generic "code" column
		for rank, k := range codeKeys {
			if strings.EqualFold(k, key) && rank < codeRank {
				codeRank = rank
				idxCode = i
			}
		}
	}
	if idxGeom == -1 || idxCode == -1 {
		return nil, eris.New("geom: csv geometry/code columns not found")
	}

	var out []Feature
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "geom: read csv line %d", line)
		}
		if idxGeom >= len(row) || idxCode >= len(row) {
			zap.L().Debug("geom: short csv row", zap.Int("line", line))
			continue
		}
		g, err := ParseWKT(row[idxGeom])
		if err != nil {
			return nil, eris.Wrapf(err, "geom: csv line %d", line)
		}
		f := Feature{Code: strings.TrimSpace(row[idxCode]), Geometry: g}
		if idxName >= 0 && idxName < len(row) {
			f.Name = strings.TrimSpace(row[idxName])
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, eris.New("geom: no features found")
	}
	zap.L().Debug("geom: decoded wkt rows", zap.Int("count", len(out)))
	return out, nil
}
