package geom

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CSVPoint is one coordinate row of a points file.
type CSVPoint struct {
	Line  int // 1-based line in the file, header is line 1
	Label string
	Lon   float64
	Lat   float64
}

// LoadCSV reads a CSV with latitude/longitude columns and returns points.
func LoadCSV(path string) ([]CSVPoint, BBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, BBox{}, eris.Wrap(err, "geom: open csv")
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses points from r.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive);
// an optional id|name|label column is carried through as the row label.
// Rows whose coordinates do not parse are skipped.
func ReadCSV(r io.Reader) ([]CSVPoint, BBox, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, BBox{}, eris.Wrap(err, "geom: read csv")
	}
	if len(recs) == 0 {
		return nil, BBox{}, eris.New("geom: empty csv")
	}
	idxLat, idxLon, idxLabel := -1, -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "id", "name", "label":
			if idxLabel == -1 {
				idxLabel = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, BBox{}, eris.New("geom: csv latitude/longitude columns not found")
	}

	var points []CSVPoint
	bbox := EmptyBBox()
	for n, row := range recs[1:] {
		line := n + 2
		if idxLon >= len(row) || idxLat >= len(row) {
			zap.L().Debug("geom: short csv row", zap.Int("line", line))
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			zap.L().Debug("geom: unparsable csv coordinates", zap.Int("line", line))
			continue
		}
		p := CSVPoint{Line: line, Lon: lon, Lat: lat}
		if idxLabel >= 0 && idxLabel < len(row) {
			p.Label = strings.TrimSpace(row[idxLabel])
		}
		points = append(points, p)
		bbox.Extend(lon, lat)
	}
	if len(points) == 0 {
		return nil, BBox{}, eris.New("geom: csv has no valid points")
	}
	return points, bbox, nil
}
