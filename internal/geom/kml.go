package geom

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type kmlPlacemark struct {
	Name       string          `xml:"name"`
	Data       []kmlData       `xml:"ExtendedData>Data"`
	SimpleData []kmlSimpleData `xml:"ExtendedData>SchemaData>SimpleData"`
	Polygon    *kmlPolygon     `xml:"Polygon"`
	Multi      []kmlPolygon    `xml:"MultiGeometry>Polygon"`
}

// LoadKML reads country placemarks from a KML file; see DecodeKML.
func LoadKML(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "geom: open kml")
	}
	defer f.Close()
	return DecodeKML(f)
}

// DecodeKML returns one feature per Placemark carrying a Polygon or a
// MultiGeometry of Polygons, at any depth of Document/Folder nesting.
// Codes and names come from ExtendedData using the same keys as GeoJSON
// properties; the Placemark <name> is the fallback name.
func DecodeKML(r io.Reader) ([]Feature, error) {
	dec := xml.NewDecoder(r)
	var out []Feature
	skipped := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "geom: decode kml")
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, eris.Wrap(err, "geom: decode kml placemark")
		}
		g := pm.geometry()
		if g == nil {
			skipped++
			continue
		}
		props := pm.properties()
		f := Feature{
			Code:     stringProperty(props, codeKeys),
			Name:     stringProperty(props, nameKeys),
			Geometry: g,
		}
		if f.Name == "" {
			f.Name = strings.TrimSpace(pm.Name)
		}
		out = append(out, f)
	}
	if skipped > 0 {
		zap.L().Debug("geom: skipped kml placemarks without polygons", zap.Int("skipped", skipped))
	}
	if len(out) == 0 {
		return nil, eris.New("geom: no features found")
	}
	return out, nil
}

func (pm *kmlPlacemark) properties() map[string]interface{} {
	props := make(map[string]interface{}, len(pm.Data)+len(pm.SimpleData))
	for _, d := range pm.Data {
		props[d.Name] = d.Value
	}
	for _, d := range pm.SimpleData {
		props[d.Name] = d.Value
	}
	return props
}

func (pm *kmlPlacemark) geometry() Geometry {
	switch {
	case len(pm.Multi) > 0:
		mp := make(MultiPolygon, len(pm.Multi))
		for i, p := range pm.Multi {
			mp[i] = p.polygon()
		}
		return mp
	case pm.Polygon != nil:
		return pm.Polygon.polygon()
	}
	return nil
}

func (p kmlPolygon) polygon() Polygon {
	poly := Polygon{parseKMLCoords(p.Outer.Coordinates)}
	for _, in := range p.Inner {
		poly = append(poly, parseKMLCoords(in.Coordinates))
	}
	return poly
}

// parseKMLCoords reads whitespace separated "lon,lat[,alt]" tuples, ignoring
// altitude and skipping malformed tuples.
func parseKMLCoords(s string) Ring {
	var ring Ring
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		ring = append(ring, [2]float64{lon, lat})
	}
	return ring
}
