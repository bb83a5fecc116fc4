package country

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"go.uber.org/zap"

	"whichcountry/internal/geom"
)

// rectEpsilon pads R-tree rectangles. The tree needs non-zero extents and
// only reports strictly overlapping rectangles, while bbox tests here are
// inclusive; every tree hit is re-checked exactly.
const rectEpsilon = 1e-9

// Dataset owns the country list and the lookup structures built over it.
// It is read-only after NewDataset returns.
type Dataset struct {
	countries []Country
	byCode    map[string]int
	tree      *rtreego.Rtree
	unindexed []int // countries with a valid bbox the tree rejected
}

// indexedCountry wraps a country position for R-tree storage.
type indexedCountry struct {
	idx  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *indexedCountry) Bounds() rtreego.Rect { return e.rect }

// Load builds countries from features and indexes them.
func Load(ctx context.Context, features []geom.Feature, workers int) (*Dataset, error) {
	countries, err := BuildContext(ctx, features, workers)
	if err != nil {
		return nil, err
	}
	return NewDataset(countries), nil
}

// NewDataset indexes countries by code and by bbox. The first country with
// a given code wins code lookups.
func NewDataset(countries []Country) *Dataset {
	d := &Dataset{
		countries: countries,
		byCode:    make(map[string]int, len(countries)),
		tree:      rtreego.NewTree(2, 25, 50),
	}
	for i := range countries {
		c := &countries[i]
		if _, ok := d.byCode[c.Code]; !ok {
			d.byCode[c.Code] = i
		}
		if !c.BBox.Valid() {
			continue
		}
		rect, err := bboxRect(c.BBox, 0)
		if err != nil {
			zap.L().Debug("country: bbox not indexable", zap.String("code", c.Code), zap.Error(err))
			d.unindexed = append(d.unindexed, i)
			continue
		}
		d.tree.Insert(&indexedCountry{idx: i, rect: rect})
	}
	zap.L().Debug("country: dataset indexed",
		zap.Int("countries", len(countries)),
		zap.Int("unindexed", len(d.unindexed)),
	)
	return d
}

// Countries returns the backing slice in input order. Callers must not modify it.
func (d *Dataset) Countries() []Country { return d.countries }

func (d *Dataset) Len() int { return len(d.countries) }

// At returns the country at position i.
func (d *Dataset) At(i int) *Country { return &d.countries[i] }

// Lookup finds a country by ISO code, ignoring case and surrounding space.
func (d *Dataset) Lookup(code string) (int, bool) {
	i, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return i, ok
}

// Locate answers the same as FindCountry over the dataset's countries, using
// the R-tree to skip countries whose bbox cannot contain the query point.
func (d *Dataset) Locate(lon, lat float64) (int, bool) {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return FindCountry(lon, lat, d.countries)
	}
	return nudge(lon, lat, func(lon, lat float64) int {
		for _, i := range d.candidates(geom.BBox{MinLon: lon, MinLat: lat, MaxLon: lon, MaxLat: lat}) {
			if PointInCountry(lon, lat, &d.countries[i]) {
				return i
			}
		}
		return -1
	})
}

// Overlapping returns, in ascending order, the positions of countries whose
// bbox overlaps b (touching edges count).
func (d *Dataset) Overlapping(b geom.BBox) []int {
	var out []int
	for _, i := range d.candidates(b) {
		if d.countries[i].BBox.Overlaps(b) {
			out = append(out, i)
		}
	}
	return out
}

// candidates returns a sorted superset of the countries whose bbox touches b.
func (d *Dataset) candidates(b geom.BBox) []int {
	if !b.Valid() {
		return nil
	}
	rect, err := bboxRect(b, rectEpsilon)
	if err != nil {
		all := make([]int, len(d.countries))
		for i := range all {
			all[i] = i
		}
		return all
	}
	hits := d.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits)+len(d.unindexed))
	for _, h := range hits {
		out = append(out, h.(*indexedCountry).idx)
	}
	out = append(out, d.unindexed...)
	sort.Ints(out)
	return out
}

// bboxRect converts b to an R-tree rectangle grown by pad on every side, with
// each extent at least rectEpsilon.
func bboxRect(b geom.BBox, pad float64) (rtreego.Rect, error) {
	point := rtreego.Point{b.MinLon - pad, b.MinLat - pad}
	lengths := []float64{
		math.Max(b.Width()+2*pad, rectEpsilon),
		math.Max(b.Height()+2*pad, rectEpsilon),
	}
	return rtreego.NewRect(point, lengths)
}
