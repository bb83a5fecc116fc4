// Package render draws a zoomed ASCII map around one country: its outline in
// the target glyph, overlapping neighbours in a fainter glyph, and ISO code
// labels on top.
package render

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"whichcountry/internal/country"
)

var (
	ErrUnknownCountry = eris.New("unknown country code")
	ErrInvalidSize    = eris.New("map size must be at least 1x1")
)

// Options configures a Renderer.
type Options struct {
	Width         int
	Height        int
	TargetGlyph   rune
	NeighborGlyph rune
}

// DefaultOptions is an 80x24 map with '#' for the target and '·' for neighbours.
func DefaultOptions() Options {
	return Options{Width: 80, Height: 24, TargetGlyph: '#', NeighborGlyph: '·'}
}

// Renderer draws maps with fixed options. The zero glyphs fall back to the
// defaults.
type Renderer struct {
	opts    Options
	dataset *country.Dataset
}

// New returns a Renderer for opts.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.TargetGlyph == 0 {
		opts.TargetGlyph = def.TargetGlyph
	}
	if opts.NeighborGlyph == 0 {
		opts.NeighborGlyph = def.NeighborGlyph
	}
	return &Renderer{opts: opts}
}

// WithDataset makes RenderDataset pick viewport neighbours from d's index.
func (r *Renderer) WithDataset(d *country.Dataset) *Renderer {
	r.dataset = d
	return r
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Render draws target (an ISO code, matched exactly) among countries using
// the default glyphs.
func Render(countries []country.Country, target string, width, height int) (string, error) {
	opts := DefaultOptions()
	opts.Width, opts.Height = width, height
	return New(opts).Render(countries, target)
}

// Render draws the first country whose code equals target.
func (r *Renderer) Render(countries []country.Country, target string) (string, error) {
	if err := r.checkSize(); err != nil {
		return "", err
	}
	ti := -1
	for i := range countries {
		if countries[i].Code == target {
			ti = i
			break
		}
	}
	if ti < 0 {
		return "", eris.Wrapf(ErrUnknownCountry, "render: %s", target)
	}
	vp := NewViewport(countries[ti].BBox, r.opts.Width, r.opts.Height)
	bounds := vp.Bounds()
	var visible []int
	for i := range countries {
		if countries[i].BBox.Overlaps(bounds) {
			visible = append(visible, i)
		}
	}
	return r.draw(countries, ti, vp, visible).String(), nil
}

// RenderDataset draws the dataset country at position idx, taking outline
// candidates from the dataset's spatial index.
func (r *Renderer) RenderDataset(idx int) (string, error) {
	if r.dataset == nil {
		return "", eris.New("render: no dataset attached")
	}
	if err := r.checkSize(); err != nil {
		return "", err
	}
	if idx < 0 || idx >= r.dataset.Len() {
		return "", eris.Wrapf(ErrUnknownCountry, "render: index %d", idx)
	}
	countries := r.dataset.Countries()
	vp := NewViewport(countries[idx].BBox, r.opts.Width, r.opts.Height)
	return r.draw(countries, idx, vp, r.dataset.Overlapping(vp.Bounds())).String(), nil
}

func (r *Renderer) checkSize() error {
	if r.opts.Width < 1 || r.opts.Height < 1 {
		return eris.Wrapf(ErrInvalidSize, "render: %dx%d", r.opts.Width, r.opts.Height)
	}
	return nil
}

// draw strokes the outlines of visible (ascending positions into countries)
// and then labels every country in input order.
func (r *Renderer) draw(countries []country.Country, target int, vp Viewport, visible []int) *Canvas {
	c := NewCanvas(vp.Width, vp.Height, r.opts.TargetGlyph, r.opts.NeighborGlyph)
	for _, i := range visible {
		isTarget := i == target
		for _, poly := range countries[i].Polygons {
			for _, ring := range poly {
				for k := 0; k+1 < len(ring); k++ {
					c0, r0 := vp.Cell(ring[k][0], ring[k][1])
					c1, r1 := vp.Cell(ring[k+1][0], ring[k+1][1])
					c.Line(c0, r0, c1, r1, isTarget)
				}
			}
		}
	}
	for i := range countries {
		if countries[i].Code == country.UnknownCode {
			continue
		}
		col, row := vp.Cell(countries[i].Label[0], countries[i].Label[1])
		c.Label(col, row, countries[i].Code, i == target)
	}
	zap.L().Debug("render: map drawn",
		zap.String("code", countries[target].Code),
		zap.Int("outlined", len(visible)),
		zap.Int("width", vp.Width),
		zap.Int("height", vp.Height),
	)
	return c
}
