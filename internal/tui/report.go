// Package tui formats command output for the terminal: the coloured map
// report, tables, and the progress spinner shown during IP lookups.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Report is what the root command prints for one resolved location.
type Report struct {
	Name string
	Code string
	Lat  float64
	Lon  float64
	// HasCoords is false when the location came without coordinates; the
	// Coordinates line is then left out.
	HasCoords bool
	Map       string
}

// FormatCoordinates renders "48.85°N, 2.35°E". Zero counts as north/east.
func FormatCoordinates(lat, lon float64) string {
	ns := "N"
	if lat < 0 {
		ns = "S"
	}
	ew := "E"
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f°%s, %.2f°%s", math.Abs(lat), ns, math.Abs(lon), ew)
}

// WriteReport prints the header line, the map and the coordinates, each
// block separated by a blank line.
func WriteReport(w io.Writer, r Report, st Styles, target, neighbor rune) error {
	var b strings.Builder
	fmt.Fprintf(&b, "You appear to be in: %s (%s)\n\n", st.Title.Render(r.Name), r.Code)
	b.WriteString(ColorizeMap(r.Map, st, target, neighbor))
	if r.HasCoords {
		fmt.Fprintf(&b, "\n\nCoordinates: %s\n", FormatCoordinates(r.Lat, r.Lon))
	} else {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type cellClass int

const (
	classBlank cellClass = iota
	classTarget
	classNeighbor
	classLabel
)

// ColorizeMap styles a rendered map. Runs of the same cell kind are styled
// together; blanks are left alone.
func ColorizeMap(m string, st Styles, target, neighbor rune) string {
	classify := func(r rune) cellClass {
		switch r {
		case ' ':
			return classBlank
		case target:
			return classTarget
		case neighbor:
			return classNeighbor
		}
		return classLabel
	}

	var b strings.Builder
	for i, line := range strings.Split(m, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		cls := classBlank
		flush := func() {
			if len(run) == 0 {
				return
			}
			s := string(run)
			switch cls {
			case classTarget:
				s = st.Target.Render(s)
			case classNeighbor:
				s = st.Neighbor.Render(s)
			case classLabel:
				s = st.Label.Render(s)
			}
			b.WriteString(s)
			run = run[:0]
		}
		for _, r := range line {
			if c := classify(r); c != cls {
				flush()
				cls = c
			}
			run = append(run, r)
		}
		flush()
	}
	return b.String()
}
