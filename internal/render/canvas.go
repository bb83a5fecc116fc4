package render

import "strings"

// Canvas is a fixed-size rune grid. Every row always holds exactly w runes.
type Canvas struct {
	w, h     int
	cells    [][]rune
	target   rune
	neighbor rune
}

// NewCanvas returns a blank canvas drawing outlines with the given glyphs.
func NewCanvas(w, h int, target, neighbor rune) *Canvas {
	cells := make([][]rune, h)
	for y := range cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &Canvas{w: w, h: h, cells: cells, target: target, neighbor: neighbor}
}

// At returns the rune at x, y, or a space when off the grid.
func (c *Canvas) At(x, y int) rune {
	if !c.inside(x, y) {
		return ' '
	}
	return c.cells[y][x]
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// Plot marks one outline cell. Target outlines overwrite anything; neighbor
// outlines only fill blanks.
func (c *Canvas) Plot(x, y int, target bool) {
	if !c.inside(x, y) {
		return
	}
	switch {
	case target:
		c.cells[y][x] = c.target
	case c.cells[y][x] == ' ':
		c.cells[y][x] = c.neighbor
	}
}

// Line draws a Bresenham line between two cells, endpoints included.
// Off-grid cells are walked but not drawn.
func (c *Canvas) Line(x0, y0, x1, y1 int, target bool) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.Plot(x0, y0, target)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Label writes text horizontally centred on col. A target label overwrites
// every cell; other labels only cover blanks and neighbor outline.
func (c *Canvas) Label(col, row int, text string, target bool) {
	if row < 0 || row >= c.h {
		return
	}
	runes := []rune(text)
	start := col - len(runes)/2
	for i, r := range runes {
		x := start + i
		if x < 0 || x >= c.w {
			continue
		}
		cur := c.cells[row][x]
		if target || cur == ' ' || cur == c.neighbor {
			c.cells[row][x] = r
		}
	}
}

// Lines returns the grid as h strings.
func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	for y, row := range c.cells {
		out[y] = string(row)
	}
	return out
}

// String joins the rows with newlines, without a trailing newline.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
