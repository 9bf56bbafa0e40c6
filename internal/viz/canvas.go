package viz

import (
	"strings"

	"github.com/san-kum/attractors/internal/analysis"
)

// blank is the empty braille cell; a cell's dots are bits above it.
const blank rune = 0x2800

// dotBits[row][col] is the braille bit for a dot inside a 2x4 cell.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2x4 dots, so a w x h
// canvas has 2w x 4h addressable dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(blank), w))
	}
	return &Canvas{Width: w, Height: h, Grid: grid}
}

// PixelSize returns the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set turns on the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	pw, ph := c.PixelSize()
	if x < 0 || y < 0 || x >= pw || y >= ph {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

// DrawLine joins two dots with a Bresenham line.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// span returns the distance from a to b and the unit step toward b.
func span(a, b int) (int, int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Plot scales points to fill the canvas and joins consecutive ones with
// lines. Non-finite points break the line.
func (c *Canvas) Plot(points []analysis.Point) {
	b, ok := boundsOf(points, 0.05)
	if !ok {
		return
	}
	pw, ph := c.PixelSize()
	havePrev := false
	var px, py int
	for _, p := range points {
		if !isFinite(p.X) || !isFinite(p.Y) {
			havePrev = false
			continue
		}
		x, y := b.toCell(p, pw, ph)
		if havePrev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, havePrev = x, y, true
	}
}
