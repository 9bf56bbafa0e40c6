package viz

import (
	"math"
	"strings"

	"github.com/san-kum/attractors/internal/analysis"
)

// ageGlyphs mark the early, middle and late thirds of a trajectory.
var ageGlyphs = [3]rune{'·', '•', '●'}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteRange(values []float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, lo <= hi
}

// boundsOf finds the extent of the finite points and widens it by pad on
// every side, as a fraction of the range.
func boundsOf(points []analysis.Point, pad float64) (bounds, bool) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if isFinite(p.X) && isFinite(p.Y) {
			xs[i], ys[i] = p.X, p.Y
		} else {
			xs[i], ys[i] = math.NaN(), math.NaN()
		}
	}
	minX, maxX, okX := finiteRange(xs)
	minY, maxY, okY := finiteRange(ys)
	if !okX || !okY {
		return bounds{}, false
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b := bounds{
		minX: minX - rangeX*pad,
		maxX: maxX + rangeX*pad,
		minY: minY - rangeY*pad,
		maxY: maxY + rangeY*pad,
	}
	// values near the float64 limit overflow the span
	if !isFinite(b.maxX-b.minX) || !isFinite(b.maxY-b.minY) {
		return bounds{}, false
	}
	return b, true
}

// toCell maps p onto a w x h grid with row 0 at the top.
func (b bounds) toCell(p analysis.Point, w, h int) (int, int) {
	col := int((p.X - b.minX) / (b.maxX - b.minX) * float64(w-1))
	row := h - 1 - int((p.Y-b.minY)/(b.maxY-b.minY)*float64(h-1))
	return col, row
}

// PhaseCanvas draws points as characters on a width x height grid. Later
// samples overwrite earlier ones, and the axes are drawn where they cross
// the visible area.
func PhaseCanvas(points []analysis.Point, width, height int) string {
	if width <= 1 || height <= 1 {
		return ""
	}
	b, ok := boundsOf(points, 0.1)
	if !ok {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	n := len(points)
	for i, p := range points {
		if !isFinite(p.X) || !isFinite(p.Y) {
			continue
		}
		col, row := b.toCell(p, width, height)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = ageGlyphs[min(3*i/n, 2)]
		}
	}

	if b.minX <= 0 && b.maxX >= 0 {
		col, _ := b.toCell(analysis.Point{}, width, height)
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if b.minY <= 0 && b.maxY >= 0 {
		_, row := b.toCell(analysis.Point{}, width, height)
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
