package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/attractors/internal/analysis"
	"github.com/san-kum/attractors/internal/dynamo"
)

// TimeSeries plots one coordinate of tr against time. Samples past the first
// non-finite one are dropped since asciigraph cannot scale them.
func TimeSeries(tr *dynamo.Trajectory, axis, width, height int) string {
	if tr.Len() == 0 || axis < 0 || axis >= dynamo.Dim {
		return ""
	}
	data := tr.Column(axis)
	if idx := analysis.FirstNonFinite(tr); idx >= 0 {
		data = data[:idx]
	}
	if len(data) == 0 {
		return ""
	}
	caption := fmt.Sprintf("%s vs t (0 to %.4g)", analysis.Columns[axis+1], tr.Times[len(data)-1])
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SpectrumPlot plots the low quarter of the power spectrum of one coordinate.
func SpectrumPlot(tr *dynamo.Trajectory, axis, width, height int) string {
	if axis < 0 || axis >= dynamo.Dim {
		return ""
	}
	ps := analysis.PowerSpectrum(tr.Column(axis))
	if len(ps) < 8 {
		return ""
	}
	return asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analysis.Columns[axis+1])),
	)
}

// BifurcationPlot draws each sweep value as a column holding its peaks.
func BifurcationPlot(data []analysis.BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 1 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if minVal > maxVal {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%10.4g ┤\n", maxVal)
	for _, row := range canvas {
		b.WriteString("           │")
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%10.4g ┤\n", minVal)
	fmt.Fprintf(&b, "            %-*s%s\n", max(width-10, 1), fmt.Sprintf("%.4g", data[0].Param), fmt.Sprintf("%.4g", data[len(data)-1].Param))
	return b.String()
}
