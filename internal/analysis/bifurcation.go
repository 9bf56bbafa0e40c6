package analysis

import (
	"math"

	"github.com/san-kum/attractors/internal/sim"
)

// BifurcationPoint holds the distinct peaks one coordinate reaches for a
// given parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Bifurcation reduces a parameter sweep to the local maxima of one state
// coordinate, ignoring samples before transient. A period-n orbit shows n
// distinct peaks; a chaotic one smears them out.
func Bifurcation(points []sim.SweepPoint, axis int, transient float64) []BifurcationPoint {
	results := make([]BifurcationPoint, 0, len(points))
	for _, p := range points {
		tr := p.Trajectory
		skip := 0
		for skip < len(tr.Times) && tr.Times[skip] < transient {
			skip++
		}
		results = append(results, BifurcationPoint{
			Param:  p.Value,
			Values: distinct(LocalMaxima(tr.Column(axis), skip)),
		})
	}
	return results
}

// LocalMaxima returns the samples of values after index skip that are larger
// than their left neighbour and no smaller than their right one.
func LocalMaxima(values []float64, skip int) []float64 {
	if skip < 1 {
		skip = 1
	}
	var peaks []float64
	for i := skip; i < len(values)-1; i++ {
		prev, v, next := values[i-1], values[i], values[i+1]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > prev && v >= next {
			peaks = append(peaks, v)
		}
	}
	return peaks
}

// distinct keeps the first of any values that agree to three decimals.
func distinct(values []float64) []float64 {
	seen := make(map[int64]bool)
	out := make([]float64, 0, len(values))
	for _, v := range values {
		key := int64(math.Round(v * 1000))
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}
