package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/attractors/internal/dynamo"
)

// Columns names the summarized columns in order.
var Columns = [4]string{"t", "x", "y", "z"}

// ColumnStats describes one column. NaN samples are left out of every
// figure; infinities are kept.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

type Summary struct {
	Points  int
	Columns [4]ColumnStats
}

// Column returns the stats for "t", "x", "y" or "z".
func (s Summary) Column(name string) (ColumnStats, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Describe summarizes the time column and each coordinate of tr.
func Describe(tr *dynamo.Trajectory) Summary {
	sum := Summary{Points: tr.Len()}
	sum.Columns[0] = describeColumn(Columns[0], tr.Times)
	for axis := 0; axis < dynamo.Dim; axis++ {
		sum.Columns[axis+1] = describeColumn(Columns[axis+1], tr.Column(axis))
	}
	return sum
}

func describeColumn(name string, values []float64) ColumnStats {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)

	cs := ColumnStats{Name: name, Count: len(sorted)}
	if cs.Count == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	total := 0.0
	for _, v := range sorted {
		total += v
	}
	cs.Mean = total / float64(cs.Count)

	if cs.Count > 1 {
		ss := 0.0
		for _, v := range sorted {
			d := v - cs.Mean
			ss += d * d
		}
		cs.Std = math.Sqrt(ss / float64(cs.Count-1))
	} else {
		cs.Std = math.NaN()
	}

	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	cs.Q25 = Quantile(sorted, 0.25)
	cs.Q50 = Quantile(sorted, 0.50)
	cs.Q75 = Quantile(sorted, 0.75)
	return cs
}

// Quantile interpolates linearly between the closest ranks of sorted, which
// must be ascending and free of NaN.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
