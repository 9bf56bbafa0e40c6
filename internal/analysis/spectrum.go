package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the transform of
// values with their mean removed, zero-padded to a power of two. It returns
// nil when values holds NaN or Inf.
func PowerSpectrum(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		mean += v
	}
	mean /= float64(len(values))

	n := 1
	for n < len(values) {
		n <<= 1
	}
	padded := make([]float64, n)
	for i, v := range values {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-constant component of values sampled every dt.
func DominantFrequency(values []float64, dt float64) (float64, bool) {
	ps := PowerSpectrum(values)
	if len(ps) < 2 || !(dt > 0) {
		return 0, false
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), true
}
