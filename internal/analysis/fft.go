package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PadPow2 returns data with its mean removed, zero padded to the next power
// of two.
func PadPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	out := make([]float64, n)
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the transform of
// the padded, mean-free series.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(PadPow2(data))
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod returns the period of the strongest non-constant component
// of a series sampled every dt, or 0 if there is none.
func DominantPeriod(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || dt <= 0 {
		return 0
	}
	n := 2 * len(ps)
	return float64(n) * dt / float64(maxIdx)
}
