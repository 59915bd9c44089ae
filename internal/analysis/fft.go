package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins of
// data. The series is mean-removed, Hann-windowed and zero-padded to the
// next power of two, so the result has half that many bins.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	spectrum := fft.FFTReal(prepare(data))
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

func prepare(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	tapered := make([]float64, len(data))
	for i, v := range data {
		tapered[i] = v - mean
	}
	window.Apply(tapered, window.Hann)

	out := make([]float64, n)
	copy(out, tapered)
	return out
}
