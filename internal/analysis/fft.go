package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms a real series. Input shorter than a power of two is
// zero-padded so bins line up with the radix-2 grid.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	buf := make([]float64, n)
	copy(buf, data)
	return fft.FFTReal(buf)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns |X_k| for the non-negative frequencies of the
// mean-removed signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := Mean(data)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := FFT(centered)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// Peak is the strongest non-DC component of a sampled signal.
type Peak struct {
	Bin       int
	Frequency float64 // Hz
	Period    float64 // seconds
	Power     float64
}

// DominantPeak finds the strongest oscillation in a series sampled every dt
// seconds. ok is false when the series is too short or flat.
func DominantPeak(data []float64, dt float64) (Peak, bool) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return Peak{}, false
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] <= 1e-12 {
		return Peak{}, false
	}
	n := float64(len(ps) * 2)
	freq := float64(best) / (n * dt)
	return Peak{
		Bin:       best,
		Frequency: freq,
		Period:    1 / freq,
		Power:     ps[best],
	}, true
}
