package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrNotPowerOfTwo = errors.New("analysis: fft length must be a power of two")

func FFT(data []float64) ([]complex128, error) {
	n := len(data)
	if n > 0 && n&(n-1) != 0 {
		return nil, ErrNotPowerOfTwo
	}
	return fft(data), nil
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum removes the mean, zero-pads to a power of two and returns
// the magnitude of the first half of the spectrum.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := make([]float64, nextPow2(len(data)))
	m := mean(data)
	for i, v := range data {
		padded[i] = v - m
	}

	spec := fft(padded)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-constant component of series. ok is false for flat or too-short series.
func DominantPeriod(series []float64, dt float64) (period float64, ok bool) {
	if len(series) < 4 || !(dt > 0) {
		return 0, false
	}
	ps := PowerSpectrum(series)
	n := nextPow2(len(series))

	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] < 1e-9 {
		return 0, false
	}
	return float64(n) * dt / float64(best), true
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
