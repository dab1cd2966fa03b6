package pitch

import (
	"github.com/mjibson/go-dsp/fft"
)

// AutocorrelateFFT computes the same lags as Autocorrelate through the power
// spectrum. The input is zero padded to a power of two of at least twice its
// length so the circular correlation does not wrap.
func AutocorrelateFFT(buf []float64) []float64 {
	n := len(buf)
	if n == 0 {
		return nil
	}

	size := 1
	for size < 2*n {
		size <<= 1
	}

	padded := make([]float64, size)
	copy(padded, buf)

	spectrum := fft.FFTReal(padded)
	for i, v := range spectrum {
		// |X|² keeps only the real power
		spectrum[i] = complex(real(v)*real(v)+imag(v)*imag(v), 0)
	}

	corr := fft.IFFT(spectrum)

	c := make([]float64, n)
	for i := range c {
		c[i] = real(corr[i])
	}
	return c
}
