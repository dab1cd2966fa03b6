package pitch

import (
	"fmt"
	"math"
)

// CorrelationMethod selects how the autocorrelation is computed
type CorrelationMethod string

const (
	// CorrelationDirect sums lag products directly, O(N²)
	CorrelationDirect CorrelationMethod = "direct"
	// CorrelationFFT uses a zero-padded power spectrum, O(N log N)
	CorrelationFFT CorrelationMethod = "fft"
)

// ParseCorrelationMethod validates a method name
func ParseCorrelationMethod(s string) (CorrelationMethod, error) {
	switch m := CorrelationMethod(s); m {
	case CorrelationDirect, CorrelationFFT:
		return m, nil
	default:
		return "", fmt.Errorf("unknown correlation method %q", s)
	}
}

// Estimator is an autocorrelation fundamental frequency estimator
type Estimator struct {
	MinSignal     float64           // RMS floor below which no estimate is attempted
	TrimThreshold float64           // amplitude marking the stable region of the frame
	Method        CorrelationMethod // defaults to CorrelationDirect
}

// NewEstimator creates an estimator with the given floor and trim threshold
func NewEstimator(minSignal, trimThreshold float64) *Estimator {
	return &Estimator{
		MinSignal:     minSignal,
		TrimThreshold: trimThreshold,
		Method:        CorrelationDirect,
	}
}

// Estimate returns the fundamental frequency of samples in Hz.
// It returns ErrEmptyBuffer, ErrInsufficientSignal or
// ErrDegenerateCorrelation when no period can be found.
func (e *Estimator) Estimate(samples []float64, sampleRate int) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrEmptyBuffer
	}

	if RMS(samples) < e.MinSignal {
		return 0, ErrInsufficientSignal
	}

	buf := trim(samples, e.TrimThreshold)

	var c []float64
	if e.Method == CorrelationFFT {
		c = AutocorrelateFFT(buf)
	} else {
		c = Autocorrelate(buf)
	}

	period, ok := peakLag(c)
	if !ok {
		return 0, ErrDegenerateCorrelation
	}

	return float64(sampleRate) / period, nil
}

// trim drops the onset and decay edges of the frame: it starts at the first
// sample below threshold from the front and ends at the first one from the
// back, searching only the respective half. The end index is exclusive.
func trim(samples []float64, threshold float64) []float64 {
	size := len(samples)
	r1, r2 := 0, size-1

	for i := 0; i < size/2; i++ {
		if math.Abs(samples[i]) < threshold {
			r1 = i
			break
		}
	}
	for i := 1; i < size/2; i++ {
		if math.Abs(samples[size-i]) < threshold {
			r2 = size - i
			break
		}
	}

	if r2 <= r1 {
		return samples
	}
	return samples[r1:r2]
}

// Autocorrelate returns c[i] = Σ buf[j]·buf[j+i] for every lag i
func Autocorrelate(buf []float64) []float64 {
	n := len(buf)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n-i; j++ {
			sum += buf[j] * buf[j+i]
		}
		c[i] = sum
	}
	return c
}

// peakLag finds the period in samples: skip the zero-lag lobe down to its
// first local minimum, take the largest value after it and refine that
// position with a parabola through its neighbours.
func peakLag(c []float64) (float64, bool) {
	n := len(c)
	if n < 3 {
		return 0, false
	}

	d := 0
	for d < n-1 && c[d] > c[d+1] {
		d++
	}
	if d >= n-1 {
		// Monotonic decay, no repetition in the window
		return 0, false
	}

	maxval, maxpos := -1.0, -1
	for i := d; i < n; i++ {
		if c[i] > maxval {
			maxval = c[i]
			maxpos = i
		}
	}
	if maxpos <= 0 {
		return 0, false
	}

	t0 := float64(maxpos)
	if maxpos < n-1 {
		x1, x2, x3 := c[maxpos-1], c[maxpos], c[maxpos+1]
		a := (x1 + x3 - 2*x2) / 2
		b := (x3 - x1) / 2
		if a != 0 {
			t0 -= b / (2 * a)
		}
	}

	if t0 <= 0 {
		return 0, false
	}
	return t0, true
}
