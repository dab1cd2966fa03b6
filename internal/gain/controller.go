// Package gain implements the adaptive input gain used on low-sensitivity
// capture paths.
//
// The controller runs on its own cadence, slower than pitch estimation. On
// every tick it measures the loudness of a short window of the gain-adjusted
// signal and nudges the multiplier by a fixed step: up while the signal is
// below the target, down once it exceeds the target by 20%. The gap between
// the two thresholds keeps it from hunting.
package gain

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultTarget = 8.0
	DefaultStep   = 0.05
	DefaultMin    = 1.0
	DefaultMax    = 4.0

	// upperBand is the dead-band factor above the target
	upperBand = 1.2
)

// Options configures a Controller
type Options struct {
	Target float64 // loudness on the 0..128 byte deviation scale
	Step   float64
	Min    float64
	Max    float64
}

// DefaultOptions returns the standard controller settings
func DefaultOptions() Options {
	return Options{
		Target: DefaultTarget,
		Step:   DefaultStep,
		Min:    DefaultMin,
		Max:    DefaultMax,
	}
}

// Controller owns the gain multiplier. Adjust must be called from a single
// goroutine; Gain and Apply may be called from any goroutine.
type Controller struct {
	opts Options
	bits atomic.Uint64 // math.Float64bits of the current gain
}

// New creates a controller starting at the minimum gain
func New(opts Options) *Controller {
	c := &Controller{opts: opts}
	c.Reset()
	return c
}

// Gain returns the current multiplier
func (c *Controller) Gain() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *Controller) store(g float64) {
	c.bits.Store(math.Float64bits(g))
}

// Reset returns the gain to its minimum
func (c *Controller) Reset() {
	c.store(c.opts.Min)
}

// Adjust runs one controller step on samples and returns the new gain.
// samples should already have the current gain applied.
func (c *Controller) Adjust(samples []float64) float64 {
	g := c.Gain()
	if len(samples) == 0 {
		return g
	}

	avg := Loudness(samples)
	switch {
	case avg < c.opts.Target:
		g = math.Min(g+c.opts.Step, c.opts.Max)
	case avg > c.opts.Target*upperBand:
		g = math.Max(g-c.opts.Step, c.opts.Min)
	default:
		return g
	}

	c.store(g)
	return g
}

// Apply scales samples in place by the current gain
func (c *Controller) Apply(samples []float64) {
	g := c.Gain()
	if g == 1 {
		return
	}
	for i := range samples {
		samples[i] *= g
	}
}

// Loudness returns the mean absolute deviation of samples from the centre
// of the unsigned 8-bit scale, so silence is 0 and a full-scale square wave
// is 128.
func Loudness(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	dev := make([]float64, len(samples))
	for i, s := range samples {
		b := math.Floor(128 * (1 + s))
		b = math.Max(0, math.Min(255, b))
		dev[i] = math.Abs(b - 128)
	}

	return stat.Mean(dev, nil)
}
