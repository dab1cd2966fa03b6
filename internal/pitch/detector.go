package pitch

import (
	"errors"
	"math"
)

// Errors
var (
	ErrEmptyBuffer           = errors.New("empty audio buffer")
	ErrInsufficientSignal    = errors.New("signal below minimum floor")
	ErrDegenerateCorrelation = errors.New("no autocorrelation peak")
	ErrOutOfRange            = errors.New("pitch outside plausible range")
)

// Plausible instrument range
const (
	DefaultMinFrequency = 27.5   // A0
	DefaultMaxFrequency = 3000.0 // above this correlation peaks are artifacts
)

// FrequencyDetector estimates the fundamental frequency of a frame
type FrequencyDetector interface {
	// Detect returns the frequency in Hz or an error when there is no pitch
	Detect(samples []float64, sampleRate int) (float64, error)
}

// Detector wraps an Estimator with a plausibility bound
type Detector struct {
	Estimator    *Estimator
	MinFrequency float64
	MaxFrequency float64
}

// NewDetector creates a detector with the default plausible range
func NewDetector(est *Estimator) *Detector {
	return &Detector{
		Estimator:    est,
		MinFrequency: DefaultMinFrequency,
		MaxFrequency: DefaultMaxFrequency,
	}
}

// Detect estimates the frequency and rejects non-finite or implausible values
func (d *Detector) Detect(samples []float64, sampleRate int) (float64, error) {
	freq, err := d.Estimator.Estimate(samples, sampleRate)
	if err != nil {
		return 0, err
	}

	if !d.Plausible(freq) {
		return 0, ErrOutOfRange
	}

	return freq, nil
}

// Plausible reports whether freq is finite and within the detector's range
func (d *Detector) Plausible(freq float64) bool {
	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return false
	}
	return freq > 0 && freq >= d.MinFrequency && freq <= d.MaxFrequency
}
