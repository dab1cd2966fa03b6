package pitch

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// silenceDB is reported for frames too quiet to take a logarithm of
const silenceDB = -100.0

// RMS returns the root-mean-square energy of samples
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(samples, samples) / float64(len(samples)))
}

// Level returns the RMS and the corresponding dBFS level
func Level(samples []float64) (rms, db float64) {
	rms = RMS(samples)

	// Avoid log(0)
	if rms > 0.0000001 {
		db = 20 * math.Log10(rms)
	} else {
		db = silenceDB
	}

	return rms, db
}

// NoiseGate decides whether a frame carries enough energy for estimation
type NoiseGate struct {
	Threshold float64 // minimum RMS for a voiced frame
}

// IsVoiced reports whether the RMS of samples reaches the threshold.
// Empty and all-zero frames are never voiced.
func (g NoiseGate) IsVoiced(samples []float64) bool {
	rms := RMS(samples)
	return rms > 0 && rms >= g.Threshold
}
