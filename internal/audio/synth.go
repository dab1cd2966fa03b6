package audio

import (
	"math"
	"sync"
)

// SineSource is a synthetic frame source producing a phase-continuous sine.
// Each GetFrame call advances the signal by the requested number of samples.
type SineSource struct {
	mu          sync.Mutex
	isCapturing bool
	frequency   float64
	amplitude   float64
	sampleRate  int
	phase       float64 // radians
}

// NewSineSource creates a synthetic source at the given frequency and amplitude
func NewSineSource(frequency, amplitude float64, sampleRate int) *SineSource {
	return &SineSource{
		frequency:  frequency,
		amplitude:  amplitude,
		sampleRate: sampleRate,
	}
}

// Start begins producing frames
func (s *SineSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isCapturing {
		return ErrAlreadyCapturing
	}
	s.isCapturing = true
	return nil
}

// Stop ends frame production
func (s *SineSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isCapturing {
		return ErrNotCapturing
	}
	s.isCapturing = false
	return nil
}

// GetFrame returns the next size samples of the sine
func (s *SineSource) GetFrame(size int) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isCapturing {
		return nil, ErrNotCapturing
	}
	if size <= 0 {
		return nil, ErrShortFrame
	}

	frame := &Frame{
		Samples:    make([]float32, size),
		SampleRate: s.sampleRate,
	}
	step := 2 * math.Pi * s.frequency / float64(s.sampleRate)
	for i := range frame.Samples {
		frame.Samples[i] = float32(s.amplitude * math.Sin(s.phase))
		s.phase = math.Mod(s.phase+step, 2*math.Pi)
	}

	return frame, nil
}

// IsCapturing returns true if the source is started
func (s *SineSource) IsCapturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCapturing
}

// SetFrequency changes the generated frequency without a phase jump
func (s *SineSource) SetFrequency(frequency float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frequency = frequency
}

// SetAmplitude changes the peak amplitude; zero produces silence
func (s *SineSource) SetAmplitude(amplitude float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amplitude = amplitude
}
