package audio

import (
	"errors"
	"time"
)

// Errors
var (
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNotCapturing     = errors.New("audio capture not started")
	ErrShortFrame       = errors.New("not enough samples buffered for frame")
)

// Frame is a fixed-length block of normalized mono samples and the rate
// that produced them. Frames are never mutated once handed out.
type Frame struct {
	Samples    []float32
	SampleRate int
}

// Float64 returns a float64 copy of the samples
func (f *Frame) Float64() []float64 {
	out := make([]float64, len(f.Samples))
	for i, s := range f.Samples {
		out[i] = float64(s)
	}
	return out
}

// Duration returns the time span covered by the frame
func (f *Frame) Duration() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(f.Samples)) * time.Second / time.Duration(f.SampleRate)
}

// Capturer defines the interface for a frame source
type Capturer interface {
	// Start begins audio capture
	Start() error

	// Stop ends audio capture
	Stop() error

	// GetFrame returns the most recent size samples
	GetFrame(size int) (*Frame, error)

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool
}
