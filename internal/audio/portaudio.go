package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioCapturer captures microphone input using PortAudio and keeps
// the newest samples in a ring so frames of any size up to its capacity
// can be read without reopening the stream.
type PortAudioCapturer struct {
	isCapturing     bool
	stream          *portaudio.Stream
	sampleRate      int
	channels        int
	framesPerBuffer int
	ring            []float32
	head            int // next write position
	filled          int // samples written, capped at len(ring)
	bufferMutex     sync.Mutex
	inputGain       float32 // fixed pre-amp applied in the callback
}

// NewPortAudioCapturer creates a new audio capturer using PortAudio.
// capacity is the largest frame that GetFrame can return.
func NewPortAudioCapturer(capacity, framesPerBuffer, sampleRate, channels int) (*PortAudioCapturer, error) {
	err := portaudio.Initialize()
	if err != nil {
		return nil, err
	}

	if channels < 1 {
		channels = 1
	}

	return &PortAudioCapturer{
		sampleRate:      sampleRate,
		channels:        channels,
		framesPerBuffer: framesPerBuffer,
		ring:            make([]float32, capacity),
		inputGain:       1.0,
	}, nil
}

// Start begins audio capture
func (c *PortAudioCapturer) Start() error {
	if c.isCapturing {
		return ErrAlreadyCapturing
	}

	var err error
	c.stream, err = portaudio.OpenDefaultStream(
		c.channels, // input channels
		0,          // no output
		float64(c.sampleRate),
		c.framesPerBuffer,
		c.processAudio,
	)
	if err != nil {
		return err
	}

	err = c.stream.Start()
	if err != nil {
		c.stream.Close()
		return err
	}

	c.isCapturing = true
	return nil
}

// Stop ends audio capture and releases PortAudio
func (c *PortAudioCapturer) Stop() error {
	if !c.isCapturing {
		return ErrNotCapturing
	}

	err := c.stream.Stop()
	if err != nil {
		return err
	}

	err = c.stream.Close()
	if err != nil {
		return err
	}

	err = portaudio.Terminate()
	if err != nil {
		return err
	}

	c.isCapturing = false
	return nil
}

// processAudio mixes the interleaved input down to mono and appends it to the ring
func (c *PortAudioCapturer) processAudio(in, _ []float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	n := len(in) / c.channels
	for i := 0; i < n; i++ {
		sum := float32(0)
		for ch := 0; ch < c.channels; ch++ {
			sum += in[i*c.channels+ch]
		}
		c.ring[c.head] = (sum / float32(c.channels)) * c.inputGain
		c.head = (c.head + 1) % len(c.ring)
	}

	c.filled = min(c.filled+n, len(c.ring))
}

// GetFrame returns a copy of the most recent size samples
func (c *PortAudioCapturer) GetFrame(size int) (*Frame, error) {
	if !c.isCapturing {
		return nil, ErrNotCapturing
	}

	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	if size <= 0 || size > c.filled {
		return nil, ErrShortFrame
	}

	frame := &Frame{
		Samples:    make([]float32, size),
		SampleRate: c.sampleRate,
	}
	start := (c.head - size + len(c.ring)) % len(c.ring)
	for i := range frame.Samples {
		frame.Samples[i] = c.ring[(start+i)%len(c.ring)]
	}

	return frame, nil
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	return c.isCapturing
}

// SetInputGain sets the fixed amplification applied to captured samples
func (c *PortAudioCapturer) SetInputGain(factor float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	// Ensure amplification is positive
	if factor < 0.1 {
		factor = 0.1
	}

	c.inputGain = factor
}
