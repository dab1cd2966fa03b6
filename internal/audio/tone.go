package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrTonePlaying is returned when a reference tone is already sounding
var ErrTonePlaying = errors.New("reference tone already playing")

const (
	toneDuration  = 2 * time.Second
	toneStartGain = 0.1
	toneEndGain   = 0.01
)

// ToneReader streams a decaying sine as little-endian float32 mono PCM.
// The gain ramps exponentially from toneStartGain to toneEndGain.
type ToneReader struct {
	frequency  float64
	sampleRate int
	total      int // samples to produce
	pos        int
}

// NewToneReader creates a reader for a reference tone of the given length
func NewToneReader(frequency float64, sampleRate int, d time.Duration) *ToneReader {
	return &ToneReader{
		frequency:  frequency,
		sampleRate: sampleRate,
		total:      int(d.Seconds() * float64(sampleRate)),
	}
}

// Read fills p with whole float32 samples
func (r *ToneReader) Read(p []byte) (int, error) {
	if r.pos >= r.total {
		return 0, io.EOF
	}

	n := 0
	for n+4 <= len(p) && r.pos < r.total {
		progress := float64(r.pos) / float64(r.total)
		gain := toneStartGain * math.Pow(toneEndGain/toneStartGain, progress)
		v := gain * math.Sin(2*math.Pi*r.frequency*float64(r.pos)/float64(r.sampleRate))
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(float32(v)))
		n += 4
		r.pos++
	}

	return n, nil
}

// TonePlayer plays reference tones through the default output device
type TonePlayer struct {
	mu         sync.Mutex
	sampleRate int
	ctx        *oto.Context
	player     *oto.Player
}

// NewTonePlayer creates a tone player; the output device is opened lazily
func NewTonePlayer(sampleRate int) *TonePlayer {
	return &TonePlayer{sampleRate: sampleRate}
}

// Play starts a two-second tone at frequency and returns immediately
func (t *TonePlayer) Play(frequency float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.player != nil && t.player.IsPlaying() {
		return ErrTonePlaying
	}

	if t.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   t.sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			return err
		}
		<-ready
		t.ctx = ctx
	}

	if t.player != nil {
		t.player.Close()
	}
	t.player = t.ctx.NewPlayer(NewToneReader(frequency, t.sampleRate, toneDuration))
	t.player.Play()

	return nil
}

// IsPlaying reports whether a tone is currently sounding
func (t *TonePlayer) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player != nil && t.player.IsPlaying()
}
