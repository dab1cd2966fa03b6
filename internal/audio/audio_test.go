package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

func TestSineSourceLifecycle(t *testing.T) {
	src := NewSineSource(440, 0.5, 44100)

	if _, err := src.GetFrame(1024); !errors.Is(err, ErrNotCapturing) {
		t.Fatalf("expected ErrNotCapturing before Start, got %v", err)
	}
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := src.Start(); !errors.Is(err, ErrAlreadyCapturing) {
		t.Fatalf("expected ErrAlreadyCapturing, got %v", err)
	}
	if _, err := src.GetFrame(0); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame for empty frame, got %v", err)
	}
	if err := src.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if src.IsCapturing() {
		t.Fatalf("expected source to be stopped")
	}
}

func TestSineSourcePhaseContinuity(t *testing.T) {
	const sampleRate = 8000
	src := NewSineSource(100, 1, sampleRate)
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	a, _ := src.GetFrame(50)
	b, _ := src.GetFrame(50)

	// Sample 50 of a continuous 100 Hz sine at 8 kHz.
	want := math.Sin(2 * math.Pi * 100 * 50 / sampleRate)
	if math.Abs(float64(b.Samples[0])-want) > 1e-5 {
		t.Fatalf("expected first sample of second frame %.5f, got %.5f", want, b.Samples[0])
	}
	if a.SampleRate != sampleRate {
		t.Fatalf("expected sample rate %d, got %d", sampleRate, a.SampleRate)
	}
}

func TestSineSourceSilence(t *testing.T) {
	src := NewSineSource(440, 0.8, 44100)
	src.SetAmplitude(0)
	_ = src.Start()

	frame, err := src.GetFrame(256)
	if err != nil {
		t.Fatalf("get frame: %v", err)
	}
	for i, s := range frame.Samples {
		if s != 0 {
			t.Fatalf("expected silence, sample %d = %f", i, s)
		}
	}
}

func TestFrameHelpers(t *testing.T) {
	f := &Frame{Samples: []float32{0.5, -0.25}, SampleRate: 2}
	got := f.Float64()
	if got[0] != 0.5 || got[1] != -0.25 {
		t.Fatalf("unexpected float64 copy %v", got)
	}
	if f.Duration() != time.Second {
		t.Fatalf("expected 1s duration, got %v", f.Duration())
	}
	if (&Frame{Samples: make([]float32, 4)}).Duration() != 0 {
		t.Fatalf("expected zero duration without sample rate")
	}
}

func TestToneReaderDecay(t *testing.T) {
	r := NewToneReader(440, 8000, 100*time.Millisecond)
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 800*4 {
		t.Fatalf("expected %d bytes, got %d", 800*4, len(data))
	}

	peak := func(from, to int) float64 {
		p := 0.0
		for i := from; i < to; i++ {
			v := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
			p = math.Max(p, math.Abs(float64(v)))
		}
		return p
	}
	head, tail := peak(0, 100), peak(700, 800)
	if head > toneStartGain+1e-6 {
		t.Fatalf("tone exceeds start gain: %f", head)
	}
	if tail >= head {
		t.Fatalf("expected decaying tone, head %f tail %f", head, tail)
	}
}

func TestToneReaderPartialBuffer(t *testing.T) {
	r := NewToneReader(440, 8000, 10*time.Millisecond)
	buf := make([]byte, 6)
	n, err := r.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("expected one whole sample, got n=%d err=%v", n, err)
	}
}
