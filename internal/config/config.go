package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xlemi/tunepitch/internal/gain"
	"github.com/0xlemi/tunepitch/internal/pitch"
	"github.com/0xlemi/tunepitch/internal/stabilizer"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Profile names
const (
	ProfileDesktop = "desktop"
	ProfileMobile  = "mobile"
)

// Config holds every tunable of the pitch engine and its capture path
type Config struct {
	// Capture
	SampleRate int
	Channels   int
	InputGain  float64 // fixed pre-amp applied by the capturer

	// Analysis
	AnalysisWindowSize int
	FrameInterval      time.Duration
	NoiseGateThreshold float64
	MinSignalFloor     float64
	TrimThreshold      float64
	Correlation        string
	MinFrequency       float64
	MaxFrequency       float64

	// Stabilizer
	HistoryCapacity int
	HoldDuration    time.Duration

	// Adaptive gain
	GainControlEnabled bool
	GainTarget         float64
	GainStep           float64
	GainMin            float64
	GainMax            float64
	GainInterval       time.Duration
	GainWindowSize     int
}

// Default returns the desktop profile
func Default() Config {
	return Config{
		SampleRate: 44100,
		Channels:   1,
		InputGain:  1.0,

		AnalysisWindowSize: 4096,
		FrameInterval:      100 * time.Millisecond,
		NoiseGateThreshold: 0.005,
		MinSignalFloor:     0.01,
		TrimThreshold:      0.2,
		Correlation:        string(pitch.CorrelationDirect),
		MinFrequency:       pitch.DefaultMinFrequency,
		MaxFrequency:       pitch.DefaultMaxFrequency,

		HistoryCapacity: stabilizer.DefaultCapacity,
		HoldDuration:    stabilizer.DefaultHold,

		GainControlEnabled: false,
		GainTarget:         gain.DefaultTarget,
		GainStep:           gain.DefaultStep,
		GainMin:            gain.DefaultMin,
		GainMax:            gain.DefaultMax,
		GainInterval:       200 * time.Millisecond,
		GainWindowSize:     1024,
	}
}

// Mobile returns settings for weak capture paths: lower gates, a gentler
// trim threshold and adaptive gain.
func Mobile() Config {
	c := Default()
	c.NoiseGateThreshold = 0.001
	c.MinSignalFloor = 0.001
	c.TrimThreshold = 0.15
	c.GainControlEnabled = true
	return c
}

// ForProfile returns the configuration for a named profile
func ForProfile(name string) (Config, error) {
	switch name {
	case ProfileDesktop, "":
		return Default(), nil
	case ProfileMobile:
		return Mobile(), nil
	default:
		return Config{}, fmt.Errorf("%w: unknown profile %q", ErrInvalidConfig, name)
	}
}

// Validate rejects configurations the engine cannot run with
func (c Config) Validate() error {
	switch {
	case c.AnalysisWindowSize <= 0 || c.AnalysisWindowSize&(c.AnalysisWindowSize-1) != 0:
		return invalid("analysis window size %d must be a positive power of two", c.AnalysisWindowSize)
	case c.SampleRate <= 0:
		return invalid("sample rate %d must be positive", c.SampleRate)
	case c.Channels <= 0:
		return invalid("channel count %d must be positive", c.Channels)
	case c.InputGain <= 0:
		return invalid("input gain %g must be positive", c.InputGain)
	case c.FrameInterval <= 0:
		return invalid("frame interval %s must be positive", c.FrameInterval)
	case c.NoiseGateThreshold < 0:
		return invalid("noise gate threshold %g must not be negative", c.NoiseGateThreshold)
	case c.MinSignalFloor < 0:
		return invalid("minimum signal floor %g must not be negative", c.MinSignalFloor)
	case c.TrimThreshold < 0:
		return invalid("trim threshold %g must not be negative", c.TrimThreshold)
	case c.MinFrequency <= 0 || c.MaxFrequency <= c.MinFrequency:
		return invalid("frequency range [%g, %g] is empty", c.MinFrequency, c.MaxFrequency)
	case c.HistoryCapacity < 1:
		return invalid("history capacity %d must be at least 1", c.HistoryCapacity)
	case c.HoldDuration < 0:
		return invalid("hold duration %s must not be negative", c.HoldDuration)
	}

	if _, err := pitch.ParseCorrelationMethod(c.Correlation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if !c.GainControlEnabled {
		return nil
	}

	switch {
	case c.GainTarget <= 0:
		return invalid("gain target %g must be positive", c.GainTarget)
	case c.GainStep <= 0:
		return invalid("gain step %g must be positive", c.GainStep)
	case c.GainMin <= 0 || c.GainMax < c.GainMin:
		return invalid("gain range [%g, %g] is invalid", c.GainMin, c.GainMax)
	case c.GainInterval <= 0:
		return invalid("gain interval %s must be positive", c.GainInterval)
	case c.GainWindowSize <= 0:
		return invalid("gain window size %d must be positive", c.GainWindowSize)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// GainOptions returns the adaptive gain settings
func (c Config) GainOptions() gain.Options {
	return gain.Options{
		Target: c.GainTarget,
		Step:   c.GainStep,
		Min:    c.GainMin,
		Max:    c.GainMax,
	}
}
