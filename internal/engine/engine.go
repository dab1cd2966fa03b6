// Package engine runs the pitch pipeline: adaptive gain, noise gate,
// autocorrelation estimate, temporal stabilizing and note mapping.
package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/0xlemi/tunepitch/internal/audio"
	"github.com/0xlemi/tunepitch/internal/config"
	"github.com/0xlemi/tunepitch/internal/gain"
	"github.com/0xlemi/tunepitch/internal/pitch"
	"github.com/0xlemi/tunepitch/internal/stabilizer"
)

// ErrRunning is returned when Run is called on an engine that is already running
var ErrRunning = errors.New("engine already running")

// Reading is the engine output for one processed frame
type Reading struct {
	Note   *pitch.Note      // stabilized reading, nil when there is none
	Raw    float64          // this frame's estimate in Hz, 0 when none
	RMS    float64          // level of the gain-adjusted frame
	DB     float64          // RMS in dBFS
	Gain   float64          // adaptive gain applied to the frame
	Voiced bool             // frame passed the noise gate
	State  stabilizer.State // stabilizer state after this frame
	At     time.Time
}

// Engine owns the stabilizer and gain state. Process, AdjustGain,
// Reconfigure and Reset may be called from different goroutines.
type Engine struct {
	mu       sync.Mutex
	cfg      config.Config
	gate     pitch.NoiseGate
	detector pitch.FrequencyDetector
	stab     *stabilizer.Stabilizer
	gain     *gain.Controller
	logger   *slog.Logger

	running bool
	changed chan struct{} // wakes Run after Reconfigure
}

// New validates cfg and builds an engine
func New(cfg config.Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		logger:  logger,
		changed: make(chan struct{}, 1),
	}
	e.apply(cfg)
	return e, nil
}

// apply builds the pipeline stages for cfg. Callers hold mu or own e exclusively.
func (e *Engine) apply(cfg config.Config) {
	est := pitch.NewEstimator(cfg.MinSignalFloor, cfg.TrimThreshold)
	est.Method = pitch.CorrelationMethod(cfg.Correlation)

	det := pitch.NewDetector(est)
	det.MinFrequency = cfg.MinFrequency
	det.MaxFrequency = cfg.MaxFrequency

	e.cfg = cfg
	e.gate = pitch.NoiseGate{Threshold: cfg.NoiseGateThreshold}
	e.detector = det
	e.stab = stabilizer.New(cfg.HistoryCapacity, cfg.HoldDuration)
	e.gain = gain.New(cfg.GainOptions())
}

// Config returns the active configuration
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Gain returns the current adaptive gain, 1 when gain control is off
func (e *Engine) Gain() float64 {
	e.mu.Lock()
	enabled := e.cfg.GainControlEnabled
	ctrl := e.gain
	e.mu.Unlock()

	if !enabled {
		return 1
	}
	return ctrl.Gain()
}

// Reconfigure validates cfg and replaces the active configuration. All
// stabilizer and gain state is discarded.
func (e *Engine) Reconfigure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	old := e.cfg
	e.apply(cfg)
	e.mu.Unlock()

	e.logger.Info("engine reconfigured",
		"window", cfg.AnalysisWindowSize,
		"previous_window", old.AnalysisWindowSize,
		"agc", cfg.GainControlEnabled)

	select {
	case e.changed <- struct{}{}:
	default:
	}
	return nil
}

// Reset discards stabilizer history and returns the gain to its minimum
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stab.Reset()
	e.gain.Reset()
}

// Process runs one frame through the pipeline. Per-frame failures never
// surface as errors; they produce a reading without an estimate.
func (e *Engine) Process(frame *audio.Frame, now time.Time) Reading {
	e.mu.Lock()
	defer e.mu.Unlock()

	samples := frame.Float64()
	g := 1.0
	if e.cfg.GainControlEnabled {
		g = e.gain.Gain()
		e.gain.Apply(samples)
	}

	r := Reading{Gain: g, At: now}
	r.RMS, r.DB = pitch.Level(samples)
	r.Voiced = e.gate.IsVoiced(samples)

	if r.Voiced {
		freq, err := e.detector.Detect(samples, frame.SampleRate)
		if err == nil {
			r.Raw = freq
		} else {
			e.logger.Debug("no pitch", "err", err, "rms", r.RMS)
		}
	}

	var display float64
	var ok bool
	if r.Raw > 0 {
		display, ok = e.stab.Observe(r.Raw), true
	} else {
		display, ok = e.stab.Miss(now)
	}
	r.State = e.stab.State()

	if ok {
		note, err := pitch.ToNote(display)
		if err != nil {
			e.logger.Debug("reading out of range", "freq", display, "err", err)
		} else {
			r.Note = note
		}
	}

	return r
}

// AdjustGain runs one gain controller step on the start of frame, after the
// current gain is applied. It is a no-op when gain control is disabled.
func (e *Engine) AdjustGain(frame *audio.Frame) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cfg.GainControlEnabled {
		return 1
	}

	samples := frame.Float64()
	if n := e.cfg.GainWindowSize; len(samples) > n {
		samples = samples[:n]
	}
	e.gain.Apply(samples)

	before := e.gain.Gain()
	after := e.gain.Adjust(samples)
	if after != before {
		e.logger.Debug("gain adjusted", "from", before, "to", after)
	}
	return after
}
