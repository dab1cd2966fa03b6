package engine

import (
	"context"
	"time"

	"github.com/0xlemi/tunepitch/internal/audio"
	"github.com/0xlemi/tunepitch/internal/config"
)

// Run drives the engine from src until ctx is cancelled. Frames are pulled on
// the frame cadence and, with gain control enabled, the gain is adjusted on
// its own slower cadence. Both cadences share this goroutine. sink receives
// every reading and must not block for long.
//
// When Run returns both tickers are stopped and the stabilizer and gain
// state are discarded.
func (e *Engine) Run(ctx context.Context, src audio.Capturer, sink func(Reading)) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrRunning
	}
	e.running = true
	cfg := e.cfg
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.stab.Reset()
		e.gain.Reset()
		e.mu.Unlock()
	}()

	e.logger.Info("engine started",
		"window", cfg.AnalysisWindowSize,
		"interval", cfg.FrameInterval,
		"agc", cfg.GainControlEnabled)

	frames := time.NewTicker(cfg.FrameInterval)
	defer frames.Stop()

	gainTicker, gainC := newGainTicker(cfg)
	defer func() {
		if gainTicker != nil {
			gainTicker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return nil

		case <-e.changed:
			cfg = e.Config()
			frames.Reset(cfg.FrameInterval)
			if gainTicker != nil {
				gainTicker.Stop()
			}
			gainTicker, gainC = newGainTicker(cfg)

		case now := <-frames.C:
			frame, err := src.GetFrame(cfg.AnalysisWindowSize)
			if err != nil {
				e.logger.Debug("frame unavailable", "err", err)
				continue
			}
			r := e.Process(frame, now)
			if sink != nil {
				sink(r)
			}

		case <-gainC:
			frame, err := src.GetFrame(cfg.GainWindowSize)
			if err != nil {
				e.logger.Debug("gain window unavailable", "err", err)
				continue
			}
			e.AdjustGain(frame)
		}
	}
}

// newGainTicker returns a ticker for the gain cadence, or a nil channel that
// never fires when gain control is off
func newGainTicker(cfg config.Config) (*time.Ticker, <-chan time.Time) {
	if !cfg.GainControlEnabled {
		return nil, nil
	}
	t := time.NewTicker(cfg.GainInterval)
	return t, t.C
}
