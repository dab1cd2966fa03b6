package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers a flag for every field of c, using c's values as defaults
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.IntVar(&c.SampleRate, "sample-rate", c.SampleRate, "capture sample rate in Hz")
	fs.IntVar(&c.Channels, "channels", c.Channels, "capture channels, mixed down to mono")
	fs.Float64Var(&c.InputGain, "input-gain", c.InputGain, "fixed amplification applied at capture")

	fs.IntVar(&c.AnalysisWindowSize, "window", c.AnalysisWindowSize, "analysis window size in samples (power of two)")
	fs.DurationVar(&c.FrameInterval, "frame-interval", c.FrameInterval, "pitch estimation cadence")
	fs.Float64Var(&c.NoiseGateThreshold, "gate", c.NoiseGateThreshold, "noise gate RMS threshold")
	fs.Float64Var(&c.MinSignalFloor, "floor", c.MinSignalFloor, "estimator minimum RMS")
	fs.Float64Var(&c.TrimThreshold, "trim", c.TrimThreshold, "amplitude threshold for trimming frame edges")
	fs.StringVar(&c.Correlation, "correlation", c.Correlation, "autocorrelation method: direct or fft")
	fs.Float64Var(&c.MinFrequency, "min-freq", c.MinFrequency, "lowest plausible frequency in Hz")
	fs.Float64Var(&c.MaxFrequency, "max-freq", c.MaxFrequency, "highest plausible frequency in Hz")

	fs.IntVar(&c.HistoryCapacity, "history", c.HistoryCapacity, "median smoothing history length")
	fs.DurationVar(&c.HoldDuration, "hold", c.HoldDuration, "how long a reading survives without pitch")

	fs.BoolVar(&c.GainControlEnabled, "agc", c.GainControlEnabled, "enable adaptive gain control")
	fs.Float64Var(&c.GainTarget, "gain-target", c.GainTarget, "adaptive gain loudness target (0-128)")
	fs.Float64Var(&c.GainStep, "gain-step", c.GainStep, "adaptive gain step per adjustment")
	fs.Float64Var(&c.GainMin, "gain-min", c.GainMin, "minimum adaptive gain")
	fs.Float64Var(&c.GainMax, "gain-max", c.GainMax, "maximum adaptive gain")
	fs.DurationVar(&c.GainInterval, "gain-interval", c.GainInterval, "adaptive gain cadence")
	fs.IntVar(&c.GainWindowSize, "gain-window", c.GainWindowSize, "samples measured per gain adjustment")
}

// Resolve builds the configuration for profile and overlays every flag that
// was explicitly set on fs. The result is validated.
func Resolve(fs *pflag.FlagSet, profile string) (Config, error) {
	cfg, err := ForProfile(profile)
	if err != nil {
		return Config{}, err
	}

	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	BindFlags(overlay, &cfg)

	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		if setErr != nil || overlay.Lookup(f.Name) == nil {
			return
		}
		setErr = overlay.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return Config{}, setErr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
