package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestProfilesAreValid(t *testing.T) {
	for _, name := range []string{ProfileDesktop, ProfileMobile, ""} {
		cfg, err := ForProfile(name)
		if err != nil {
			t.Fatalf("profile %q: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("profile %q invalid: %v", name, err)
		}
	}

	if _, err := ForProfile("tablet"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for unknown profile, got %v", err)
	}

	m := Mobile()
	if !m.GainControlEnabled || m.NoiseGateThreshold >= Default().NoiseGateThreshold {
		t.Fatalf("mobile profile should enable gain and lower the gate: %+v", m)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.AnalysisWindowSize = 0 }},
		{"negative window", func(c *Config) { c.AnalysisWindowSize = -2048 }},
		{"non power of two window", func(c *Config) { c.AnalysisWindowSize = 3000 }},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero channels", func(c *Config) { c.Channels = 0 }},
		{"zero input gain", func(c *Config) { c.InputGain = 0 }},
		{"zero frame interval", func(c *Config) { c.FrameInterval = 0 }},
		{"negative gate", func(c *Config) { c.NoiseGateThreshold = -0.1 }},
		{"negative floor", func(c *Config) { c.MinSignalFloor = -0.1 }},
		{"negative trim", func(c *Config) { c.TrimThreshold = -1 }},
		{"inverted frequency range", func(c *Config) { c.MinFrequency, c.MaxFrequency = 1000, 100 }},
		{"zero history", func(c *Config) { c.HistoryCapacity = 0 }},
		{"negative hold", func(c *Config) { c.HoldDuration = -time.Second }},
		{"unknown correlation", func(c *Config) { c.Correlation = "yin" }},
		{"gain range", func(c *Config) { c.GainControlEnabled, c.GainMin, c.GainMax = true, 4, 1 }},
		{"gain step", func(c *Config) { c.GainControlEnabled, c.GainStep = true, 0 }},
		{"gain interval", func(c *Config) { c.GainControlEnabled, c.GainInterval = true, 0 }},
		{"gain window", func(c *Config) { c.GainControlEnabled, c.GainWindowSize = true, 0 }},
		{"gain target", func(c *Config) { c.GainControlEnabled, c.GainTarget = true, 0 }},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestGainSettingsIgnoredWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.GainStep = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("gain settings should not be checked while disabled: %v", err)
	}
}

func TestResolveOverlaysChangedFlags(t *testing.T) {
	scratch := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &scratch)

	if err := fs.Parse([]string{"--window", "2048", "--hold", "750ms", "--gate", "0.002"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Resolve(fs, ProfileMobile)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.AnalysisWindowSize != 2048 || cfg.HoldDuration != 750*time.Millisecond || cfg.NoiseGateThreshold != 0.002 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	// Untouched fields keep the profile's values.
	if !cfg.GainControlEnabled || cfg.TrimThreshold != 0.15 {
		t.Fatalf("profile values lost: %+v", cfg)
	}
}

func TestResolveRejectsInvalid(t *testing.T) {
	scratch := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &scratch)
	if err := fs.Parse([]string{"--window", "1000"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := Resolve(fs, ProfileDesktop); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGainOptions(t *testing.T) {
	opts := Mobile().GainOptions()
	if opts.Min != 1 || opts.Max != 4 || opts.Step != 0.05 {
		t.Fatalf("unexpected gain options %+v", opts)
	}
}
