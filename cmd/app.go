package main

import (
	"fmt"
	"io"

	"github.com/0xlemi/tunepitch/internal/audio"
	"github.com/0xlemi/tunepitch/internal/engine"
)

// appControls carries UI requests to the engine and the tone player
type appControls struct {
	engine *engine.Engine
	tone   *audio.TonePlayer
}

func (c *appControls) PlayTone(frequency float64) error {
	return c.tone.Play(frequency)
}

func (c *appControls) SetWindowSize(size int) error {
	cfg := c.engine.Config()
	cfg.AnalysisWindowSize = size
	return c.engine.Reconfigure(cfg)
}

// linePrinter writes one line whenever the displayed reading changes
type linePrinter struct {
	out  io.Writer
	last string
}

func (p *linePrinter) Print(r engine.Reading) {
	line := "--"
	if r.Note != nil {
		line = fmt.Sprintf("%-4s %+3d cents  %8.2f Hz", r.Note, r.Note.Cents, r.Note.Frequency)
	}
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.out, line)
}
