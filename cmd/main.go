package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xlemi/tunepitch/internal/audio"
	"github.com/0xlemi/tunepitch/internal/config"
	"github.com/0xlemi/tunepitch/internal/engine"
	"github.com/0xlemi/tunepitch/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const (
	// Largest analysis window the capture ring must hold
	maxWindowSize = 8192

	// PortAudio callback size
	framesPerBuffer = 1024

	synthAmplitude = 0.5
)

type options struct {
	profile string
	synth   float64
	plain   bool
	debug   bool
	logFile string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	scratch := config.Default()

	cmd := &cobra.Command{
		Use:          "tunepitch",
		Short:        "Real-time chromatic tuner",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(cmd.Flags(), opts.profile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.profile, "profile", config.ProfileDesktop, "device profile: desktop or mobile")
	fs.Float64Var(&opts.synth, "synth", 0, "use a synthetic sine at this frequency instead of the microphone")
	fs.BoolVar(&opts.plain, "plain", false, "print readings as lines instead of the terminal UI")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	fs.StringVar(&opts.logFile, "log-file", "tunepitch.log", "log file used while the terminal UI is active")
	config.BindFlags(fs, &scratch)

	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
}

func newSource(cfg config.Config, opts options) (audio.Capturer, error) {
	if opts.synth > 0 {
		return audio.NewSineSource(opts.synth, synthAmplitude, cfg.SampleRate), nil
	}

	capturer, err := audio.NewPortAudioCapturer(
		max(maxWindowSize, cfg.AnalysisWindowSize),
		framesPerBuffer,
		cfg.SampleRate,
		cfg.Channels,
	)
	if err != nil {
		return nil, fmt.Errorf("create audio capturer: %w", err)
	}
	capturer.SetInputGain(float32(cfg.InputGain))
	return capturer, nil
}

func run(parent context.Context, cfg config.Config, opts options) error {
	if parent == nil {
		parent = context.Background()
	}
	plain := opts.plain || !term.IsTerminal(int(os.Stdout.Fd()))

	var logger *slog.Logger
	if plain {
		logger = newLogger(os.Stderr, opts.debug)
	} else {
		f, err := tea.LogToFile(opts.logFile, "tunepitch")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = newLogger(f, opts.debug)
	}
	slog.SetDefault(logger)
	logger.Info("tunepitch starting",
		"profile", opts.profile,
		"synth", opts.synth,
		"plain", plain)

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return err
	}

	src, err := newSource(cfg, opts)
	if err != nil {
		return err
	}
	if err := src.Start(); err != nil {
		return fmt.Errorf("start audio capture: %w", err)
	}
	defer func() {
		if err := src.Stop(); err != nil {
			logger.Error("stop audio capture", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if plain {
		printer := &linePrinter{out: os.Stdout}
		return eng.Run(ctx, src, printer.Print)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	controls := &appControls{engine: eng, tone: audio.NewTonePlayer(cfg.SampleRate)}
	model := ui.NewModel(controls, cfg.AnalysisWindowSize, cfg.NoiseGateThreshold, cfg.GainControlEnabled)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return eng.Run(gctx, src, func(r engine.Reading) {
			p.Send(ui.ReadingMsg(r))
		})
	})

	return g.Wait()
}
