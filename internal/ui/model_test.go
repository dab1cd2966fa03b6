package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/0xlemi/tunepitch/internal/engine"
	"github.com/0xlemi/tunepitch/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeControls struct {
	tones   []float64
	windows []int
	err     error
}

func (f *fakeControls) PlayTone(freq float64) error {
	f.tones = append(f.tones, freq)
	return f.err
}

func (f *fakeControls) SetWindowSize(size int) error {
	f.windows = append(f.windows, size)
	return f.err
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestViewShowsReading(t *testing.T) {
	m := NewModel(nil, 4096, 0.005, false)
	if !strings.Contains(m.View(), "Listening for audio") {
		t.Fatalf("expected idle view")
	}

	note, _ := pitch.ToNote(445)
	m, _ = update(t, m, ReadingMsg(engine.Reading{Note: note, Raw: 445, RMS: 0.2}))

	view := m.View()
	for _, want := range []string{"A4", "445.00 Hz", "Cents: +20", "Window: 4096"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Too quiet") {
		t.Errorf("loud reading flagged as too quiet")
	}
}

func TestViewSharpAndQuiet(t *testing.T) {
	m := NewModel(nil, 2048, 0.005, true)
	note, _ := pitch.ToNote(pitch.FrequencyFromMidi(70))
	m, _ = update(t, m, ReadingMsg(engine.Reading{Note: note, RMS: 0.001, Gain: 2.5}))

	view := m.View()
	for _, want := range []string{"#4", "Too quiet", "Gain: 2.50x"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestToneKey(t *testing.T) {
	controls := &fakeControls{}
	m := NewModel(controls, 4096, 0.005, false)

	// No reading: reference A4.
	_, cmd := update(t, m, key('t'))
	if cmd == nil {
		t.Fatalf("expected a command for t")
	}
	msg := cmd()
	if len(controls.tones) != 1 || controls.tones[0] != 440 {
		t.Fatalf("expected A4 tone, got %v", controls.tones)
	}
	m, _ = update(t, m, msg)
	if !strings.Contains(m.View(), "Playing reference A4") {
		t.Fatalf("status not shown:\n%s", m.View())
	}

	// With a reading the tone is the in-tune pitch of the displayed note.
	note, _ := pitch.ToNote(335)
	m, _ = update(t, m, ReadingMsg(engine.Reading{Note: note}))
	_, cmd = update(t, m, key('t'))
	cmd()
	if got := controls.tones[1]; math.Abs(got-pitch.FrequencyFromMidi(64)) > 1e-9 {
		t.Fatalf("expected E4 reference, got %f", got)
	}
}

func TestWindowKeyCycles(t *testing.T) {
	controls := &fakeControls{}
	m := NewModel(controls, 8192, 0.005, false)

	_, cmd := update(t, m, key('w'))
	m, _ = update(t, m, cmd())
	if controls.windows[0] != 1024 || m.window != 1024 {
		t.Fatalf("expected wrap to 1024, got %v / %d", controls.windows, m.window)
	}

	controls.err = errors.New("boom")
	_, cmd = update(t, m, key('w'))
	m, _ = update(t, m, cmd())
	if m.window != 1024 || !strings.Contains(m.status, "boom") {
		t.Fatalf("failed change should keep window and report: %d %q", m.window, m.status)
	}
}

func TestQuitKey(t *testing.T) {
	_, cmd := update(t, NewModel(nil, 4096, 0.005, false), key('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestGauge(t *testing.T) {
	if gaugeHue(0) != 120 || gaugeHue(50) != 0 || gaugeHue(-80) != 0 {
		t.Fatalf("unexpected hue mapping")
	}
	if h := gaugeHue(25); h <= 0 || h >= 60 {
		t.Fatalf("eased hue at 25 cents should lean red, got %f", h)
	}
	if gaugePosition(0, gaugeWidth) != gaugeWidth/2 {
		t.Fatalf("zero not centred")
	}
	if gaugePosition(-50, gaugeWidth) != 0 || gaugePosition(120, gaugeWidth) != gaugeWidth-1 {
		t.Fatalf("edges not clamped")
	}
	if !strings.HasPrefix(gaugeColor(0), "#") {
		t.Fatalf("expected hex color, got %q", gaugeColor(0))
	}
	if !strings.Contains(renderGauge(10, gaugeWidth), "●") {
		t.Fatalf("marker missing")
	}
}

func TestNextNatural(t *testing.T) {
	for in, want := range map[string]string{"C": "D", "F": "G", "A": "B", "B": "C"} {
		if got := nextNatural(in); got != want {
			t.Errorf("nextNatural(%s) = %s, want %s", in, got, want)
		}
	}
}
