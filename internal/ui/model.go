package ui

import (
	"fmt"
	"strings"

	"github.com/0xlemi/tunepitch/internal/engine"
	"github.com/0xlemi/tunepitch/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Analysis window sizes cycled with the w key
var windowSizes = []int{1024, 2048, 4096, 8192}

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F44336"))

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

// Controls are the actions the display can request from the application
type Controls interface {
	// PlayTone sounds a reference tone at frequency
	PlayTone(frequency float64) error

	// SetWindowSize restarts analysis with a new window size
	SetWindowSize(size int) error
}

// ReadingMsg delivers one engine reading to the display
type ReadingMsg engine.Reading

// statusMsg replaces the status line
type statusMsg string

// windowMsg reports the outcome of a window size change
type windowMsg struct {
	size int
	err  error
}

// Model represents the UI state
type Model struct {
	reading       engine.Reading
	hasReading    bool
	window        int
	gateThreshold float64
	agc           bool
	status        string
	controls      Controls
	width         int
	height        int
}

// NewModel creates a new UI model
func NewModel(controls Controls, window int, gateThreshold float64, agc bool) Model {
	return Model{
		window:        window,
		gateThreshold: gateThreshold,
		agc:           agc,
		controls:      controls,
	}
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			return m, m.playTone()
		case "w":
			return m, m.cycleWindow()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ReadingMsg:
		m.reading = engine.Reading(msg)
		m.hasReading = true

	case windowMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Window change failed: %v", msg.err)
		} else {
			m.window = msg.size
			m.hasReading = false
			m.status = fmt.Sprintf("Analysis window set to %d samples", msg.size)
		}

	case statusMsg:
		m.status = string(msg)
	}

	return m, nil
}

// playTone sounds the equal-tempered pitch of the displayed note, or A4
func (m Model) playTone() tea.Cmd {
	if m.controls == nil {
		return nil
	}

	freq := pitch.ReferenceFrequency
	name := "A4"
	if note := m.reading.Note; m.hasReading && note != nil {
		freq = pitch.FrequencyFromMidi(note.Midi)
		name = note.String()
	}

	controls := m.controls
	return func() tea.Msg {
		if err := controls.PlayTone(freq); err != nil {
			return statusMsg(fmt.Sprintf("Reference tone: %v", err))
		}
		return statusMsg(fmt.Sprintf("Playing reference %s (%.2f Hz)", name, freq))
	}
}

// cycleWindow requests the next analysis window size
func (m Model) cycleWindow() tea.Cmd {
	if m.controls == nil {
		return nil
	}

	next := windowSizes[0]
	for i, size := range windowSizes {
		if size == m.window {
			next = windowSizes[(i+1)%len(windowSizes)]
			break
		}
	}

	controls := m.controls
	return func() tea.Msg {
		return windowMsg{size: next, err: controls.SetWindowSize(next)}
	}
}

// View renders the UI
func (m Model) View() string {
	s := titleStyle.Render("TuneNote - Chromatic Tuner")
	s += "\n"

	var note *pitch.Note
	if m.hasReading {
		note = m.reading.Note
	}

	if note != nil {
		s += renderNote(note)
		s += "\n"

		info := fmt.Sprintf("Frequency: %.2f Hz | Cents: %+d", note.Frequency, note.Cents)
		if m.reading.Raw > 0 {
			info += fmt.Sprintf(" | Raw: %.2f Hz", m.reading.Raw)
		}
		s += infoStyle.Render(info)
		s += "\n\n"
		s += renderGauge(note.Cents, gaugeWidth)
	} else {
		s += infoStyle.Render("Listening for audio...")
	}

	s += "\n\n"
	s += renderVolume(m.reading.RMS, m.gateThreshold)
	s += "\n"

	settings := fmt.Sprintf("Window: %d | Gate: %.2f%%", m.window, m.gateThreshold*100)
	if m.agc {
		settings += fmt.Sprintf(" | Gain: %.2fx", m.reading.Gain)
	}
	s += infoStyle.Render(settings)

	if m.status != "" {
		s += "\n" + infoStyle.Render(m.status)
	}

	s += "\n\n"
	s += infoStyle.Render("Press q to quit, t for reference tone, w to change window")

	return s
}

// renderNote draws the note box; sharps are split between the colors of
// their two neighbouring naturals
func renderNote(note *pitch.Note) string {
	noteText := note.String()

	if !strings.HasSuffix(note.Name, "#") {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(noteColors[note.Name])).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(2, 4).
			MarginBottom(1).
			Render(noteText)
	}

	baseNote := string(note.Name[0])

	leftStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(noteColors[baseNote])).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		BorderLeft(true).
		BorderTop(true).
		BorderBottom(true).
		BorderRight(false).
		PaddingLeft(2).
		PaddingRight(1).
		PaddingTop(2).
		PaddingBottom(2)

	rightStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(noteColors[nextNatural(baseNote)])).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		BorderLeft(false).
		BorderTop(true).
		BorderBottom(true).
		BorderRight(true).
		PaddingLeft(1).
		PaddingRight(2).
		PaddingTop(2).
		PaddingBottom(2)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(baseNote),
		rightStyle.Render(noteText[len(baseNote):]))
}

// nextNatural returns the natural note above a natural note
func nextNatural(note string) string {
	switch note {
	case "C":
		return "D"
	case "D":
		return "E"
	case "E":
		return "F"
	case "F":
		return "G"
	case "G":
		return "A"
	case "A":
		return "B"
	default:
		return "C"
	}
}
