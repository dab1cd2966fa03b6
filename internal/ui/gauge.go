package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	gaugeWidth  = 41 // odd so zero has its own cell
	gaugeRange  = 50 // cents on each side
	volumeWidth = 30
)

// gaugeHue maps a cents offset to a hue: 120 (green) in tune, 0 (red) at
// the edges. The easing keeps the centre green for longer.
func gaugeHue(cents int) float64 {
	t := math.Abs(float64(clampCents(cents))) / gaugeRange
	return 120 * (1 - math.Pow(t, 0.7))
}

// gaugeColor returns the marker color for a cents offset
func gaugeColor(cents int) string {
	return colorful.Hsl(gaugeHue(cents), 0.9, 0.55).Clamped().Hex()
}

func clampCents(cents int) int {
	return max(-gaugeRange, min(gaugeRange, cents))
}

// gaugePosition returns the marker cell for cents on a gauge of width cells
func gaugePosition(cents, width int) int {
	t := float64(clampCents(cents)+gaugeRange) / (2 * gaugeRange)
	return int(math.Round(t * float64(width-1)))
}

// renderGauge draws a horizontal tuning gauge from -50 to +50 cents
func renderGauge(cents, width int) string {
	pos := gaugePosition(cents, width)
	marker := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(gaugeColor(cents))).
		Render("●")

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == pos:
			b.WriteString(marker)
		case i == width/2:
			b.WriteString("┼")
		default:
			b.WriteString("─")
		}
	}

	labels := fmt.Sprintf("%-*s%s%*s", width/2, "-50", "0", width-width/2-1, "+50")
	return b.String() + "\n" + infoStyle.Render(labels)
}

// renderVolume draws the input level meter with a warning below the gate
func renderVolume(rms, gate float64) string {
	percent := math.Max(0, math.Min(1, rms)) * 100
	filled := int(math.Round(percent / 100 * volumeWidth))

	color := "#F44336"
	if percent > 10 {
		color = "#4CAF50"
	}

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled)) +
		infoStyle.Render(strings.Repeat("░", volumeWidth-filled))

	s := fmt.Sprintf("Volume: %s %5.1f%%", bar, percent)
	if rms < gate {
		s += " " + warnStyle.Render("Too quiet - play louder or move closer")
	}
	return s
}
