package viz

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles groups the lipgloss styles derived from one Chrome.
type styles struct {
	bar     lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	paused  lipgloss.Style
	rec     lipgloss.Style
	help    lipgloss.Style
	graph   lipgloss.Style
	spark   lipgloss.Style
	warning lipgloss.Style
}

func newStyles(c Chrome) styles {
	return styles{
		bar:     lipgloss.NewStyle().Background(c.Background).Foreground(c.Text),
		title:   lipgloss.NewStyle().Background(c.Background).Foreground(c.Primary).Bold(true),
		label:   lipgloss.NewStyle().Background(c.Background).Foreground(c.Muted),
		value:   lipgloss.NewStyle().Background(c.Background).Foreground(c.Text).Bold(true),
		paused:  lipgloss.NewStyle().Background(c.Background).Foreground(c.Warning).Bold(true),
		rec:     lipgloss.NewStyle().Background(c.Background).Foreground(c.Error).Bold(true).Blink(true),
		help:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Muted).Foreground(c.Text).Background(c.Background).Padding(1, 2),
		graph:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Muted).Foreground(c.Accent).Background(c.Background).Padding(0, 1),
		spark:   lipgloss.NewStyle().Background(c.Background).Foreground(c.Accent),
		warning: lipgloss.NewStyle().Background(c.Background).Foreground(c.Warning),
	}
}

// Sparkline renders values as a row of block characters, newest last.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rng := max - min
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - min) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int64) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%int64(len(spinners))]
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
