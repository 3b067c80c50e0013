package viz

import "github.com/charmbracelet/lipgloss"

// Chrome is the colour scheme of the status bar and help overlay, chosen to
// sit on top of a palette theme.
type Chrome struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	ChromeDark = Chrome{
		Name:       "dark",
		Primary:    lipgloss.Color("#5ee6e6"),
		Accent:     lipgloss.Color("#7aa2ff"),
		Background: lipgloss.Color("#060c10"),
		Text:       lipgloss.Color("#d8f3f3"),
		Muted:      lipgloss.Color("#4a6670"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff4757"),
	}

	ChromeLight = Chrome{
		Name:       "light",
		Primary:    lipgloss.Color("#1f2a30"),
		Accent:     lipgloss.Color("#c0563a"),
		Background: lipgloss.Color("#f4f1ea"),
		Text:       lipgloss.Color("#1f2a30"),
		Muted:      lipgloss.Color("#8a8478"),
		Warning:    lipgloss.Color("#b36b00"),
		Error:      lipgloss.Color("#b3261e"),
	}

	chromes = []Chrome{ChromeDark, ChromeLight}
)

// ChromeFor returns the chrome paired with a palette theme, falling back to
// the dark chrome.
func ChromeFor(theme string) Chrome {
	for _, c := range chromes {
		if c.Name == theme {
			return c
		}
	}
	return ChromeDark
}
