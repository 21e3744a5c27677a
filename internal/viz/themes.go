package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view. Primary and Secondary form the title
// gradient and the mono grid; Unlit is an LED showing the background.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	// Accent marks a finished run.
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Unlit   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#9a9a9a"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#e8e8e8"),
		Muted:     lipgloss.Color("#808080"),
		Unlit:     lipgloss.Color("#1e1e1e"),
		Success:   lipgloss.Color("#00d060"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff3030"),
	}

	// ThemePhosphor mimics a green monochrome panel.
	ThemePhosphor = Theme{
		Name:      "phosphor",
		Primary:   lipgloss.Color("#33ff66"),
		Secondary: lipgloss.Color("#119933"),
		Accent:    lipgloss.Color("#b0ffc0"),
		Text:      lipgloss.Color("#66ff88"),
		Muted:     lipgloss.Color("#2a6b3a"),
		Unlit:     lipgloss.Color("#0b200f"),
		Success:   lipgloss.Color("#b0ffc0"),
		Warning:   lipgloss.Color("#e0ff40"),
		Error:     lipgloss.Color("#ff5040"),
	}

	// ThemeAmber is a sodium-lamp dot matrix.
	ThemeAmber = Theme{
		Name:      "amber",
		Primary:   lipgloss.Color("#ffb000"),
		Secondary: lipgloss.Color("#ff6a00"),
		Accent:    lipgloss.Color("#ffe08a"),
		Text:      lipgloss.Color("#ffd080"),
		Muted:     lipgloss.Color("#8a5a10"),
		Unlit:     lipgloss.Color("#2a1800"),
		Success:   lipgloss.Color("#ffe08a"),
		Warning:   lipgloss.Color("#ff6a00"),
		Error:     lipgloss.Color("#ff2020"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00c8e0"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Unlit:     lipgloss.Color("#00264d"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeNeon = Theme{
		Name:      "neon",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#7a5a8a"),
		Unlit:     lipgloss.Color("#1a001a"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
	}

	// Themes is the cycle order of the T key.
	Themes = []Theme{ThemeMinimal, ThemePhosphor, ThemeAmber, ThemeOcean, ThemeNeon}
)

// GetTheme returns a theme by name, falling back to minimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, candidate := range Themes {
		if candidate.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
