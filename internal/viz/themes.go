package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view.
type Theme struct {
	Name    string
	Boid    lipgloss.Color
	Target  lipgloss.Color
	Title   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Edit    lipgloss.Color
	Graph   lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:    "night",
		Boid:    lipgloss.Color("#e0e0e0"),
		Target:  lipgloss.Color("#555555"),
		Title:   lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Edit:    lipgloss.Color("#ff00ff"),
		Graph:   lipgloss.Color("#00ccff"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Boid:    lipgloss.Color("#00ff00"), // green phosphor
		Target:  lipgloss.Color("#005500"),
		Title:   lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#007700"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Edit:    lipgloss.Color("#ccffcc"),
		Graph:   lipgloss.Color("#00cc00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Boid:    lipgloss.Color("#e0f0ff"),
		Target:  lipgloss.Color("#4488aa"),
		Title:   lipgloss.Color("#00a8cc"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffcc00"),
		Edit:    lipgloss.Color("#ffd700"),
		Graph:   lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Boid:    lipgloss.Color("#fff5f5"),
		Target:  lipgloss.Color("#8b6b8c"),
		Title:   lipgloss.Color("#ff6b6b"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Running: lipgloss.Color("#5fd068"),
		Paused:  lipgloss.Color("#ffc048"),
		Edit:    lipgloss.Color("#ff9ff3"),
		Graph:   lipgloss.Color("#feca57"),
	}

	Themes = []Theme{ThemeNight, ThemeRetro, ThemeOcean, ThemeSunset}
)

// GetTheme returns the named theme, or ThemeNight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
