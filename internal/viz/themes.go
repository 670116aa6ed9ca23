package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lorentz/internal/field"
)

// Theme colours the live view. Region outlines take FieldOut for Bz > 0
// (out of the screen), FieldIn for Bz < 0 and Electric for pure E regions.
type Theme struct {
	Name      string
	Particles []lipgloss.Color
	FieldOut  lipgloss.Color
	FieldIn   lipgloss.Color
	Electric  lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Particles: []lipgloss.Color{"#ff00ff", "#00ffff", "#ffff00", "#00ff00", "#ff8800"},
		FieldOut:  lipgloss.Color("#5f5fff"),
		FieldIn:   lipgloss.Color("#ff005f"),
		Electric:  lipgloss.Color("#00ff87"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Particles: []lipgloss.Color{"#00ff00", "#88ff88", "#ccff00"},
		FieldOut:  lipgloss.Color("#00aa00"),
		FieldIn:   lipgloss.Color("#007700"),
		Electric:  lipgloss.Color("#55cc55"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Particles: []lipgloss.Color{"#ffffff", "#0088ff", "#ffaa00"},
		FieldOut:  lipgloss.Color("#888888"),
		FieldIn:   lipgloss.Color("#555555"),
		Electric:  lipgloss.Color("#aaaaaa"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Particles: []lipgloss.Color{"#ffd700", "#00ff88", "#e0f0ff", "#ff4444"},
		FieldOut:  lipgloss.Color("#0077be"),
		FieldIn:   lipgloss.Color("#00a8cc"),
		Electric:  lipgloss.Color("#4488aa"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// Particle returns the palette entry for the i-th particle.
func (t Theme) Particle(i int) lipgloss.Color {
	if len(t.Particles) == 0 {
		return t.Text
	}
	return t.Particles[i%len(t.Particles)]
}

func (t Theme) Region(r field.Region) lipgloss.Color {
	switch {
	case r.Bz > 0:
		return t.FieldOut
	case r.Bz < 0:
		return t.FieldIn
	case r.Ex != 0 || r.Ey != 0:
		return t.Electric
	}
	return t.Muted
}

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
