package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the side panel. Bodies keep their own colours in every
// theme.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Border  lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Alert   lipgloss.Color
	Graph   lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "deep-space",
		Title:   lipgloss.Color("#89e3e4"),
		Label:   lipgloss.Color("#888899"),
		Value:   lipgloss.Color("#eefcfc"),
		Border:  lipgloss.Color("#444466"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#f09637"),
		Alert:   lipgloss.Color("#ff4444"),
		Graph:   lipgloss.Color("#00ccff"),
	},
	{
		Name:    "retro",
		Title:   lipgloss.Color("#00ff00"),
		Label:   lipgloss.Color("#00aa00"),
		Value:   lipgloss.Color("#88ff88"),
		Border:  lipgloss.Color("#005500"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Alert:   lipgloss.Color("#ff0000"),
		Graph:   lipgloss.Color("#00cc00"),
	},
	{
		Name:    "minimal",
		Title:   lipgloss.Color("#ffffff"),
		Label:   lipgloss.Color("#888888"),
		Value:   lipgloss.Color("#cccccc"),
		Border:  lipgloss.Color("#444444"),
		Running: lipgloss.Color("#ffffff"),
		Paused:  lipgloss.Color("#aaaaaa"),
		Alert:   lipgloss.Color("#ff0000"),
		Graph:   lipgloss.Color("#ffffff"),
	},
	{
		Name:    "sunset",
		Title:   lipgloss.Color("#ff6b6b"),
		Label:   lipgloss.Color("#8b6b8c"),
		Value:   lipgloss.Color("#fff5f5"),
		Border:  lipgloss.Color("#2d1b2e"),
		Running: lipgloss.Color("#5fd068"),
		Paused:  lipgloss.Color("#ffc048"),
		Alert:   lipgloss.Color("#ff4757"),
		Graph:   lipgloss.Color("#feca57"),
	},
}

func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	panel, title, label, value, running, paused, alert, graph, hint lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(statsWidth),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Title).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Value),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		alert:   lipgloss.NewStyle().Bold(true).Foreground(t.Alert),
		graph:   lipgloss.NewStyle().Foreground(t.Graph),
		hint:    lipgloss.NewStyle().Foreground(t.Label).Italic(true),
	}
}
