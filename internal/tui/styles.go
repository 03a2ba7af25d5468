package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6B7280")
	danger  = lipgloss.Color("#E53935")
	warning = lipgloss.Color("#FFC107")
)

// Styles holds the lipgloss styles of the viewer.
type Styles struct {
	Title     lipgloss.Style
	Meta      lipgloss.Style
	Badge     lipgloss.Style
	Selected  lipgloss.Style
	Item      lipgloss.Style
	Marker    lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultStyles returns the viewer's default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Meta:      lipgloss.NewStyle().Foreground(muted),
		Badge:     lipgloss.NewStyle().Bold(true),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Item:      lipgloss.NewStyle().Foreground(muted),
		Marker:    lipgloss.NewStyle().Italic(true).Foreground(warning),
		Hint:      lipgloss.NewStyle().Underline(true).Foreground(accent),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(danger),
		StatusBar: lipgloss.NewStyle().Foreground(muted).BorderStyle(lipgloss.NormalBorder()).BorderTop(true),
	}
}
