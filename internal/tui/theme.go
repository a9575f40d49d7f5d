package tui

import "github.com/charmbracelet/lipgloss"

// Theme collects the lipgloss styles used by the dashboard screens.
type Theme struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultTheme matches the default terminal palette.
func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1),
		Subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1),
	}
}
