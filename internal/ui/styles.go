package ui

import "github.com/charmbracelet/lipgloss"

var (
	Accent     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C"))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C")).Bold(true)
	Muted      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	Bold       = lipgloss.NewStyle().Bold(true)
	Panel      = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#B91C1C")).Padding(0, 1)
)

func (d *Display) style(s lipgloss.Style, text string) string {
	if !d.TTY {
		return text
	}
	return s.Render(text)
}
