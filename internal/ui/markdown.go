package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders Markdown for the terminal, or returns it unchanged when
// output is not a terminal
func (d *Display) Markdown(content string) (string, error) {
	if !d.TTY {
		return strings.TrimRight(content, "\n") + "\n", nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(d.Width-4),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
