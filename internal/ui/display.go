// Package ui renders views for the terminal console.
package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultTermWidth is used when the width cannot be detected
const DefaultTermWidth = 100

// Display holds terminal parameters
type Display struct {
	Width int
	// TTY is false when output is piped; styling and prompts are skipped
	TTY bool
}

// NewDisplay detects the terminal attached to stdout
func NewDisplay() *Display {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	width := DefaultTermWidth
	if tty {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	return &Display{Width: width, TTY: tty}
}

// FixedDisplay is a plain display of the given width
func FixedDisplay(width int) *Display {
	return &Display{Width: width}
}

// Interactive reports whether both stdin and stdout are terminals
func Interactive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}
