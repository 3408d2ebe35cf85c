package ui

import (
	"os"

	"golang.org/x/term"
)

// GetTerminalWidth returns the current terminal width in columns.
// Non-TTY output (pipes, redirects) gets Display.DefaultTerminalWidth.
func GetTerminalWidth() int {
	fd := int(os.Stdout.Fd())

	if !term.IsTerminal(fd) {
		return Display.DefaultTerminalWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return Display.DefaultTerminalWidth
	}

	return width
}

// IsInteractive reports whether stdin is a terminal a prompt can read from
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
