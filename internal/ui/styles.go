package ui

import "fmt"

// ANSI256 color codes. Green accent with grays for structure.
const (
	colorAccent = 71  // green
	colorCmd    = 252 // light gray
	colorMuted  = 244 // medium gray
)

var noColor bool

func ansi256(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (green) color.
func RenderAccent(s string) string { return ansi256(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return ansi256(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return ansi256(colorCmd, s) }

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
