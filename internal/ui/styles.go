package ui

import "fmt"

// ANSI256 color codes.
const (
	colorID      = 74  // blue, record identifiers
	colorMuted   = 245 // medium gray, timestamps and counts
	colorDeleted = 167 // red, soft-deleted markers
)

var noColor bool

// RenderID returns an item identifier in the accent (blue) color.
func RenderID(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorID, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderDeleted returns s styled as a soft-deleted marker (red).
func RenderDeleted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorDeleted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
