package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Clip cuts every line of s to at most width cells, starting at column
// offset. Width <= 0 leaves s untouched.
func Clip(s string, width, offset int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		r := []rune(l)
		if offset > 0 {
			if offset >= len(r) {
				r = nil
			} else {
				r = r[offset:]
			}
		}
		if len(r) > width {
			r = append(r[:width-1], '…')
		}
		lines[i] = string(r)
	}
	return strings.Join(lines, "\n")
}

// Pad right-pads s with spaces to n visible cells.
func Pad(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// Box sizes s into a width x height block, clipping and padding as needed.
// Styled input is measured and cut by visible cells.
func Box(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "…")
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for i := range lines {
		lines[i] = Pad(lines[i], width)
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
