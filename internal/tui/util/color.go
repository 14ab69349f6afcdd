package util

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"mermaid-live/internal/tui/state"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
	if explicit {
		return true
	}
	return os.Getenv("NO_COLOR") != ""
}

// Palette defines a small set of colors used across widgets.
type Palette struct {
	Primary   lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color
	Warning   lipgloss.Color
	Muted     lipgloss.Color
	MutedDark lipgloss.Color
}

// DefaultPalette returns the default palette.
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#3D6DFF"),
		Success:   lipgloss.Color("#2AA876"),
		Danger:    lipgloss.Color("#D9534F"),
		Warning:   lipgloss.Color("#F0AD4E"),
		Muted:     lipgloss.Color("#6C757D"),
		MutedDark: lipgloss.Color("#5A5A5A"),
	}
}

// StatusColor maps a status kind onto the palette.
func (p Palette) StatusColor(k state.StatusKind) lipgloss.Color {
	switch k {
	case state.StatusInfo:
		return p.Primary
	case state.StatusSuccess:
		return p.Success
	case state.StatusWarning:
		return p.Warning
	case state.StatusError:
		return p.Danger
	default:
		return p.Muted
	}
}
