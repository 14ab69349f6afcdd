package tagchips

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mermaid-live/internal/tui/state"
	"mermaid-live/internal/tui/util"
)

// View renders editor tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool) string {
	if len(tags) == 0 {
		return ""
	}
	noColor = util.NoColor(noColor)

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, noColor))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	return chipStyle(t).Render(label)
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.DIRTY:
		return "Unsaved"
	case state.LINES:
		return fmt.Sprintf("Lines %d", t.Value)
	case state.CHARS:
		return fmt.Sprintf("Chars %d", t.Value)
	case state.ZOOM:
		return fmt.Sprintf("Zoom %d%%", t.Value)
	case state.FILE:
		return t.Text
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag) lipgloss.Style {
	p := util.DefaultPalette()
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	switch t.Kind {
	case state.DIRTY:
		return base.Background(p.Warning).Foreground(lipgloss.Color("#111111"))
	case state.ZOOM:
		return base.Background(p.Primary).Foreground(lipgloss.Color("#FFFFFF"))
	case state.FILE:
		return base.Background(p.Success).Foreground(lipgloss.Color("#FFFFFF"))
	case state.LINES, state.CHARS:
		return base.Background(p.Muted).Foreground(lipgloss.Color("#FFFFFF"))
	default:
		return base
	}
}
