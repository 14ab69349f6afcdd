package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mermaid-live/internal/tui/state"
	"mermaid-live/internal/tui/util"
)

type StatusBar struct {
	NoColor bool
}

func NewStatusBar(noColor bool) StatusBar { return StatusBar{NoColor: noColor} }

// View composes a concise status line: the transient status message, the
// output state and the layout.
func (b StatusBar) View(s state.EditorState) string {
	msg := s.Status.Text
	if msg == "" {
		msg = state.ReadyText
	}
	if !util.NoColor(b.NoColor) {
		msg = lipgloss.NewStyle().Bold(true).Foreground(util.DefaultPalette().StatusColor(s.Status.Kind)).Render(msg)
	} else if s.Status.Kind != state.StatusReady {
		msg = strings.ToUpper(s.Status.Kind.String()) + ": " + msg
	}
	parts := []string{msg, "Preview: " + s.Output.Kind.String(), "View: " + s.View.String()}
	if s.Fullscreen {
		parts = append(parts, "Fullscreen")
	}
	return strings.Join(parts, "  ")
}
