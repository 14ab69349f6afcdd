package helpoverlay

import (
	"fmt"
	"strings"

	"mermaid-live/internal/tui/state"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current view indicated.
func (HelpOverlay) View(s state.EditorState) string {
	sections := []struct {
		title string
		keys  []string
	}{
		{"File", []string{"ctrl+o: open diagram file", "ctrl+g: generate from image", "ctrl+s: save source", "ctrl+e: export image"}},
		{"Edit", []string{"tab: indent", "ctrl+t: templates", "ctrl+l: clear", "ctrl+y: copy code", "ctrl+r: render now"}},
		{"View", []string{"f2: split / editor / preview", "f11: fullscreen", "alt+= / alt+-: zoom", "alt+0: reset zoom", "ctrl+d: unsaved changes", "f12: log"}},
		{"Session", []string{"f1: toggle help", "ctrl+q: quit"}},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Help (View: %s, Zoom: %d%%)\n", s.View, state.ZoomPercent(s))
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s:\n", sec.title)
		for _, k := range sec.keys {
			fmt.Fprintf(&b, "  %s\n", k)
		}
	}
	return b.String()
}
