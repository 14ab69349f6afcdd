package editor

import (
	"fmt"
	"strings"

	"mermaid-live/internal/tui/state"
)

type Editor struct{}

func NewEditor() Editor { return Editor{} }

// View renders the editing buffer under a header naming the file and
// flagging unsaved changes. buf is the already rendered textarea.
func (Editor) View(s state.EditorState, buf string) string {
	name := s.FileName
	if name == "" {
		name = "untitled"
	}
	if state.Dirty(s) {
		name += " *"
	}
	lines, chars := state.Counters(s)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (%d lines, %d chars)\n", name, lines, chars)
	b.WriteString(buf)
	return b.String()
}
