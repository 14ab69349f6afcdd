package templates

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	catalog "mermaid-live/internal/templates"
	"mermaid-live/internal/tui/util"
)

var selStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)

// Picker is the template menu. Cursor indexes Keys.
type Picker struct {
	Keys   []catalog.Key
	Cursor int
}

func NewPicker() Picker { return Picker{Keys: catalog.Keys()} }

func (p Picker) Up() Picker {
	if p.Cursor > 0 {
		p.Cursor--
	}
	return p
}

func (p Picker) Down() Picker {
	if p.Cursor < len(p.Keys)-1 {
		p.Cursor++
	}
	return p
}

// Selected returns the key under the cursor.
func (p Picker) Selected() (catalog.Key, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Keys) {
		return "", false
	}
	return p.Keys[p.Cursor], true
}

// View lists the templates with a one-line preview of each.
func (p Picker) View(noColor bool) string {
	noColor = util.NoColor(noColor)
	var b strings.Builder
	b.WriteString("Templates\n\n")
	for i, k := range p.Keys {
		text, _ := catalog.Lookup(k)
		head := strings.SplitN(text, "\n", 2)[0]
		line := fmt.Sprintf("%-22s %s", catalog.Titles[k], head)
		switch {
		case i != p.Cursor:
			line = "  " + line
		case noColor:
			line = "> " + line
		default:
			line = selStyle.Render("> " + line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\nenter: insert   esc: back\n")
	return b.String()
}
