package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"mermaid-live/internal/tui/util"
)

var (
	delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	delChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
	addChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint   = lipgloss.NewStyle().Faint(true)
)

// NoChanges is shown when both sides are equal.
const NoChanges = "No changes since the last successful render\n"

type DiffView struct {
	NoColor bool
}

func NewDiffView(noColor bool) DiffView { return DiffView{NoColor: util.NoColor(noColor)} }

// View compares the last rendered source with the buffer. Side by side
// splits width into two columns.
func (v DiffView) View(before, after string, sideBySide bool, width int) string {
	if before == after {
		return NoChanges
	}
	if sideBySide {
		return v.sideBySide(before, after, width)
	}
	return v.unified(before, after)
}

func (v DiffView) style(st lipgloss.Style, s string) string {
	if v.NoColor {
		return s
	}
	return st.Render(s)
}

func (v DiffView) unified(before, after string) string {
	var sb strings.Builder
	sb.WriteString("RENDERED vs BUFFER\n")
	bLines := strings.Split(before, "\n")
	aLines := strings.Split(after, "\n")
	if len(bLines) != len(aLines) {
		for _, l := range bLines {
			sb.WriteString(v.style(delLine, "- "+l) + "\n")
		}
		for _, l := range aLines {
			sb.WriteString(v.style(addLine, "+ "+l) + "\n")
		}
		return sb.String()
	}
	for i := range bLines {
		bl, al := bLines[i], aLines[i]
		if bl == al {
			if strings.TrimSpace(bl) == "" {
				continue
			}
			sb.WriteString("  " + v.style(faint, bl) + "\n")
			continue
		}
		left, right := v.spans(bl, al)
		sb.WriteString(v.style(delLine, "- ") + left + "\n")
		sb.WriteString(v.style(addLine, "+ ") + right + "\n")
	}
	return sb.String()
}

func (v DiffView) sideBySide(before, after string, width int) string {
	const sep = " │ "
	col := 40
	if width > 0 {
		col = (width - len([]rune(sep))) / 2
		if col < 10 {
			col = 10
		}
	}
	bLines := strings.Split(before, "\n")
	aLines := strings.Split(after, "\n")
	n := len(bLines)
	if len(aLines) > n {
		n = len(aLines)
	}
	var sb strings.Builder
	sb.WriteString(util.Pad("RENDERED", col) + sep + "BUFFER\n")
	for i := 0; i < n; i++ {
		var bl, al string
		if i < len(bLines) {
			bl = bLines[i]
		}
		if i < len(aLines) {
			al = aLines[i]
		}
		bl, al = util.Clip(bl, col, 0), util.Clip(al, col, 0)
		if bl == al {
			sb.WriteString(util.Pad(v.style(faint, bl), col) + sep + v.style(faint, al) + "\n")
			continue
		}
		left, right := v.spans(bl, al)
		sb.WriteString(util.Pad(left, col) + sep + right + "\n")
	}
	return sb.String()
}

// spans highlights the characters that differ between one pair of lines.
func (v DiffView) spans(before, after string) (string, string) {
	d := dmp.New()
	diffs := d.DiffMain(before, after, false)
	diffs = d.DiffCleanupSemantic(diffs)
	var l, r strings.Builder
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffDelete:
			l.WriteString(v.style(delChar, df.Text))
		case dmp.DiffInsert:
			r.WriteString(v.style(addChar, df.Text))
		case dmp.DiffEqual:
			l.WriteString(v.style(delLine, df.Text))
			r.WriteString(v.style(addLine, df.Text))
		}
	}
	return l.String(), r.String()
}
