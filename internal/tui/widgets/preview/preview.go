package preview

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mermaid-live/internal/tui/state"
	"mermaid-live/internal/tui/util"
)

// Placeholder is shown while there is nothing to render.
const Placeholder = "Your diagram will appear here"

type Preview struct {
	NoColor bool
}

func NewPreview(noColor bool) Preview { return Preview{NoColor: util.NoColor(noColor)} }

// View describes the preview region. A terminal cannot draw the SVG, so a
// rendered diagram is summarized by its scaled size and its text labels;
// file names where the full image is written are listed in the footer.
func (p Preview) View(s state.EditorState, previewFile string, width int) string {
	switch s.Output.Kind {
	case state.Rendering:
		return "Rendering..."
	case state.Failed:
		return p.errorBox(s.Output.Message, width)
	case state.Rendered:
		return p.summary(s, previewFile)
	default:
		return Placeholder
	}
}

func (p Preview) errorBox(msg string, width int) string {
	body := "Syntax error\n\n" + msg
	if p.NoColor {
		return "! " + strings.ReplaceAll(body, "\n", "\n! ")
	}
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(util.DefaultPalette().Danger).
		Padding(0, 1)
	if width > 4 {
		st = st.Width(width - 2)
	}
	return st.Render(body)
}

func (p Preview) summary(s state.EditorState, previewFile string) string {
	info := Inspect(s.Output.SVG)
	pct := state.ZoomPercent(s)
	var b strings.Builder
	if info.Width > 0 && info.Height > 0 {
		fmt.Fprintf(&b, "Diagram %dx%d at %d%%\n", scaled(info.Width, pct), scaled(info.Height, pct), pct)
	} else {
		fmt.Fprintf(&b, "Diagram at %d%%\n", pct)
	}
	if len(info.Labels) > 0 {
		b.WriteString("\n")
		for _, l := range info.Labels {
			b.WriteString("  • " + l + "\n")
		}
	}
	if previewFile != "" {
		b.WriteString("\nLive image: " + previewFile)
	}
	return strings.TrimRight(b.String(), "\n")
}

func scaled(v float64, pct int) int {
	return int(v*float64(pct)/100 + 0.5)
}

// Info is what can be read back from rendered SVG markup.
type Info struct {
	Width  float64
	Height float64
	Labels []string
}

// Inspect reads the intrinsic size and the visible text labels of svg.
// The size comes from the root viewBox, falling back to width/height.
// Malformed markup yields whatever was read before the error.
func Inspect(svg string) Info {
	var info Info
	seen := map[string]bool{}
	dec := xml.NewDecoder(strings.NewReader(svg))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	root := true
	for {
		tok, err := dec.Token()
		if err == io.EOF || err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root && t.Name.Local == "svg" {
				info.Width, info.Height = rootSize(t.Attr)
				root = false
			}
		case xml.CharData:
			l := strings.Join(strings.Fields(string(t)), " ")
			if l != "" && !seen[l] && !strings.ContainsAny(l, "{};") {
				seen[l] = true
				info.Labels = append(info.Labels, l)
			}
		}
	}
	return info
}

func rootSize(attrs []xml.Attr) (float64, float64) {
	var w, h float64
	for _, a := range attrs {
		switch a.Name.Local {
		case "viewBox":
			f := strings.Fields(strings.ReplaceAll(a.Value, ",", " "))
			if len(f) == 4 {
				vw, e1 := strconv.ParseFloat(f[2], 64)
				vh, e2 := strconv.ParseFloat(f[3], 64)
				if e1 == nil && e2 == nil {
					return vw, vh
				}
			}
		case "width":
			w = length(a.Value)
		case "height":
			h = length(a.Value)
		}
	}
	return w, h
}

func length(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

var rootTag = regexp.MustCompile(`<svg\b[^>]*>`)

var sizeAttr = regexp.MustCompile(`\s(width|height)="[^"]*"`)

// Scale rewrites the root element's width and height to pct percent of the
// diagram's intrinsic size, which is how zoom reaches the written preview
// image. Markup without a usable size is returned unchanged.
func Scale(svg string, pct int) string {
	info := Inspect(svg)
	if info.Width <= 0 || info.Height <= 0 {
		return svg
	}
	loc := rootTag.FindStringIndex(svg)
	if loc == nil {
		return svg
	}
	tag := sizeAttr.ReplaceAllString(svg[loc[0]:loc[1]], "")
	tag = strings.Replace(tag, "<svg", fmt.Sprintf(`<svg width="%d" height="%d"`, scaled(info.Width, pct), scaled(info.Height, pct)), 1)
	return svg[:loc[0]] + tag + svg[loc[1]:]
}

// WriteFile writes svg scaled to pct percent to path. The file is replaced
// atomically so viewers never see a partial document.
func WriteFile(path, svg string, pct int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Scale(svg, pct)), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace preview: %w", err)
	}
	return nil
}
