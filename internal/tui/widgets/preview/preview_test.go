package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mermaid-live/internal/tui/state"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" width="100%" viewBox="0 0 200 100" style="max-width: 200px;"><style>#m{fill:red;}</style><g><text>Start</text><text>End</text><text>Start</text></g></svg>`

func TestInspect(t *testing.T) {
	info := Inspect(sample)
	if info.Width != 200 || info.Height != 100 {
		t.Fatalf("unexpected size %vx%v", info.Width, info.Height)
	}
	if strings.Join(info.Labels, ",") != "Start,End" {
		t.Fatalf("unexpected labels %v", info.Labels)
	}
}

func TestInspectWidthHeightFallback(t *testing.T) {
	info := Inspect(`<svg width="30px" height="20"></svg>`)
	if info.Width != 30 || info.Height != 20 {
		t.Fatalf("unexpected size %vx%v", info.Width, info.Height)
	}
}

func TestScale(t *testing.T) {
	out := Scale(sample, 150)
	if !strings.HasPrefix(out, `<svg width="300" height="150" xmlns=`) {
		t.Fatalf("unexpected root tag: %s", out[:60])
	}
	if strings.Contains(out, `width="100%"`) {
		t.Fatalf("old width attribute kept")
	}
	if Scale("<svg></svg>", 200) != "<svg></svg>" {
		t.Fatalf("sizeless markup must be untouched")
	}
}

func TestViewKinds(t *testing.T) {
	p := NewPreview(true)
	s := state.New()
	if p.View(s, "", 40) != Placeholder {
		t.Fatalf("expected placeholder")
	}
	s.Output = state.Output{Kind: state.Rendering}
	if p.View(s, "", 40) != "Rendering..." {
		t.Fatalf("expected rendering indicator")
	}
	s.Output = state.Output{Kind: state.Failed, Message: "Parse error on line 2"}
	if out := p.View(s, "", 40); !strings.Contains(out, "! Parse error on line 2") {
		t.Fatalf("expected error box, got %q", out)
	}
	s.Output = state.Output{Kind: state.Rendered, SVG: sample}
	s.Zoom = 3
	out := p.View(s, "/tmp/p.svg", 40)
	for _, want := range []string{"Diagram 300x150 at 150%", "• Start", "Live image: /tmp/p.svg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preview.svg")
	if err := WriteFile(path, sample, 50); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `<svg width="100" height="50"`) {
		t.Fatalf("unexpected preview %s", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
