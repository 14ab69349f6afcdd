package diff

import (
	"strings"
	"testing"
)

func TestUnifiedSnapshot(t *testing.T) {
	out := NewDiffView(true).View("graph TD\nA-->B", "graph TD\nA-->C", false, 0)
	want := "RENDERED vs BUFFER\n  graph TD\n- A-->B\n+ A-->C\n"
	if out != want {
		t.Fatalf("unexpected unified diff:\n%q\nwant\n%q", out, want)
	}
}

func TestUnifiedLineCountMismatch(t *testing.T) {
	out := NewDiffView(true).View("pie", "pie\n\"a\" : 1", false, 0)
	if !strings.Contains(out, "- pie\n+ pie\n+ \"a\" : 1\n") {
		t.Fatalf("expected block diff, got %q", out)
	}
}

func TestSideBySideSnapshot(t *testing.T) {
	out := NewDiffView(true).View("left", "right", true, 60)
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "RENDERED") || !strings.HasSuffix(lines[0], " │ BUFFER") {
		t.Fatalf("missing header: %q", lines[0])
	}
	if !strings.Contains(lines[1], " │ ") {
		t.Fatalf("missing separator: %q", lines[1])
	}
}

func TestNoChanges(t *testing.T) {
	if out := NewDiffView(true).View("x", "x", true, 80); out != NoChanges {
		t.Fatalf("got %q", out)
	}
}
