package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPathPromptSuggestsAndSubmits(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"flow.mmd", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p := newPathPrompt(promptOpenFile)
	p, path, cancelled := p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(filepath.Join(dir, "fl"))})
	if path != "" || cancelled {
		t.Fatalf("typing must not submit")
	}
	if len(p.suggest) != 1 || !strings.HasSuffix(p.suggest[0], "flow.mmd") {
		t.Fatalf("unexpected suggestions %v", p.suggest)
	}
	p, _, _ = p.update(tea.KeyMsg{Type: tea.KeyTab})
	_, path, _ = p.update(tea.KeyMsg{Type: tea.KeyEnter})
	if path != filepath.Join(dir, "flow.mmd") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestPathPromptMissingFile(t *testing.T) {
	p := newPathPrompt(promptOpenImage)
	p, _, _ = p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(filepath.Join(t.TempDir(), "nope.png"))})
	p, path, _ := p.update(tea.KeyMsg{Type: tea.KeyEnter})
	if path != "" || !strings.HasPrefix(p.msg, "! not found:") {
		t.Fatalf("expected not-found message, got path=%q msg=%q", path, p.msg)
	}
	if !strings.Contains(p.view(), "Generate from image") {
		t.Fatalf("expected image prompt title")
	}
	if _, _, cancelled := p.update(tea.KeyMsg{Type: tea.KeyEsc}); !cancelled {
		t.Fatalf("esc must cancel")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("MERMAID_TEST_DIR", "/tmp/diagrams")
	if got := expandPath("$MERMAID_TEST_DIR/a.mmd"); got != "/tmp/diagrams/a.mmd" {
		t.Fatalf("env not expanded: %q", got)
	}
	if got := expandPath("rel.mmd"); !filepath.IsAbs(got) {
		t.Fatalf("relative path not made absolute: %q", got)
	}
}
