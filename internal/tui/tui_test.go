package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	catalog "mermaid-live/internal/templates"
	"mermaid-live/internal/tui/state"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 40"><text>A</text></svg>`

type fakePerformer struct{}

func (fakePerformer) Perform(_ context.Context, eff state.Effect) state.Event {
	switch e := eff.(type) {
	case state.StartRender:
		if strings.Contains(e.Text, "oops") {
			return state.RenderFailed{ID: e.ID, Text: e.Text, Message: "Parse error"}
		}
		return state.RenderCompleted{ID: e.ID, Text: e.Text, SVG: testSVG}
	case state.CopyText:
		return state.Copied{}
	}
	return nil
}

func testModel(t *testing.T, source string) model {
	t.Helper()
	r := state.NewReducer()
	r.Debounce = time.Millisecond
	r.StatusTTL = time.Millisecond
	initial := state.New()
	initial.Source = source
	lg := logrus.New()
	lg.SetOutput(os.Stderr)
	return newModel(context.Background(), Options{
		Reducer:     r,
		Performer:   fakePerformer{},
		Initial:     initial,
		PreviewFile: filepath.Join(t.TempDir(), "preview.svg"),
		NoColor:     true,
		Log:         lg,
	})
}

// drain runs cmd and everything it batches, returning the editor events.
func drain(cmd tea.Cmd) []state.Event {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []state.Event
		for _, c := range msg {
			out = append(out, drain(c)...)
		}
		return out
	case eventMsg:
		return []state.Event{msg.ev}
	}
	return nil
}

// settle feeds async results back until nothing is pending.
func settle(m model, cmd tea.Cmd) model {
	for i := 0; i < 10 && cmd != nil; i++ {
		var cmds []tea.Cmd
		for _, ev := range drain(cmd) {
			var c tea.Cmd
			m, c = m.apply(ev)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)
	}
	return m
}

func press(m model, msgs ...tea.KeyMsg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range msgs {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestRenderWritesPreviewFile(t *testing.T) {
	m := testModel(t, "graph TD\nA-->B")
	m, cmd := m.apply(state.RenderRequested{})
	if m.state.Output.Kind != state.Rendering {
		t.Fatalf("expected rendering, got %s", m.state.Output.Kind)
	}
	m = settle(m, cmd)
	if m.state.Output.Kind != state.Rendered || m.state.LastValid != "graph TD\nA-->B" {
		t.Fatalf("expected rendered output, got %+v", m.state.Output)
	}
	data, err := os.ReadFile(m.previewFile)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if !strings.HasPrefix(string(data), `<svg width="100" height="40"`) {
		t.Fatalf("unexpected preview: %s", data)
	}

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("="), Alt: true})
	settle(m, cmd)
	if state.ZoomPercent(m.state) != 150 {
		t.Fatalf("expected zoom 150%%, got %d", state.ZoomPercent(m.state))
	}
	data, _ = os.ReadFile(m.previewFile)
	if !strings.HasPrefix(string(data), `<svg width="150" height="60"`) {
		t.Fatalf("zoom not applied to preview: %s", data)
	}
}

func TestTypingDebouncesIntoRender(t *testing.T) {
	m := testModel(t, "")
	m, cmd := press(m, runes("p"), runes("i"), runes("e"))
	if m.state.Source != "pie" || m.state.DebounceSeq != 3 {
		t.Fatalf("unexpected state after typing: source=%q seq=%d", m.state.Source, m.state.DebounceSeq)
	}
	evs := drain(cmd)
	found := false
	for _, ev := range evs {
		if d, ok := ev.(state.DebounceElapsed); ok && d.Seq == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected debounce for the last edit, got %#v", evs)
	}
}

func TestTabIndents(t *testing.T) {
	m := testModel(t, "")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state.Source != "  " || m.editor.Value() != "  " {
		t.Fatalf("expected two spaces, got %q", m.state.Source)
	}
}

func TestTemplatePicker(t *testing.T) {
	m := testModel(t, "")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.mode != modeTemplates {
		t.Fatalf("expected template mode")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	want, _ := catalog.Lookup(catalog.Sequence)
	if m.mode != modeEdit || m.state.Source != want || m.editor.Value() != want {
		t.Fatalf("template not inserted: mode=%s source=%q", m.mode, m.state.Source)
	}
}

func TestClearAsksFirst(t *testing.T) {
	m := testModel(t, "pie")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.mode != modeConfirm {
		t.Fatalf("expected confirmation")
	}
	m, _ = press(m, runes("n"))
	if m.state.Source != "pie" {
		t.Fatalf("declined clear must keep the text")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL}, runes("y"))
	if m.state.Source != "" || m.editor.Value() != "" || m.state.Status.Text != "Editor cleared" {
		t.Fatalf("expected cleared editor, got %+v", m.state)
	}
}

func TestQuitWithUnrenderedChanges(t *testing.T) {
	m := testModel(t, "pie")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if m.mode != modeConfirm || cmd != nil {
		t.Fatalf("dirty editor must confirm before quitting")
	}
	_, cmd = press(m, runes("y"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}

	clean := testModel(t, "")
	if _, cmd := press(clean, tea.KeyMsg{Type: tea.KeyCtrlQ}); cmd == nil {
		t.Fatalf("clean editor quits directly")
	}
}

func TestOpenFilePrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.mmd")
	if err := os.WriteFile(path, []byte("graph LR\nX-->Y"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := testModel(t, "")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, runes(path))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeEdit {
		t.Fatalf("prompt should close after a valid path")
	}
	if m.state.Status.Text != "Loading flow.mmd..." {
		t.Fatalf("unexpected status %q", m.state.Status.Text)
	}
}

func TestViewLayouts(t *testing.T) {
	m := testModel(t, "pie")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)
	out := m.View()
	for _, want := range []string{"Mermaid Live", "[Unsaved]", "Your diagram will appear here", "Ready"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in split view", want)
		}
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyF2})
	if m.state.View != state.ViewEditor || strings.Contains(m.View(), "Your diagram will appear here") {
		t.Fatalf("editor-only view must hide the preview")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyF11})
	if !m.state.Fullscreen || !strings.Contains(m.View(), "esc: leave fullscreen") {
		t.Fatalf("expected fullscreen preview")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.Fullscreen {
		t.Fatalf("esc must leave fullscreen")
	}
}
