package state

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"mermaid-live/internal/templates"
)

func testReducer() Reducer {
	n := 0
	return Reducer{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Debounce:  500 * time.Millisecond,
		StatusTTL: 3 * time.Second,
	}
}

func findRender(t *testing.T, effs []Effect) StartRender {
	t.Helper()
	for _, e := range effs {
		if sr, ok := e.(StartRender); ok {
			return sr
		}
	}
	t.Fatalf("no StartRender in %+v", effs)
	return StartRender{}
}

func hasRender(effs []Effect) bool {
	for _, e := range effs {
		if _, ok := e.(StartRender); ok {
			return true
		}
	}
	return false
}

func TestRenderNowSuccess(t *testing.T) {
	r := testReducer()
	s := New()
	s.Source = "flowchart TD\nA-->B"

	s, effs := r.Apply(s, RenderRequested{})
	if s.Output.Kind != Rendering || s.Status.Text != "Rendering..." {
		t.Fatalf("expected rendering state, got %+v", s)
	}
	sr := findRender(t, effs)
	if sr.Text != "flowchart TD\nA-->B" || sr.ID != s.RenderID {
		t.Fatalf("unexpected render effect %+v", sr)
	}

	s, _ = r.Apply(s, RenderCompleted{ID: sr.ID, Text: sr.Text, SVG: "<svg>ok</svg>"})
	if s.Output.Kind != Rendered || s.Output.SVG != "<svg>ok</svg>" {
		t.Fatalf("expected rendered output, got %+v", s.Output)
	}
	if s.Status.Kind != StatusSuccess {
		t.Fatalf("expected success status, got %+v", s.Status)
	}
	if s.LastValid != "flowchart TD\nA-->B" {
		t.Fatalf("unexpected last valid %q", s.LastValid)
	}
	if Dirty(s) {
		t.Fatalf("freshly rendered source must not be dirty")
	}
}

func TestRenderNowTrimsText(t *testing.T) {
	r := testReducer()
	s := New()
	s.Source = "\n  pie\n \"a\": 1  \n"
	s, effs := r.Apply(s, RenderRequested{})
	sr := findRender(t, effs)
	if sr.Text != "pie\n \"a\": 1" {
		t.Fatalf("expected trimmed text, got %q", sr.Text)
	}
	s, _ = r.Apply(s, RenderCompleted{ID: sr.ID, Text: sr.Text, SVG: "<svg/>"})
	if s.LastValid != sr.Text {
		t.Fatalf("last valid must be the rendered text, got %q", s.LastValid)
	}
}

func TestRenderFailureKeepsLastValid(t *testing.T) {
	r := testReducer()
	s := New()
	s.LastValid = "graph TD"
	s.Output = Output{Kind: Rendered, SVG: "<svg>old</svg>"}
	s.Source = "graph TD\nA-->"

	s, effs := r.Apply(s, RenderRequested{})
	sr := findRender(t, effs)
	s, _ = r.Apply(s, RenderFailed{ID: sr.ID, Text: sr.Text, Message: "Parse error on line 2"})

	if s.Output.Kind != Failed || s.Output.Message != "Parse error on line 2" {
		t.Fatalf("expected error output, got %+v", s.Output)
	}
	if s.Output.SVG != "" {
		t.Fatalf("failed render must not leave old markup on screen")
	}
	if s.Status.Kind != StatusError || s.LastValid != "graph TD" {
		t.Fatalf("unexpected state after failure: %+v", s)
	}
}

func TestEmptyTextAlwaysPlaceholder(t *testing.T) {
	r := testReducer()
	priors := []Output{
		{Kind: Placeholder},
		{Kind: Rendering},
		{Kind: Rendered, SVG: "<svg/>"},
		{Kind: Failed, Message: "boom"},
	}
	for _, text := range []string{"", "   ", "\n\t\n"} {
		for _, prior := range priors {
			s := New()
			s.Output = prior
			s.Source = text
			s.RenderID = "in-flight"
			got, effs := r.Apply(s, RenderRequested{})
			if got.Output.Kind != Placeholder {
				t.Fatalf("text %q from %s: expected placeholder, got %s", text, prior.Kind, got.Output.Kind)
			}
			if hasRender(effs) {
				t.Fatalf("renderer must not be invoked for empty text")
			}
			if got.Status.Kind != StatusReady || got.RenderID != "" {
				t.Fatalf("unexpected state %+v", got)
			}
		}
	}
}

func TestRapidEditsDebounceToOneRender(t *testing.T) {
	r := testReducer()
	s := New()
	var scheduled []ScheduleDebounce
	for _, text := range []string{"g", "gr", "graph", "graph TD", "graph TD\nA-->B"} {
		var effs []Effect
		s, effs = r.Apply(s, TextChanged{Text: text})
		for _, e := range effs {
			if d, ok := e.(ScheduleDebounce); ok {
				if d.After != 500*time.Millisecond {
					t.Fatalf("unexpected debounce %v", d.After)
				}
				scheduled = append(scheduled, d)
			}
		}
	}
	if len(scheduled) != 5 {
		t.Fatalf("expected 5 debounce timers, got %d", len(scheduled))
	}

	// Every timer fires; only the last one may start a render.
	var renders []StartRender
	for _, d := range scheduled {
		var effs []Effect
		s, effs = r.Apply(s, DebounceElapsed{Seq: d.Seq})
		for _, e := range effs {
			if sr, ok := e.(StartRender); ok {
				renders = append(renders, sr)
			}
		}
	}
	if len(renders) != 1 {
		t.Fatalf("expected exactly one render, got %d", len(renders))
	}
	if renders[0].Text != "graph TD\nA-->B" {
		t.Fatalf("expected last text to render, got %q", renders[0].Text)
	}
}

func TestStaleCompletionDiscarded(t *testing.T) {
	r := testReducer()
	s := New()
	s.Source = "graph TD\nA"
	s, effs := r.Apply(s, RenderRequested{})
	first := findRender(t, effs)

	s.Source = "graph TD\nA-->B"
	s, effs = r.Apply(s, RenderRequested{})
	second := findRender(t, effs)

	// The older render finishes after the newer one started.
	s, _ = r.Apply(s, RenderCompleted{ID: first.ID, Text: first.Text, SVG: "<svg>old</svg>"})
	if s.Output.Kind != Rendering || s.LastValid != "" {
		t.Fatalf("stale completion must be discarded, got %+v", s)
	}
	s, _ = r.Apply(s, RenderFailed{ID: first.ID, Text: first.Text, Message: "late"})
	if s.Output.Kind != Rendering {
		t.Fatalf("stale failure must be discarded, got %+v", s.Output)
	}

	s, _ = r.Apply(s, RenderCompleted{ID: second.ID, Text: second.Text, SVG: "<svg>new</svg>"})
	if s.Output.SVG != "<svg>new</svg>" || s.LastValid != second.Text {
		t.Fatalf("expected newest render to win, got %+v", s)
	}

	// A duplicate delivery of the same completion is also ignored.
	s.Source = "changed"
	s2, _ := r.Apply(s, RenderCompleted{ID: second.ID, Text: "x", SVG: "<svg>dup</svg>"})
	if s2.Output.SVG != "<svg>new</svg>" {
		t.Fatalf("duplicate completion must be ignored")
	}
}

func TestClearDiscardsInFlightRender(t *testing.T) {
	r := testReducer()
	s := New()
	s.Source = "graph TD"
	s, effs := r.Apply(s, RenderRequested{})
	sr := findRender(t, effs)

	s, _ = r.Apply(s, Cleared{})
	if s.Output.Kind != Placeholder || s.Source != "" {
		t.Fatalf("expected cleared placeholder, got %+v", s)
	}
	s, _ = r.Apply(s, RenderCompleted{ID: sr.ID, Text: sr.Text, SVG: "<svg/>"})
	if s.Output.Kind != Placeholder {
		t.Fatalf("render finishing after clear must not replace placeholder")
	}
}

func TestClearCancelsPendingDebounce(t *testing.T) {
	r := testReducer()
	s, effs := r.Apply(New(), TextChanged{Text: "graph TD"})
	d := effs[0].(ScheduleDebounce)
	s, _ = r.Apply(s, Cleared{})
	if _, effs = r.Apply(s, DebounceElapsed{Seq: d.Seq}); hasRender(effs) {
		t.Fatalf("debounce armed before clear must not render")
	}
}

func TestStatusExpiry(t *testing.T) {
	r := testReducer()
	s := New()
	s, effs := r.Apply(s, SaveRequested{})
	if s.Status.Kind != StatusWarning {
		t.Fatalf("expected warning for empty save, got %+v", s.Status)
	}
	first := effs[0].(ScheduleStatusExpiry)
	if first.After != 3*time.Second {
		t.Fatalf("unexpected ttl %v", first.After)
	}

	s, effs = r.Apply(s, CopyRequested{})
	second := effs[0].(ScheduleStatusExpiry)

	s, _ = r.Apply(s, StatusExpired{Seq: first.Seq})
	if s.Status.Text != "No code to copy" {
		t.Fatalf("older expiry must not clear a newer status, got %+v", s.Status)
	}
	s, _ = r.Apply(s, StatusExpired{Seq: second.Seq})
	if s.Status.Text != ReadyText || s.Status.Kind != StatusReady {
		t.Fatalf("expected Ready after expiry, got %+v", s.Status)
	}
}

func TestTemplateSelected(t *testing.T) {
	r := testReducer()
	s := New()
	s.Source = "old text"
	s, effs := r.Apply(s, TemplateSelected{Key: templates.Sequence})
	want, _ := templates.Lookup(templates.Sequence)
	if s.Source != want {
		t.Fatalf("template must replace the source wholesale")
	}
	found := false
	for _, e := range effs {
		if _, ok := e.(ScheduleDebounce); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("template insertion must schedule a render")
	}

	before := s
	s, effs = r.Apply(s, TemplateSelected{Key: "mindmap"})
	if s != before || len(effs) != 0 {
		t.Fatalf("unknown key must be a no-op")
	}
}

func TestFileAndImageEvents(t *testing.T) {
	r := testReducer()
	s, effs := r.Apply(New(), OpenFileRequested{Path: "/tmp/x/diagram.mmd"})
	if effs[len(effs)-1] != (LoadFile{Path: "/tmp/x/diagram.mmd"}) {
		t.Fatalf("expected LoadFile effect, got %+v", effs)
	}
	s, _ = r.Apply(s, FileLoaded{Name: "diagram.mmd", Text: "pie"})
	if s.Source != "pie" || s.FileName != "diagram.mmd" || s.Status.Kind != StatusSuccess {
		t.Fatalf("unexpected state after load: %+v", s)
	}

	s, _ = r.Apply(s, FileLoadFailed{Name: "x", Err: errors.New("permission denied")})
	if s.Status.Kind != StatusError || !strings.Contains(s.Status.Text, "permission denied") {
		t.Fatalf("expected error status, got %+v", s.Status)
	}
	if s.Source != "pie" {
		t.Fatalf("failed load must not touch the source")
	}

	s, effs = r.Apply(s, OpenImageRequested{Path: "shot.png"})
	if effs[len(effs)-1] != (AnalyzeImage{Path: "shot.png"}) {
		t.Fatalf("expected AnalyzeImage effect, got %+v", effs)
	}
	s, _ = r.Apply(s, ImageLoaded{Name: "shot.png", Text: "mindmap\n  root"})
	if s.Source != "mindmap\n  root" || !strings.Contains(s.Status.Text, "shot.png") {
		t.Fatalf("unexpected state after image: %+v", s)
	}
	s, _ = r.Apply(s, ImageDecodeFailed{Name: "bad.png", Err: errors.New("unknown format")})
	if s.Status.Kind != StatusError {
		t.Fatalf("expected error status for decode failure")
	}
}

func TestExportRequiresRenderedDiagram(t *testing.T) {
	r := testReducer()
	s := New()
	s, effs := r.Apply(s, ExportRequested{})
	if s.Status.Text != "No diagram to export" || len(effs) != 1 {
		t.Fatalf("expected warning only, got %+v %+v", s.Status, effs)
	}

	s.Output = Output{Kind: Rendered, SVG: "<svg/>"}
	s.LastValid = "graph TD"
	_, effs = r.Apply(s, ExportRequested{})
	if effs[len(effs)-1] != (StartExport{Text: "graph TD", SVG: "<svg/>"}) {
		t.Fatalf("expected StartExport, got %+v", effs)
	}

	s, _ = r.Apply(s, Exported{Path: "mermaid-diagram.svg", Strategy: "svg", Fallback: true})
	if !strings.Contains(s.Status.Text, "as svg") {
		t.Fatalf("fallback export must be reported, got %q", s.Status.Text)
	}
	s, _ = r.Apply(s, Exported{Path: "mermaid-diagram-hq.png", Strategy: "png", Width: 300, Height: 150})
	if !strings.Contains(s.Status.Text, "300x150") {
		t.Fatalf("expected dimensions in status, got %q", s.Status.Text)
	}
	s, _ = r.Apply(s, ExportFailed{Err: errors.New("disk full")})
	if s.Status.Kind != StatusError {
		t.Fatalf("expected error status")
	}
}

func TestSaveAndCopy(t *testing.T) {
	r := testReducer()
	s := New()
	s.Source = "graph TD"
	_, effs := r.Apply(s, SaveRequested{})
	if len(effs) != 1 || effs[0] != (WriteSource{Text: "graph TD"}) {
		t.Fatalf("expected WriteSource, got %+v", effs)
	}
	_, effs = r.Apply(s, CopyRequested{})
	if len(effs) != 1 || effs[0] != (CopyText{Text: "graph TD"}) {
		t.Fatalf("expected CopyText, got %+v", effs)
	}
	s, _ = r.Apply(s, Copied{Fallback: true})
	if !strings.Contains(s.Status.Text, "terminal") {
		t.Fatalf("fallback copy must be reported, got %q", s.Status.Text)
	}
	s, _ = r.Apply(s, SaveFailed{Err: nil})
	if !strings.Contains(s.Status.Text, "unknown error") {
		t.Fatalf("nil error must still produce a message, got %q", s.Status.Text)
	}
}

func TestViewEventsDelegateToReducers(t *testing.T) {
	r := testReducer()
	s := New()
	s, _ = r.Apply(s, ZoomInPressed{})
	s, _ = r.Apply(s, ViewToggled{})
	s, _ = r.Apply(s, FullscreenToggled{})
	if s.Zoom != 3 || s.View != ViewEditor || !s.Fullscreen {
		t.Fatalf("unexpected view state %+v", s)
	}
	s, _ = r.Apply(s, ZoomOutPressed{})
	s, _ = r.Apply(s, ZoomOutPressed{})
	s, _ = r.Apply(s, ZoomResetPressed{})
	if s.Zoom != DefaultZoom {
		t.Fatalf("expected default zoom, got %d", s.Zoom)
	}
}
