package state

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mermaid-live/internal/render"
	"mermaid-live/internal/templates"
)

// Default timings for the edit loop.
const (
	DefaultDebounce  = 500 * time.Millisecond
	DefaultStatusTTL = 3 * time.Second
)

// Reducer holds the knobs of the state transition function. It carries no
// state of its own; the zero value is not usable, use NewReducer.
type Reducer struct {
	NewID     func() string
	Debounce  time.Duration
	StatusTTL time.Duration
}

// NewReducer returns a Reducer with render.NewID and the default timings.
func NewReducer() Reducer {
	return Reducer{
		NewID:     render.NewID,
		Debounce:  DefaultDebounce,
		StatusTTL: DefaultStatusTTL,
	}
}

// Apply is the editor's state transition function. It never blocks and
// never does I/O; anything that must happen outside is returned as effects.
func (r Reducer) Apply(s EditorState, ev Event) (EditorState, []Effect) {
	switch e := ev.(type) {
	case TextChanged:
		s.Source = e.Text
		return r.schedule(s)

	case DebounceElapsed:
		if e.Seq != s.DebounceSeq {
			return s, nil
		}
		return r.RenderNow(s)

	case RenderRequested:
		return r.RenderNow(s)

	case RenderCompleted:
		if e.ID == "" || e.ID != s.RenderID {
			return s, nil
		}
		s.RenderID = ""
		s.Output = Output{Kind: Rendered, SVG: e.SVG}
		s.LastValid = e.Text
		return r.status(s, "Diagram rendered", StatusSuccess)

	case RenderFailed:
		if e.ID == "" || e.ID != s.RenderID {
			return s, nil
		}
		s.RenderID = ""
		s.Output = Output{Kind: Failed, Message: e.Message}
		return r.status(s, "Diagram error", StatusError)

	case StatusExpired:
		if e.Seq == s.StatusSeq {
			s.Status = Status{Text: ReadyText, Kind: StatusReady}
		}
		return s, nil

	case TemplateSelected:
		text, ok := templates.Lookup(e.Key)
		if !ok {
			return s, nil
		}
		s.Source = text
		return r.edited(s, "Template: "+templates.Titles[e.Key], StatusInfo)

	case Cleared:
		s.Source = ""
		s.FileName = ""
		s.DebounceSeq++
		s.RenderID = ""
		s.Output = Output{Kind: Placeholder}
		return r.status(s, "Editor cleared", StatusInfo)

	case OpenFileRequested:
		return r.withStatus(s, "Loading "+filepath.Base(e.Path)+"...", StatusInfo, LoadFile{Path: e.Path})

	case FileLoaded:
		s.Source = e.Text
		s.FileName = e.Name
		return r.edited(s, fmt.Sprintf("File %q loaded", e.Name), StatusSuccess)

	case FileLoadFailed:
		return r.status(s, "Could not load file: "+errText(e.Err), StatusError)

	case OpenImageRequested:
		return r.withStatus(s, "Analyzing image...", StatusInfo, AnalyzeImage{Path: e.Path})

	case ImageLoaded:
		s.Source = e.Text
		return r.edited(s, fmt.Sprintf("Diagram code generated from %q", e.Name), StatusSuccess)

	case ImageDecodeFailed:
		return r.status(s, "Could not process image: "+errText(e.Err), StatusError)

	case SaveRequested:
		if strings.TrimSpace(s.Source) == "" {
			return r.status(s, "No code to save", StatusWarning)
		}
		return s, []Effect{WriteSource{Text: s.Source}}

	case Saved:
		return r.status(s, "Saved "+e.Path, StatusSuccess)

	case SaveFailed:
		return r.status(s, "Could not save: "+errText(e.Err), StatusError)

	case ExportRequested:
		if s.Output.Kind != Rendered {
			return r.status(s, "No diagram to export", StatusWarning)
		}
		return r.withStatus(s, "Exporting high-quality image...", StatusInfo, StartExport{Text: s.LastValid, SVG: s.Output.SVG})

	case Exported:
		if e.Fallback {
			return r.status(s, "Diagram exported as "+e.Strategy+": "+e.Path, StatusSuccess)
		}
		return r.status(s, fmt.Sprintf("High-quality image exported (%dx%d): %s", e.Width, e.Height, e.Path), StatusSuccess)

	case ExportFailed:
		return r.status(s, "Export failed: "+errText(e.Err), StatusError)

	case CopyRequested:
		if strings.TrimSpace(s.Source) == "" {
			return r.status(s, "No code to copy", StatusWarning)
		}
		return s, []Effect{CopyText{Text: s.Source}}

	case Copied:
		if e.Fallback {
			return r.status(s, "Code sent to the terminal clipboard", StatusSuccess)
		}
		return r.status(s, "Code copied to clipboard", StatusSuccess)

	case CopyFailed:
		return r.status(s, "Could not copy code: "+errText(e.Err), StatusError)

	case ZoomInPressed:
		return ZoomIn(s), nil
	case ZoomOutPressed:
		return ZoomOut(s), nil
	case ZoomResetPressed:
		return ResetZoom(s), nil
	case ViewToggled:
		return ToggleView(s), nil
	case FullscreenToggled:
		return ToggleFullscreen(s), nil
	}
	return s, nil
}

// RenderNow starts a render of the current source, or shows the
// placeholder when there is nothing to render. Any earlier in-flight render
// is superseded: its completion will carry a stale ID.
func (r Reducer) RenderNow(s EditorState) (EditorState, []Effect) {
	text := strings.TrimSpace(s.Source)
	if text == "" {
		s.RenderID = ""
		s.Output = Output{Kind: Placeholder}
		s.StatusSeq++
		s.Status = Status{Text: ReadyText, Kind: StatusReady}
		return s, nil
	}
	s.RenderID = r.NewID()
	s.Output = Output{Kind: Rendering}
	return r.withStatus(s, "Rendering...", StatusInfo, StartRender{ID: s.RenderID, Text: text})
}

func (r Reducer) schedule(s EditorState) (EditorState, []Effect) {
	s.DebounceSeq++
	return s, []Effect{ScheduleDebounce{Seq: s.DebounceSeq, After: r.Debounce}}
}

// edited restarts the debounce window after the source was replaced and
// posts a status.
func (r Reducer) edited(s EditorState, text string, kind StatusKind) (EditorState, []Effect) {
	s.DebounceSeq++
	return r.withStatus(s, text, kind, ScheduleDebounce{Seq: s.DebounceSeq, After: r.Debounce})
}

func (r Reducer) withStatus(s EditorState, text string, kind StatusKind, extra ...Effect) (EditorState, []Effect) {
	s, effs := r.status(s, text, kind)
	return s, append(effs, extra...)
}

// status replaces the status line and arms its expiry. A newer status bumps
// StatusSeq, so older expiries become no-ops.
func (r Reducer) status(s EditorState, text string, kind StatusKind) (EditorState, []Effect) {
	s.StatusSeq++
	s.Status = Status{Text: text, Kind: kind}
	return s, []Effect{ScheduleStatusExpiry{Seq: s.StatusSeq, After: r.StatusTTL}}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
