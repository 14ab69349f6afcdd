package state

import "mermaid-live/internal/templates"

// OutputKind is the state of the preview region.
type OutputKind int

const (
	Placeholder OutputKind = iota
	Rendering
	Rendered
	Failed
)

func (k OutputKind) String() string {
	switch k {
	case Rendering:
		return "rendering"
	case Rendered:
		return "rendered"
	case Failed:
		return "error"
	default:
		return "placeholder"
	}
}

// Output is what the preview region shows. SVG is set only when Kind is
// Rendered, Message only when Kind is Failed.
type Output struct {
	Kind    OutputKind
	SVG     string
	Message string
}

// StatusKind colors the status line.
type StatusKind int

const (
	StatusReady StatusKind = iota
	StatusInfo
	StatusSuccess
	StatusWarning
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusInfo:
		return "info"
	case StatusSuccess:
		return "success"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "ready"
	}
}

// ReadyText is the idle status line.
const ReadyText = "Ready"

// Status is the transient message on the status line.
type Status struct {
	Text string
	Kind StatusKind
}

// ViewMode selects which panes are visible.
type ViewMode int

const (
	ViewSplit ViewMode = iota
	ViewEditor
	ViewPreview
)

func (v ViewMode) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewPreview:
		return "preview"
	default:
		return "split"
	}
}

// Zoom bounds. Each step is 50% of preview scale.
const (
	MinZoom     = 1
	MaxZoom     = 4
	DefaultZoom = 2
)

// EditorState is everything the editor shows. It is owned by a single
// event loop and only changed through the reducers in this package.
type EditorState struct {
	Source     string
	LastValid  string
	FileName   string
	Zoom       int
	View       ViewMode
	Fullscreen bool
	Output     Output
	Status     Status

	// Bookkeeping for timers and in-flight renders.
	DebounceSeq int
	StatusSeq   int
	RenderID    string
}

// New returns an empty editor at the default zoom and split view.
func New() EditorState {
	return EditorState{
		Zoom:   DefaultZoom,
		View:   ViewSplit,
		Status: Status{Text: ReadyText, Kind: StatusReady},
	}
}

// NewWithExample returns New with the default example loaded as source.
func NewWithExample() EditorState {
	s := New()
	s.Source = templates.DefaultExample
	return s
}
