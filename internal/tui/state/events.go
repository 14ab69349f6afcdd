package state

import (
	"time"

	"mermaid-live/internal/templates"
)

// Event is something that happened to the editor: a user action, a timer
// firing, or an async result arriving. Apply turns events into new state.
type Event interface{ isEvent() }

type (
	// TextChanged is an edit; it replaces the source and restarts the
	// debounce window.
	TextChanged struct{ Text string }
	// DebounceElapsed fires when the quiet window for Seq is over.
	DebounceElapsed struct{ Seq int }
	// RenderRequested renders the current source immediately.
	RenderRequested struct{}
	RenderCompleted struct{ ID, Text, SVG string }
	RenderFailed    struct{ ID, Text, Message string }
	StatusExpired   struct{ Seq int }

	TemplateSelected struct{ Key templates.Key }
	Cleared          struct{}

	OpenFileRequested  struct{ Path string }
	FileLoaded         struct{ Name, Text string }
	FileLoadFailed struct {
		Name string
		Err  error
	}
	OpenImageRequested struct{ Path string }
	ImageLoaded        struct{ Name, Text string }
	ImageDecodeFailed struct {
		Name string
		Err  error
	}

	SaveRequested struct{}
	Saved         struct{ Path string }
	SaveFailed    struct{ Err error }

	ExportRequested struct{}
	// Exported reports where the export landed. Fallback is true when a
	// lower-fidelity strategy had to be used.
	Exported struct {
		Path          string
		Strategy      string
		Fallback      bool
		Width, Height int
	}
	ExportFailed struct{ Err error }

	CopyRequested struct{}
	Copied        struct{ Fallback bool }
	CopyFailed    struct{ Err error }

	ZoomInPressed     struct{}
	ZoomOutPressed    struct{}
	ZoomResetPressed  struct{}
	ViewToggled       struct{}
	FullscreenToggled struct{}
)

func (TextChanged) isEvent()        {}
func (DebounceElapsed) isEvent()    {}
func (RenderRequested) isEvent()    {}
func (RenderCompleted) isEvent()    {}
func (RenderFailed) isEvent()       {}
func (StatusExpired) isEvent()      {}
func (TemplateSelected) isEvent()   {}
func (Cleared) isEvent()            {}
func (OpenFileRequested) isEvent()  {}
func (FileLoaded) isEvent()         {}
func (FileLoadFailed) isEvent()     {}
func (OpenImageRequested) isEvent() {}
func (ImageLoaded) isEvent()        {}
func (ImageDecodeFailed) isEvent()  {}
func (SaveRequested) isEvent()      {}
func (Saved) isEvent()              {}
func (SaveFailed) isEvent()         {}
func (ExportRequested) isEvent()    {}
func (Exported) isEvent()           {}
func (ExportFailed) isEvent()       {}
func (CopyRequested) isEvent()      {}
func (Copied) isEvent()             {}
func (CopyFailed) isEvent()         {}
func (ZoomInPressed) isEvent()      {}
func (ZoomOutPressed) isEvent()     {}
func (ZoomResetPressed) isEvent()   {}
func (ViewToggled) isEvent()        {}
func (FullscreenToggled) isEvent()  {}

// Effect is work the event loop must carry out on behalf of Apply. Results
// come back as events.
type Effect interface{ isEffect() }

type (
	// ScheduleDebounce asks for DebounceElapsed{Seq} after the delay.
	ScheduleDebounce struct {
		Seq   int
		After time.Duration
	}
	// ScheduleStatusExpiry asks for StatusExpired{Seq} after the delay.
	ScheduleStatusExpiry struct {
		Seq   int
		After time.Duration
	}
	// StartRender runs the renderer; the result is RenderCompleted or
	// RenderFailed carrying the same ID and Text.
	StartRender struct{ ID, Text string }
	// LoadFile reads a text file; the result is FileLoaded or FileLoadFailed.
	LoadFile struct{ Path string }
	// AnalyzeImage decodes an image and generates diagram text; the result
	// is ImageLoaded or ImageDecodeFailed.
	AnalyzeImage struct{ Path string }
	// WriteSource saves the source; the result is Saved or SaveFailed.
	WriteSource struct{ Text string }
	// StartExport runs the export chain; the result is Exported or
	// ExportFailed.
	StartExport struct{ Text, SVG string }
	// CopyText puts text on the clipboard; the result is Copied or
	// CopyFailed.
	CopyText struct{ Text string }
)

func (ScheduleDebounce) isEffect()     {}
func (ScheduleStatusExpiry) isEffect() {}
func (StartRender) isEffect()          {}
func (LoadFile) isEffect()             {}
func (AnalyzeImage) isEffect()         {}
func (WriteSource) isEffect()          {}
func (StartExport) isEffect()          {}
func (CopyText) isEffect()             {}
