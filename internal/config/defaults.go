package config

import "mermaid-live/internal/render"

// DefaultConfig values. The debounce and status timings match the live
// editor's feel: half a second of quiet before a render, three seconds of
// status before it reverts to Ready.
const (
	DefaultDebounceMS  = 500
	DefaultStatusTTLMS = 3000
	DefaultTimeoutMS   = 30000
	DefaultExportScale = 3
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Renderer: RendererConfig{
			Backend:    render.BackendCLI,
			Command:    render.DefaultCommand,
			URL:        render.DefaultURL,
			Theme:      "default",
			Background: "white",
			TimeoutMS:  DefaultTimeoutMS,
		},
		Editor: EditorConfig{
			DebounceMS:  DefaultDebounceMS,
			StatusTTLMS: DefaultStatusTTLMS,
		},
		Export: ExportConfig{
			Dir:   ".",
			Scale: DefaultExportScale,
		},
		Log: LogConfig{
			Level: "info",
			File:  ".mermaid-live/editor.log",
		},
	}
}
