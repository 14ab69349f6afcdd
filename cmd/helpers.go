package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"mermaid-live/internal/clipboard"
	"mermaid-live/internal/config"
	"mermaid-live/internal/export"
	"mermaid-live/internal/render"
	"mermaid-live/internal/session"
	"mermaid-live/internal/tui/state"
)

// loadConfig loads and validates the config, applying flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mermaid-live init` to create a config file", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the command logger. A nil w sends output to the log
// file from the config, which is what the full-screen editor needs.
func newLogger(cfg *config.Config, w io.Writer) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	if w != nil {
		log.SetOutput(w)
		return log, func() {}, nil
	}
	if cfg.Log.File == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return log, func() { _ = f.Close() }, nil
}

// newBackend builds the configured renderer backend.
func newBackend(cfg *config.Config, log logrus.FieldLogger) (render.Backend, error) {
	b, err := render.New(cfg.RenderOptions(), log)
	if err != nil {
		return nil, err
	}
	log.WithField("backend", b.Name()).Debug("renderer ready")
	return b, nil
}

// newExportChain returns the high quality raster strategy followed by the
// vector fallback, writing into dir. caption is drawn under PNG output.
func newExportChain(cfg *config.Config, b render.Backend, dir, caption string, log logrus.FieldLogger) *export.Chain {
	return export.NewChain(dir, log,
		export.Raster{Rasterizer: b, Scale: cfg.Export.Scale, Caption: caption},
		export.Vector{},
	)
}

// newReducer applies the configured timings.
func newReducer(cfg *config.Config) state.Reducer {
	r := state.NewReducer()
	r.Debounce = cfg.Debounce()
	r.StatusTTL = cfg.StatusTTL()
	return r
}

// newExecutor wires the I/O side of the editor. term receives the OSC52
// clipboard fallback.
func newExecutor(cfg *config.Config, b render.Backend, term io.Writer, log logrus.FieldLogger) *session.Executor {
	return &session.Executor{
		Renderer: b,
		Exporter: newExportChain(cfg, b, cfg.Export.Dir, "", log),
		Copier:   clipboard.New(term),
		SaveDir:  cfg.Export.Dir,
		Log:      log,
	}
}
