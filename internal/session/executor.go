package session

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"mermaid-live/internal/export"
	"mermaid-live/internal/heuristic"
	"mermaid-live/internal/render"
	"mermaid-live/internal/source"
	"mermaid-live/internal/tui/state"
)

// Exporter runs an export chain.
type Exporter interface {
	Export(ctx context.Context, in export.Input) (export.Artifact, error)
}

// Copier puts text on a clipboard.
type Copier interface {
	Copy(text string) (fallback bool, err error)
}

// Executor carries out the I/O effects of the state reducer. Timer effects
// belong to the event loop and are not handled here.
type Executor struct {
	Renderer render.Renderer
	Exporter Exporter
	Copier   Copier
	SaveDir  string
	Log      logrus.FieldLogger
}

func (x *Executor) log() logrus.FieldLogger {
	if x.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return x.Log
}

// Perform blocks until eff is done and returns the resulting event. It
// returns nil for effects it does not own.
func (x *Executor) Perform(ctx context.Context, eff state.Effect) state.Event {
	switch e := eff.(type) {
	case state.StartRender:
		return x.render(ctx, e)

	case state.LoadFile:
		doc, err := source.Load(e.Path)
		if err != nil {
			x.log().WithError(err).WithField("path", e.Path).Warn("load failed")
			return state.FileLoadFailed{Name: filepath.Base(e.Path), Err: err}
		}
		return state.FileLoaded{Name: doc.Name, Text: doc.Text}

	case state.AnalyzeImage:
		text, err := heuristic.GenerateFromFile(e.Path)
		if err != nil {
			x.log().WithError(err).WithField("path", e.Path).Warn("image analysis failed")
			return state.ImageDecodeFailed{Name: filepath.Base(e.Path), Err: err}
		}
		return state.ImageLoaded{Name: filepath.Base(e.Path), Text: text}

	case state.WriteSource:
		path, err := export.SaveSource(x.SaveDir, "", e.Text)
		if err != nil {
			return state.SaveFailed{Err: err}
		}
		return state.Saved{Path: path}

	case state.StartExport:
		if x.Exporter == nil {
			return state.ExportFailed{Err: &export.ExportError{}}
		}
		art, err := x.Exporter.Export(ctx, export.Input{ID: render.NewID(), Text: e.Text, SVG: e.SVG})
		if err != nil {
			return state.ExportFailed{Err: err}
		}
		return state.Exported{Path: art.Path, Strategy: art.Strategy, Fallback: art.Fallback, Width: art.Width, Height: art.Height}

	case state.CopyText:
		if x.Copier == nil {
			return state.CopyFailed{}
		}
		fallback, err := x.Copier.Copy(e.Text)
		if err != nil {
			return state.CopyFailed{Err: err}
		}
		return state.Copied{Fallback: fallback}
	}
	return nil
}

func (x *Executor) render(ctx context.Context, e state.StartRender) state.Event {
	log := x.log().WithField("render_id", e.ID)
	if x.Renderer == nil {
		return state.RenderFailed{ID: e.ID, Text: e.Text, Message: "no renderer configured"}
	}
	start := time.Now()
	res, err := x.Renderer.Render(ctx, e.ID, e.Text)
	if err != nil {
		msg := render.ErrorMessage(err)
		log.WithField("error", msg).Debug("render failed")
		return state.RenderFailed{ID: e.ID, Text: e.Text, Message: msg}
	}
	log.WithField("took", time.Since(start).Round(time.Millisecond)).Debug("render done")
	return state.RenderCompleted{ID: e.ID, Text: e.Text, SVG: res.SVG}
}
