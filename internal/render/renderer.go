package render

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/oklog/ulid/v2"
)

// IDPrefix starts every render identifier.
const IDPrefix = "mermaid-diagram-"

const unknownMessage = "unknown error while rendering diagram"

// Result is the output of one successful render.
type Result struct {
	SVG string
}

// Renderer turns diagram text into SVG markup. id is unique per call so
// overlapping renders never share scratch state.
type Renderer interface {
	Render(ctx context.Context, id, text string) (Result, error)
}

// Rasterizer turns diagram text into a bitmap at the given scale.
type Rasterizer interface {
	Rasterize(ctx context.Context, id, text string, scale float64) (image.Image, error)
}

// Backend is a renderer that can also produce bitmaps.
type Backend interface {
	Renderer
	Rasterizer
	Name() string
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(ctx context.Context, id, text string) (Result, error)

func (f RendererFunc) Render(ctx context.Context, id, text string) (Result, error) {
	return f(ctx, id, text)
}

// RasterizerFunc adapts a plain function to Rasterizer.
type RasterizerFunc func(ctx context.Context, id, text string, scale float64) (image.Image, error)

func (f RasterizerFunc) Rasterize(ctx context.Context, id, text string, scale float64) (image.Image, error) {
	return f(ctx, id, text, scale)
}

// RenderError is returned when the renderer rejected the diagram text.
// Message is the renderer's own explanation when it gave one.
type RenderError struct {
	ID      string
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *RenderError) Unwrap() error { return e.Err }

// ErrorMessage extracts the text shown to the user for a failed render:
// the structured message when present, then the error string, then a
// generic fallback.
func ErrorMessage(err error) string {
	var re *RenderError
	if errors.As(err, &re) && strings.TrimSpace(re.Message) != "" {
		return strings.TrimSpace(re.Message)
	}
	if err != nil {
		if s := strings.TrimSpace(err.Error()); s != "" {
			return s
		}
	}
	return unknownMessage
}

// NewID returns a fresh, time-ordered render identifier.
func NewID() string {
	return IDPrefix + strings.ToLower(ulid.Make().String())
}
