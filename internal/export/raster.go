package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"mermaid-live/internal/render"
)

// DefaultScale is the raster export resolution multiplier.
const DefaultScale = 3.0

const captionSize = 12.0

// Raster asks the renderer for a bitmap and writes it flattened onto a
// white background as <name>-hq.png. Caption, when set, is drawn in a
// footer band below the diagram.
type Raster struct {
	Rasterizer render.Rasterizer
	Scale      float64
	Caption    string
}

func (r Raster) Name() string { return "png" }

func (r Raster) Export(ctx context.Context, dir string, in Input) (Artifact, error) {
	if r.Rasterizer == nil {
		return Artifact{}, errors.New("no rasterizer available")
	}
	scale := r.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	id := in.ID
	if id == "" {
		id = render.NewID()
	}
	img, err := r.Rasterizer.Rasterize(ctx, id, in.Text, scale)
	if err != nil {
		return Artifact{}, fmt.Errorf("rasterize: %w", err)
	}
	dc, err := flatten(img, r.Caption)
	if err != nil {
		return Artifact{}, err
	}
	path := filepath.Join(dir, in.stem()+"-hq.png")
	if err := dc.SavePNG(path); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Artifact{Path: path, Width: dc.Width(), Height: dc.Height()}, nil
}

// flatten draws img on an opaque white canvas, optionally with a caption
// band underneath.
func flatten(img image.Image, caption string) (*gg.Context, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("rasterizer returned an empty image")
	}
	band := 0
	var face font.Face
	if caption != "" {
		f, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		face = truetype.NewFace(f, &truetype.Options{Size: captionSize, DPI: 72, Hinting: font.HintingFull})
		band = int(captionSize * 2)
	}

	dc := gg.NewContext(b.Dx(), b.Dy()+band)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	if face != nil {
		dc.SetFontFace(face)
		dc.SetColor(color.Gray{Y: 96})
		dc.DrawStringAnchored(caption, float64(b.Dx())/2, float64(b.Dy())+float64(band)/2, 0.5, 0.5)
	}
	return dc, nil
}
