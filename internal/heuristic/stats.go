package heuristic

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Sampling and rule thresholds. These are fixed contract values; the rule
// table in Classify depends on the exact comparisons.
const (
	MaxSampleSize = 200

	BrightThreshold = 128.0 // brightness above this counts as bright
	EdgeThreshold   = 50.0  // brightness jump to the pixel above that counts as an edge

	FlowchartEdgeRatio  = 0.1
	FlowchartAspect     = 1.2
	SequenceAspect      = 0.8
	SequenceEdgeDensity = 0.05
	StateBrightness     = 0.7
)

// Statistics are the coarse measurements taken from one sampled raster.
type Statistics struct {
	Bright int
	Dark   int
	Edges  int
	Width  int
	Height int
}

// Total is the number of sampled pixels.
func (s Statistics) Total() int { return s.Bright + s.Dark }

// BrightnessRatio is Bright/Total, 0 for an empty sample.
func (s Statistics) BrightnessRatio() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Bright) / float64(s.Total())
}

// EdgeRatio is Edges/Total, 0 for an empty sample.
func (s Statistics) EdgeRatio() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Edges) / float64(s.Total())
}

// AspectRatio is Width/Height of the sampled raster, 0 when Height is 0.
func (s Statistics) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Downscale resamples img so that its longer side is MaxSampleSize pixels,
// keeping the aspect ratio. Small images are scaled up the same way.
func Downscale(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	scale := math.Min(float64(MaxSampleSize)/float64(w), float64(MaxSampleSize)/float64(h))
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	if dw == w && dh == h {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Analyze measures an RGBA byte buffer laid out row by row, 4 bytes per
// pixel. Alpha is ignored. Edges compare each pixel below the first row
// with the pixel directly above it.
func Analyze(pix []byte, width, height int) Statistics {
	s := Statistics{Width: width, Height: height}
	n := width * height
	if width <= 0 || height <= 0 || len(pix) < n*4 {
		return Statistics{Width: width, Height: height}
	}
	for i := 0; i < n; i++ {
		v := brightness(pix, i)
		if v > BrightThreshold {
			s.Bright++
		} else {
			s.Dark++
		}
		if i >= width && math.Abs(v-brightness(pix, i-width)) > EdgeThreshold {
			s.Edges++
		}
	}
	return s
}

// Sample downscales img and analyzes the result.
func Sample(img image.Image) Statistics {
	rgba := Downscale(img)
	return Analyze(rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy())
}

func brightness(pix []byte, i int) float64 {
	o := i * 4
	return (float64(pix[o]) + float64(pix[o+1]) + float64(pix[o+2])) / 3
}
