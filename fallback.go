package ambience

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// DefaultBackgroundColors is the palette used when none is configured.
var DefaultBackgroundColors = []Color{
	ParseHex("#F5F5F0"),
	ParseHex("#F0F0E8"),
	ParseHex("#E8E8E0"),
}

// fallbackBrush returns the 135° linear gradient through colors, spaced
// evenly from the top-left to the bottom-right of a w×h box. The gradient line
// is sized so the corners land exactly on the first and last stops.
func fallbackBrush(colors []Color, w, h int) *gg.LinearGradientBrush {
	cx, cy := float64(w)/2, float64(h)/2
	half := float64(w+h) / 4
	b := gg.NewLinearGradientBrush(cx-half, cy-half, cx+half, cy+half)
	switch len(colors) {
	case 0:
		return b
	case 1:
		return b.AddColorStop(0, colors[0].toGG())
	}
	last := float64(len(colors) - 1)
	for i, c := range colors {
		b.AddColorStop(float64(i)/last, c.toGG())
	}
	return b
}

// FallbackGradient renders the static gradient drawn in place of the
// procedural field. The output depends only on colors and the size, so it is
// reproducible pixel for pixel.
func FallbackGradient(colors []Color, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 || len(colors) == 0 {
		return img
	}
	b := fallbackBrush(colors, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := b.ColorAt(float64(x)+0.5, float64(y)+0.5)
			img.SetNRGBA(x, y, Color{R: c.R, G: c.G, B: c.B, A: c.A}.NRGBA())
		}
	}
	return img
}

// FallbackAt returns the fallback color at the normalized position t along
// the gradient line, 0 at the top-left corner and 1 at the bottom-right.
func FallbackAt(colors []Color, t float64) Color {
	b := fallbackBrush(colors, 2, 2)
	t = math.Max(0, math.Min(1, t))
	c := b.ColorAt(2*t, 2*t)
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
