package ambience

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Color is a straight-alpha color with float components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" into a Color.
// Malformed input yields opaque black, matching gg.Hex.
func ParseHex(hex string) Color {
	c := gg.Hex(hex)
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// toGG converts to the gg color used by the CPU gradient path.
func (c Color) toGG() gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// NRGBA converts the color to 8-bit straight alpha, rounding to nearest.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

func unitToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Vec2 is a point in window or document pixels, or a normalized position.
type Vec2 struct {
	X, Y float64
}

// Rect is a box in document space: origin top-left, y down.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) is inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x <= r.X+r.Width && y <= r.Y+r.Height
}

// Touches reports whether r and o overlap or share an edge.
func (r Rect) Touches(o Rect) bool {
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// Intersection returns the overlapping area of r and other. The result has
// zero width and height when the rectangles do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Expand grows the rectangle by m on every side (shrinks when m is negative).
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Tri is a platform reading that may be unavailable.
type Tri uint8

const (
	TriUnknown Tri = iota // the platform could not report the signal
	TriFalse              // reported false
	TriTrue               // reported true
)

// TriOf converts a known boolean reading.
func TriOf(b bool) Tri {
	if b {
		return TriTrue
	}
	return TriFalse
}

// TransitionState is the per-element reveal state.
type TransitionState uint8

const (
	StateHidden   TransitionState = iota // initial; nothing painted
	StateEntering                        // entrance animation in flight
	StateVisible                         // fully revealed
	StateExiting                         // exit animation in flight (reversible elements only)
)

var stateNames = [...]string{"hidden", "entering", "visible", "exiting"}

func (s TransitionState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// HoverKind classifies the element under the pointer.
type HoverKind uint8

const (
	HoverDefault     HoverKind = iota // untagged or unknown target
	HoverInteractive                  // a, button, [role=button]
	HoverText                         // headings, paragraphs, spans
)

var hoverKindNames = [...]string{"default", "interactive", "text"}

func (k HoverKind) String() string {
	if int(k) < len(hoverKindNames) {
		return hoverKindNames[k]
	}
	return "default"
}

// SurfaceLayer selects which procedural program a shader surface runs.
type SurfaceLayer uint8

const (
	LayerBackground SurfaceLayer = iota // full-screen generative gradient field
	LayerDistortion                     // per-element hover ripple overlay
)
