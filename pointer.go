package ambience

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// cursorOffset is half the cursor's 32px footprint. Raw positions are shifted
// by it so the springs track the cursor's top-left corner.
const cursorOffset = 16

// trailDamping overrides the gentle spring's damping for the trailing dot.
const trailDamping = 20

// TagNode is a minimal view of an element tree for pointer-target
// classification.
type TagNode interface {
	Tag() string
	Attr(name string) string
	Parent() TagNode
}

// ClassifyTarget walks n and its ancestors. Interactive ancestors (a, button,
// role=button) win over text ancestors (headings, p, span); anything else is
// HoverDefault. A nil node is HoverDefault.
func ClassifyTarget(n TagNode) HoverKind {
	text := false
	for cur := n; cur != nil; cur = cur.Parent() {
		tag := strings.ToLower(cur.Tag())
		switch tag {
		case "a", "button":
			return HoverInteractive
		case "h1", "h2", "h3", "h4", "h5", "h6", "p", "span":
			text = true
		}
		if strings.EqualFold(cur.Attr("role"), "button") {
			return HoverInteractive
		}
	}
	if text {
		return HoverText
	}
	return HoverDefault
}

// CursorStyle is the presentation of the cursor follower for one hover kind.
type CursorStyle struct {
	Scale, Opacity           float64 // main cursor
	CoreScale, CoreRotate    float64 // inner disc; rotation in degrees
	DotScale, DotOpacity     float64 // precision dot
	TrailScale, TrailOpacity float64
	RingScale, RingOpacity   float64 // outer ring, shown while hovering interactive targets
}

// StyleFor returns the cursor style for kind. inside reports whether the
// pointer is inside the window.
func StyleFor(kind HoverKind, inside bool) CursorStyle {
	s := CursorStyle{
		CoreScale: 1, DotScale: 1, DotOpacity: 0.6,
	}
	if !inside {
		return s
	}
	s.Scale, s.Opacity = 1, 1
	s.TrailScale, s.TrailOpacity = 0.6, 0.4
	switch kind {
	case HoverInteractive:
		s.Scale = 0.5
		s.CoreScale, s.CoreRotate = 1.5, 45
		s.RingScale, s.RingOpacity = 2.5, 0.15
	case HoverText:
		s.DotScale, s.DotOpacity = 2, 1
	}
	return s
}

type axisSpring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func (a *axisSpring) step(target float64) {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, target)
}

// PointerTracker smooths the raw pointer position with two critically-damped
// springs per axis: the main cursor (ui spring) and a slower trail (gentle
// spring, damping 20). Call OnMove on pointer events and Update once per
// frame.
type PointerTracker struct {
	main   [2]axisSpring
	trail  [2]axisSpring
	target Vec2
	seen   bool
	inside bool
	kind   HoverKind
}

// NewPointerTracker creates a tracker integrating at the given frame rate.
func NewPointerTracker(fps int) *PointerTracker {
	t := &PointerTracker{}
	ms := SpringUI.Harmonica(fps)
	ts := SpringGentle.WithDamping(trailDamping).Harmonica(fps)
	for i := range t.main {
		t.main[i].spring = ms
		t.trail[i].spring = ts
	}
	return t
}

// OnMove records a raw pointer position and returns the current smoothed
// position. The first event snaps the springs to the pointer so the cursor
// does not fly in from the origin.
func (t *PointerTracker) OnMove(raw Vec2) Vec2 {
	t.target = Vec2{X: raw.X - cursorOffset, Y: raw.Y - cursorOffset}
	t.inside = true
	if !t.seen {
		t.seen = true
		for i, v := range [2]float64{t.target.X, t.target.Y} {
			t.main[i].pos, t.main[i].vel = v, 0
			t.trail[i].pos, t.trail[i].vel = v, 0
		}
	}
	return t.Smoothed()
}

// SetInside records whether the pointer is inside the window.
func (t *PointerTracker) SetInside(inside bool) {
	t.inside = inside
}

// Inside reports whether the pointer is inside the window.
func (t *PointerTracker) Inside() bool { return t.inside }

// SetKind records the classification of the element under the pointer.
func (t *PointerTracker) SetKind(k HoverKind) {
	t.kind = k
}

// Kind returns the current hover classification.
func (t *PointerTracker) Kind() HoverKind { return t.kind }

// Hovering reports whether the pointer is over an interactive element.
func (t *PointerTracker) Hovering() bool {
	return t.inside && t.kind == HoverInteractive
}

// Style returns the cursor style for the current state.
func (t *PointerTracker) Style() CursorStyle {
	return StyleFor(t.kind, t.inside)
}

// Update advances every spring one frame toward the latest target.
func (t *PointerTracker) Update() {
	if !t.seen {
		return
	}
	t.main[0].step(t.target.X)
	t.main[1].step(t.target.Y)
	t.trail[0].step(t.target.X)
	t.trail[1].step(t.target.Y)
}

// Smoothed returns the main cursor's smoothed pointer position.
func (t *PointerTracker) Smoothed() Vec2 {
	return Vec2{X: t.main[0].pos + cursorOffset, Y: t.main[1].pos + cursorOffset}
}

// Trail returns the trailing dot's smoothed pointer position.
func (t *PointerTracker) Trail() Vec2 {
	return Vec2{X: t.trail[0].pos + cursorOffset, Y: t.trail[1].pos + cursorOffset}
}

// Normalized maps the smoothed position into [0,1]² over a w×h surface with
// y pointing up, the convention of the shader Pointer uniform. Before any
// pointer event it returns the center.
func (t *PointerTracker) Normalized(w, h float64) Vec2 {
	if !t.seen || w <= 0 || h <= 0 {
		return Vec2{X: 0.5, Y: 0.5}
	}
	p := t.Smoothed()
	return Vec2{X: clamp01(p.X / w), Y: clamp01(1 - p.Y/h)}
}

var (
	cursorColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ringColor   = color.NRGBA{R: 54, G: 54, B: 54, A: 77}
	dotColor    = color.NRGBA{R: 54, G: 54, B: 54, A: 255}
)

// DrawCursor paints the cursor follower at the tracker's smoothed positions.
func (t *PointerTracker) DrawCursor(dst *ebiten.Image) {
	if !t.seen {
		return
	}
	s := t.Style()
	const r = cursorOffset

	tp := t.Trail()
	if s.TrailOpacity > 0 {
		vector.DrawFilledCircle(dst, float32(tp.X), float32(tp.Y), float32(r*s.TrailScale),
			withAlpha(cursorColor, s.TrailOpacity), true)
	}
	p := t.Smoothed()
	if s.RingOpacity > 0 {
		vector.StrokeCircle(dst, float32(p.X), float32(p.Y), float32(r*s.RingScale), 1,
			withAlpha(ringColor, s.RingOpacity), true)
	}
	if s.Opacity > 0 {
		core := r * s.Scale * s.CoreScale
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(core),
			withAlpha(cursorColor, s.Opacity), true)
		// core rotation moves the precision dot around the center
		rad := s.CoreRotate * math.Pi / 180
		dx, dy := math.Sin(rad)*core*0.25, -math.Cos(rad)*core*0.25+core*0.25
		vector.DrawFilledCircle(dst, float32(p.X+dx), float32(p.Y+dy), float32(2*s.DotScale),
			withAlpha(dotColor, s.DotOpacity), true)
	}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp01(a)))
	return c
}
