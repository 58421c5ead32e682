package ambience

import (
	"math"
	"testing"
)

func TestPointerFirstMoveSnaps(t *testing.T) {
	p := NewPointerTracker(60)
	got := p.OnMove(Vec2{X: 400, Y: 300})
	assertNear(t, "X", got.X, 400)
	assertNear(t, "Y", got.Y, 300)
	tr := p.Trail()
	assertNear(t, "trail X", tr.X, 400)
	assertNear(t, "trail Y", tr.Y, 300)
}

func TestPointerConverges(t *testing.T) {
	p := NewPointerTracker(60)
	p.OnMove(Vec2{X: 0, Y: 0})
	p.OnMove(Vec2{X: 200, Y: 100})
	for range 180 {
		p.Update()
	}
	got := p.Smoothed()
	if math.Abs(got.X-200) > 0.5 || math.Abs(got.Y-100) > 0.5 {
		t.Errorf("Smoothed = %v, want ≈ (200, 100)", got)
	}
	tr := p.Trail()
	if math.Abs(tr.X-200) > 0.5 || math.Abs(tr.Y-100) > 0.5 {
		t.Errorf("Trail = %v, want ≈ (200, 100)", tr)
	}
}

func TestPointerTrailLags(t *testing.T) {
	p := NewPointerTracker(60)
	p.OnMove(Vec2{X: 0, Y: 0})
	p.OnMove(Vec2{X: 300, Y: 0})
	for range 5 {
		p.Update()
	}
	main, trail := p.Smoothed().X, p.Trail().X
	if main <= 0 || trail <= 0 {
		t.Fatalf("springs did not move: main=%v trail=%v", main, trail)
	}
	if trail >= main {
		t.Errorf("trail %v should lag main %v", trail, main)
	}
}

func TestPointerUpdateBeforeMove(t *testing.T) {
	p := NewPointerTracker(60)
	p.Update()
	got := p.Normalized(800, 600)
	assertNear(t, "X", got.X, 0.5)
	assertNear(t, "Y", got.Y, 0.5)
}

func TestPointerNormalized(t *testing.T) {
	p := NewPointerTracker(60)
	p.OnMove(Vec2{X: 200, Y: 150})
	got := p.Normalized(800, 600)
	assertNear(t, "X", got.X, 0.25)
	assertNear(t, "Y flipped", got.Y, 0.75)

	p2 := NewPointerTracker(60)
	p2.OnMove(Vec2{X: -50, Y: 900})
	got = p2.Normalized(800, 600)
	assertNear(t, "clamped X", got.X, 0)
	assertNear(t, "clamped Y", got.Y, 0)

	got = p.Normalized(0, 600)
	assertNear(t, "degenerate", got.X, 0.5)
}

func TestClassifyTarget(t *testing.T) {
	nav := &fakeNode{tag: "nav"}
	link := &fakeNode{tag: "a", parent: nav}
	h1 := &fakeNode{tag: "h1"}
	tests := []struct {
		name string
		node TagNode
		want HoverKind
	}{
		{"nil", nil, HoverDefault},
		{"div", &fakeNode{tag: "div"}, HoverDefault},
		{"button", &fakeNode{tag: "BUTTON"}, HoverInteractive},
		{"role button", &fakeNode{tag: "div", role: "button"}, HoverInteractive},
		{"span inside link", &fakeNode{tag: "span", parent: link}, HoverInteractive},
		{"heading", h1, HoverText},
		{"span inside heading", &fakeNode{tag: "span", parent: h1}, HoverText},
		{"paragraph", &fakeNode{tag: "p"}, HoverText},
		{"image in nav", &fakeNode{tag: "img", parent: nav}, HoverDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTarget(tt.node); got != tt.want {
				t.Errorf("ClassifyTarget = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleFor(t *testing.T) {
	out := StyleFor(HoverInteractive, false)
	if out.Opacity != 0 || out.Scale != 0 || out.RingOpacity != 0 {
		t.Errorf("outside style = %+v, want hidden cursor", out)
	}

	def := StyleFor(HoverDefault, true)
	if def.Scale != 1 || def.Opacity != 1 || def.TrailScale != 0.6 || def.TrailOpacity != 0.4 {
		t.Errorf("default style = %+v", def)
	}

	in := StyleFor(HoverInteractive, true)
	if in.Scale != 0.5 || in.CoreScale != 1.5 || in.CoreRotate != 45 || in.RingScale != 2.5 || in.RingOpacity != 0.15 {
		t.Errorf("interactive style = %+v", in)
	}

	txt := StyleFor(HoverText, true)
	if txt.DotScale != 2 || txt.DotOpacity != 1 {
		t.Errorf("text style = %+v", txt)
	}
}

func TestPointerHovering(t *testing.T) {
	p := NewPointerTracker(60)
	p.OnMove(Vec2{X: 10, Y: 10})
	p.SetKind(HoverInteractive)
	if !p.Hovering() {
		t.Error("Hovering should be true over an interactive target")
	}
	p.SetInside(false)
	if p.Hovering() {
		t.Error("Hovering should be false once the pointer leaves")
	}
}
