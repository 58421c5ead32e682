package ambience

import "testing"

func TestInjectOnePerFrame(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	s.InjectScroll(0, 300)
	s.InjectVisibility(false)
	if s.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", s.Pending())
	}
	updateFrames(t, s, 1)
	if s.Pending() != 1 || s.Scroll().Y != 300 {
		t.Errorf("after one frame: pending=%d scroll=%v", s.Pending(), s.Scroll())
	}
	if !s.Visible() {
		t.Error("visibility event applied before its frame")
	}
	updateFrames(t, s, 1)
	if s.Pending() != 0 || s.Visible() {
		t.Errorf("after two frames: pending=%d visible=%t", s.Pending(), s.Visible())
	}
}

func TestInjectPath(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	s.InjectPath(0, 0, 100, 50, 5)
	if s.Pending() != 5 {
		t.Fatalf("Pending = %d, want 5", s.Pending())
	}
	want := []Vec2{{0, 0}, {25, 12.5}, {50, 25}, {75, 37.5}, {100, 50}}
	for i, w := range want {
		updateFrames(t, s, 1)
		if s.ptr != w {
			t.Errorf("frame %d: pointer = %v, want %v", i, s.ptr, w)
		}
	}
	if !s.Pointer().Inside() {
		t.Error("pointer should be inside after a path")
	}
}

func TestInjectPathMinimumFrames(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	s.InjectPath(10, 10, 20, 20, 0)
	if s.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", s.Pending())
	}
}

func TestInjectedPointerOverridesPlatform(t *testing.T) {
	s, p, _ := newTestStage(t, richSignals)

	p.SetPointer(Vec2{X: 50, Y: 60})
	updateFrames(t, s, 1)
	if s.ptr != (Vec2{X: 50, Y: 60}) || !s.ptrInside {
		t.Fatalf("platform pointer not read: %v inside=%t", s.ptr, s.ptrInside)
	}

	s.InjectPointer(10, 10)
	updateFrames(t, s, 1)
	p.SetPointer(Vec2{X: 70, Y: 70})
	updateFrames(t, s, 3)
	if s.ptr != (Vec2{X: 10, Y: 10}) {
		t.Errorf("injected pointer overridden by platform: %v", s.ptr)
	}

	s.ReleasePointer()
	updateFrames(t, s, 1)
	if s.ptr != (Vec2{X: 70, Y: 70}) {
		t.Errorf("platform pointer not restored: %v", s.ptr)
	}

	p.LeavePointer()
	updateFrames(t, s, 1)
	if s.ptrInside || s.Pointer().Inside() {
		t.Error("platform leave not applied")
	}
}

func TestInjectPointerLeave(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	s.InjectPointer(100, 100)
	s.InjectPointerLeave()
	updateFrames(t, s, 1)
	if !s.Pointer().Inside() {
		t.Fatal("pointer should be inside after the first event")
	}
	updateFrames(t, s, 1)
	if s.Pointer().Inside() {
		t.Error("pointer should be outside after leave")
	}
}

func TestScrollTo(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	s.ScrollTo(5, 900)
	if v := s.Viewport(); v.X != 5 || v.Y != 900 || v.Width != 800 {
		t.Errorf("Viewport = %+v", v)
	}
}
