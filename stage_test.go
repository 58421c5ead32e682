package ambience

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// below is an element one screen below the initial viewport.
var below = StaticBounds{X: 0, Y: 1000, Width: 200, Height: 200}

// onscreen is an element inside the initial viewport.
var onscreen = StaticBounds{X: 100, Y: 100, Width: 200, Height: 200}

func TestNewStageRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 0
	if _, err := NewStage(cfg, NewStaticPlatform(richSignals)); err == nil {
		t.Fatal("NewStage should reject an invalid config")
	}
}

func TestStageMountsBackgroundOnLayout(t *testing.T) {
	s, _, progs := newTestStage(t, richSignals)
	bg := s.Background()
	if bg == nil || !bg.Enabled() || !bg.Running() {
		t.Fatalf("background = %+v, want enabled and running", bg)
	}
	if len(*progs) != 1 || (*progs)[0].layer != LayerBackground {
		t.Fatalf("programs = %d, want one background program", len(*progs))
	}
	if c := bg.Config(); c.Width != 800 || c.Height != 600 {
		t.Errorf("background size = %dx%d", c.Width, c.Height)
	}
}

func TestStageLowEndFallsBack(t *testing.T) {
	s, _, progs := newTestStage(t, withSignals(func(s *PlatformSignals) { s.LogicalCores = 1 }))
	bg := s.Background()
	if bg.Enabled() {
		t.Fatal("low-end background should be disabled")
	}
	if bg.FallbackReason() != FallbackProfile {
		t.Errorf("reason = %q, want %q", bg.FallbackReason(), FallbackProfile)
	}
	if bg.Fallback() == nil {
		t.Error("disabled background should carry a fallback gradient")
	}
	if len(*progs) != 0 {
		t.Error("no program should be compiled on a low-end device")
	}
}

func TestStageRevealOnScroll(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	e := s.Mount(below, ElementOptions{Name: "card"})

	var seen []TransitionState
	e.OnTransition(func(tr Transition) { seen = append(seen, tr.To) })

	updateFrames(t, s, 5)
	if e.State() != StateHidden || e.InView() {
		t.Fatalf("off-screen element state = %v inView=%t", e.State(), e.InView())
	}

	s.InjectScroll(0, 800)
	updateFrames(t, s, 1)
	if !e.InView() || !e.GateOpen() {
		t.Fatal("element should be in view after scrolling")
	}
	if e.State() != StateEntering {
		t.Fatalf("State = %v, want entering", e.State())
	}

	updateFrames(t, s, 120)
	if e.State() != StateVisible {
		t.Fatalf("State = %v, want visible", e.State())
	}
	assertNear(t, "Opacity", e.Pose().Opacity, 1)

	// reveals happen once by default
	s.InjectScroll(0, 0)
	updateFrames(t, s, 30)
	if e.State() != StateVisible {
		t.Errorf("once element left the visible state: %v", e.State())
	}
	if len(seen) != 2 || seen[0] != StateEntering || seen[1] != StateVisible {
		t.Errorf("transitions = %v", seen)
	}
}

func TestStageSimplifiedReveal(t *testing.T) {
	s, _, _ := newTestStage(t, withSignals(func(s *PlatformSignals) { s.ReducedMotion = TriTrue }))
	e := s.Mount(onscreen, ElementOptions{Variant: VariantGridCard, Index: 5})
	if !e.Machine().Simplified() {
		t.Fatal("reduced-motion element should use the simplified machine")
	}
	updateFrames(t, s, 1)
	if e.State() != StateVisible {
		t.Errorf("State = %v, want visible without an entering phase", e.State())
	}
}

func TestStageSignalChangeRecomputesImmediately(t *testing.T) {
	s, p, _ := newTestStage(t, richSignals)
	p.SetSignals(withSignals(func(s *PlatformSignals) { s.DeviceMemoryGB = 1 }))

	updateFrames(t, s, 1)
	if !s.Profile().IsLowEnd {
		t.Fatal("profile not recomputed on the frame the signal changed")
	}
	if s.resizePending {
		t.Error("signal change should not wait on the resize debounce")
	}
}

func TestStageResizeDoesNotDelayDowngrade(t *testing.T) {
	s, p, _ := newTestStage(t, richSignals)
	e := s.Mount(onscreen, ElementOptions{Name: "hero"})
	updateFrames(t, s, 1)

	for i := range 5 {
		s.Layout(800+10*(i+1), 600)
		if i == 2 {
			p.SetSignals(withSignals(func(s *PlatformSignals) { s.ReducedMotion = TriTrue }))
		}
		updateFrames(t, s, 1)
		if i >= 2 && !s.Profile().PrefersReducedMotion {
			t.Fatalf("frame %d: downgrade held back while resizing", i)
		}
	}
	if !e.Machine().Simplified() {
		t.Error("element not collapsed during resize")
	}
	if !s.resizePending {
		t.Error("resize should still be debounced")
	}
}

func TestStageResize(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	s.InjectResize(1024, 768)
	updateFrames(t, s, 1)
	if c := s.Background().Config(); c.Width != 1024 || c.Height != 768 {
		t.Errorf("background size = %dx%d, want 1024x768", c.Width, c.Height)
	}
	if v := s.Viewport(); v.Width != 1024 || v.Height != 768 {
		t.Errorf("viewport = %+v", v)
	}
	if !s.resizePending {
		t.Error("resize should schedule a capability recomputation")
	}
}

func TestStageDowngradeCollapses(t *testing.T) {
	s, p, progs := newTestStage(t, richSignals)
	audio := &fakeAudio{}
	s.cfg.Audio = true
	s.SetAudio(audio)
	if !audio.IsEnabled() {
		t.Fatal("audio should start enabled on a capable device")
	}

	e := s.Mount(onscreen, ElementOptions{Name: "hero", Distortion: true, Color: ParseHex("#6366f1")})
	updateFrames(t, s, 1)
	if e.State() != StateEntering {
		t.Fatalf("State = %v, want entering", e.State())
	}

	p.SetSignals(withSignals(func(s *PlatformSignals) { s.ReducedMotion = TriTrue }))
	updateFrames(t, s, 30)

	if !s.Profile().PrefersReducedMotion {
		t.Fatal("profile not downgraded")
	}
	if !e.Machine().Simplified() || e.State() != StateVisible {
		t.Errorf("element simplified=%t state=%v, want collapsed to visible", e.Machine().Simplified(), e.State())
	}
	if audio.IsEnabled() || audio.disables == 0 {
		t.Error("audio should be disabled when motion is no longer allowed")
	}
	if s.Background().Enabled() || s.Background().FallbackReason() != FallbackDowngrade {
		t.Errorf("background reason = %q, want downgrade", s.Background().FallbackReason())
	}
	for _, prog := range *progs {
		if !prog.released {
			t.Errorf("%v program not released after downgrade", prog.layer)
		}
	}
}

func TestStageAudioStaysOffWhenNotConfigured(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	audio := &fakeAudio{}
	s.SetAudio(audio)
	if audio.enables != 0 {
		t.Error("audio enabled without Config.Audio")
	}
	if s.Audio() != audio {
		t.Error("Audio should return the attached collaborator")
	}
}

func TestStageVisibilityClosesGate(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	e := s.Mount(onscreen, ElementOptions{Idle: true, Distortion: true})
	updateFrames(t, s, 10)
	if !e.GateOpen() || !s.Background().Running() {
		t.Fatal("gate should be open on a visible page")
	}

	s.InjectVisibility(false)
	updateFrames(t, s, 1)
	if e.GateOpen() || s.Visible() {
		t.Error("hidden page should close the gate")
	}
	if s.Background().Running() || e.Overlay().Running() {
		t.Error("surfaces should pause while hidden")
	}
	y := e.Idle().Y
	clock := s.Background().Uniforms().Time
	updateFrames(t, s, 30)
	assertNear(t, "idle Y", e.Idle().Y, y)
	assertNear(t, "shader time", s.Background().Uniforms().Time, clock)

	s.InjectVisibility(true)
	updateFrames(t, s, 2)
	if !e.GateOpen() || !s.Background().Running() {
		t.Error("gate should reopen with the page")
	}
}

func TestStageHoverClassification(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	nav := s.Mount(StaticBounds{X: 0, Y: 0, Width: 800, Height: 100}, ElementOptions{Tag: "nav"})
	s.Mount(StaticBounds{X: 10, Y: 10, Width: 100, Height: 50}, ElementOptions{Tag: "span", Parent: s.Mount(
		StaticBounds{X: 10, Y: 10, Width: 100, Height: 50}, ElementOptions{Tag: "a", Parent: nav})})
	heading := s.Mount(StaticBounds{X: 0, Y: 200, Width: 800, Height: 80}, ElementOptions{Tag: "h2"})

	s.InjectPointer(20, 20)
	updateFrames(t, s, 1)
	if k := s.Pointer().Kind(); k != HoverInteractive {
		t.Errorf("over link: Kind = %v, want interactive", k)
	}

	s.InjectPointer(400, 240)
	updateFrames(t, s, 1)
	if !heading.Hovered() || s.Pointer().Kind() != HoverText {
		t.Errorf("over heading: Kind = %v", s.Pointer().Kind())
	}

	s.InjectPointer(400, 500)
	updateFrames(t, s, 1)
	if s.Pointer().Kind() != HoverDefault {
		t.Errorf("over nothing: Kind = %v", s.Pointer().Kind())
	}

	s.InjectPointerLeave()
	updateFrames(t, s, 1)
	if s.Pointer().Inside() || s.Pointer().Kind() != HoverDefault {
		t.Error("pointer leave should reset hover state")
	}
}

func TestStageOverlayFollowsHover(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	e := s.Mount(onscreen, ElementOptions{Distortion: true, Tag: "button"})
	s.InjectPointer(200, 150)
	updateFrames(t, s, 10)
	if !e.Hovered() {
		t.Fatal("element should be hovered")
	}
	u := e.Overlay().Uniforms()
	if u.HoverAmount <= 0 {
		t.Error("overlay hover did not ramp")
	}
	assertNear(t, "pointer u", u.Pointer.X, 0.5)
	assertNear(t, "pointer v", u.Pointer.Y, 0.75)
}

func TestElementUnmount(t *testing.T) {
	s, _, progs := newTestStage(t, richSignals)
	e := s.Mount(onscreen, ElementOptions{Distortion: true})
	if s.observer.Len() != 1 || s.renderer.Mounted() != 2 {
		t.Fatalf("observer=%d mounted=%d", s.observer.Len(), s.renderer.Mounted())
	}
	e.Unmount()
	e.Unmount()
	if !e.Unmounted() || len(s.Elements()) != 0 {
		t.Error("element still mounted")
	}
	if s.observer.Len() != 0 || s.renderer.Mounted() != 1 {
		t.Errorf("after unmount observer=%d mounted=%d", s.observer.Len(), s.renderer.Mounted())
	}
	if !(*progs)[1].released {
		t.Error("overlay program not released")
	}
	if h := e.OnTransition(func(Transition) {}); h.remove != nil {
		t.Error("OnTransition after Unmount should return a zero handle")
	}
}

func TestElementDebugPanicsAfterUnmount(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	e := s.Mount(onscreen, ElementOptions{Name: "gone"})
	e.Unmount()

	SetDebugMode(true)
	defer SetDebugMode(false)
	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "gone") {
			t.Errorf("recover = %v, want panic naming the element", r)
		}
	}()
	e.OnTransition(func(Transition) {})
}

func TestStageCloseReleasesEverything(t *testing.T) {
	s, p, progs := newTestStage(t, richSignals)
	audio := &fakeAudio{}
	s.SetAudio(audio)
	for i := range 4 {
		s.Mount(StaticBounds{X: float64(i) * 200, Y: 0, Width: 150, Height: 150},
			ElementOptions{Index: i, Distortion: i%2 == 0, Idle: true})
	}
	updateFrames(t, s, 10)

	s.Close()
	s.Close()

	if p.Watchers() != 0 {
		t.Errorf("platform watchers = %d, want 0", p.Watchers())
	}
	if n := s.probe.listeners.len(); n != 0 {
		t.Errorf("probe listeners = %d, want 0", n)
	}
	if s.observer.Len() != 0 {
		t.Errorf("observed elements = %d, want 0", s.observer.Len())
	}
	if s.renderer.Mounted() != 0 || s.renderer.Running() != 0 {
		t.Errorf("renderer mounted=%d running=%d", s.renderer.Mounted(), s.renderer.Running())
	}
	for _, prog := range *progs {
		if !prog.released {
			t.Errorf("%v program leaked", prog.layer)
		}
	}
	if !audio.disposed {
		t.Error("audio not disposed")
	}
	if !s.Closed() || len(s.Elements()) != 0 {
		t.Error("stage not closed")
	}
	if err := s.Update(); err != nil {
		t.Errorf("Update after Close = %v", err)
	}
	if e := s.Mount(onscreen, ElementOptions{}); e != nil {
		t.Error("Mount after Close should return nil")
	}
}

func TestStageMetrics(t *testing.T) {
	p := NewStaticPlatform(richSignals)
	s, err := NewStage(DefaultConfig(), p)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	m := NewMetrics(prometheus.NewRegistry())
	s.SetMetrics(m)
	s.renderer.compile = fakeCompiler(nil, false)
	s.Layout(800, 600)
	s.Mount(onscreen, ElementOptions{})

	updateFrames(t, s, 3)
	if got := testutil.ToFloat64(m.FramesTicked); got != 3 {
		t.Errorf("frames = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.GateFlips); got != 1 {
		t.Errorf("gate flips = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("entering")); got != 1 {
		t.Errorf("entering transitions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SurfacesMounted); got != 1 {
		t.Errorf("surfaces = %v, want 1", got)
	}

	p.SetSignals(withSignals(func(s *PlatformSignals) { s.Touch = TriTrue }))
	updateFrames(t, s, 30)
	if got := testutil.ToFloat64(m.ProfileRecomputes); got != 1 {
		t.Errorf("recomputes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ShaderFallbacks.WithLabelValues(FallbackDowngrade)); got != 1 {
		t.Errorf("downgrade fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SurfacesMounted); got != 0 {
		t.Errorf("surfaces after downgrade = %v, want 0", got)
	}
}

func TestStageString(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	if got := s.String(); !strings.Contains(got, "800x600") {
		t.Errorf("String = %q", got)
	}
}

func TestStageUpdateFunc(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	calls := 0
	s.SetUpdateFunc(func() error {
		calls++
		s.ScrollTo(0, float64(calls*10))
		return nil
	})
	updateFrames(t, s, 3)
	if calls != 3 || s.Viewport().Y != 30 {
		t.Errorf("calls=%d scroll=%v", calls, s.Viewport().Y)
	}

	stop := errors.New("stop")
	s.SetUpdateFunc(func() error { return stop })
	if err := s.Update(); !errors.Is(err, stop) {
		t.Errorf("Update = %v, want the callback error", err)
	}
}
