package ambience

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// resizeDebounce is how long resize notifications coalesce before the
// capability probe recomputes. Other signal changes recompute at once.
const resizeDebounce = 0.25

// Stage is the top-level object: it owns the capability probe, the
// visibility signal, the viewport observer, the shader renderer, the pointer
// tracker and every mounted element, and drives them from the frame loop.
// Stage implements ebiten.Game.
type Stage struct {
	cfg      Config
	platform Platform
	metrics  *Metrics
	audio    AmbientAudio

	probe    *CapabilityProbe
	vis      *VisibilitySignal
	observer *ViewportObserver
	renderer *ShaderRenderer
	pointer  *PointerTracker

	background *ShaderHandle
	elements   []*Element
	nextID     uint32

	// per-frame snapshot, read before any gate evaluation
	profile DeviceProfile
	visible bool

	width, height int
	scroll        Vec2
	resizeTimer   float64
	resizePending bool

	ptr       Vec2
	ptrInside bool

	injectQueue      []syntheticEvent
	syntheticPointer bool
	script           *ScriptRunner
	updateFunc       func() error

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	screenshots   []string
	showFPS       bool
	fps           fpsCounter

	handles []CallbackHandle
	closed  bool
}

// NewStage validates cfg and creates a stage on platform p. The background
// surface is mounted on the first Layout, when the window size is known.
func NewStage(cfg Config, p Platform) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Stage{cfg: cfg, platform: p, ScreenshotDir: DefaultScreenshotDir}
	s.probe = NewCapabilityProbe(p.Signals())
	s.vis = NewVisibilitySignal(p)
	s.observer = NewViewportObserver(Rect{})
	s.renderer = NewShaderRenderer(s.probe, s.vis)
	s.pointer = NewPointerTracker(cfg.FPS)
	s.profile = s.probe.Current()
	s.visible = s.vis.Visible()

	s.handles = append(s.handles,
		s.vis.Subscribe(func(v bool) {
			Logger().Debug("visibility changed", zap.Bool("visible", v))
		}),
		s.probe.Subscribe(s.onProfile),
	)
	if cfg.Debug {
		s.SetDebugMode(true)
	}
	Logger().Info("stage created", zap.Stringer("profile", s.profile))
	return s, nil
}

// SetMetrics attaches metrics. Nil disables recording.
func (s *Stage) SetMetrics(m *Metrics) {
	s.metrics = m
	s.renderer.SetMetrics(m)
}

// SetAudio attaches the ambient-audio collaborator. It is enabled
// immediately when Config.Audio is set and the profile allows motion.
func (s *Stage) SetAudio(a AmbientAudio) {
	s.audio = a
	if a == nil || !s.cfg.Audio || !s.profile.AllowsMotion() {
		return
	}
	if err := a.Enable(); err != nil {
		Logger().Warn("ambient audio unavailable", zap.Error(err))
	}
}

// Audio returns the ambient-audio collaborator, or nil.
func (s *Stage) Audio() AmbientAudio { return s.audio }

// SetDebugMode enables or disables debug mode for the package.
func (s *Stage) SetDebugMode(enabled bool) {
	SetDebugMode(enabled)
}

// SetUpdateFunc sets a callback run at the start of every Update, before
// signals are read. A non-nil error stops the frame and is returned to the
// game loop.
func (s *Stage) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetShowFPS toggles the FPS overlay.
func (s *Stage) SetShowFPS(show bool) {
	s.showFPS = show
}

// Profile returns the device profile snapshot used this frame.
func (s *Stage) Profile() DeviceProfile { return s.profile }

// Probe returns the capability probe.
func (s *Stage) Probe() *CapabilityProbe { return s.probe }

// Visible returns the visibility snapshot used this frame.
func (s *Stage) Visible() bool { return s.visible }

// Pointer returns the pointer tracker.
func (s *Stage) Pointer() *PointerTracker { return s.pointer }

// Renderer returns the shader renderer.
func (s *Stage) Renderer() *ShaderRenderer { return s.renderer }

// Background returns the background surface, or nil before the first Layout.
func (s *Stage) Background() *ShaderHandle { return s.background }

// Elements returns the mounted elements. The slice must not be mutated.
func (s *Stage) Elements() []*Element { return s.elements }

// Viewport returns the current viewport in document space.
func (s *Stage) Viewport() Rect {
	return Rect{X: s.scroll.X, Y: s.scroll.Y, Width: float64(s.width), Height: float64(s.height)}
}

// Mount creates an element tracking target. The element starts Hidden and
// reveals once its gate opens.
func (s *Stage) Mount(target Bounded, opts ElementOptions) *Element {
	if s.closed {
		if globalDebug {
			panic("ambience debug: Mount on closed stage")
		}
		Logger().Warn("mount on closed stage ignored", zap.String("element", opts.Name))
		return nil
	}
	s.nextID++
	e := newElement(s, s.nextID, target, opts)
	s.elements = append(s.elements, e)
	if globalDebug {
		debugCheckElementCount(len(s.elements))
	}
	return e
}

func (s *Stage) removeElement(e *Element) {
	for i, cur := range s.elements {
		if cur == e {
			copy(s.elements[i:], s.elements[i+1:])
			s.elements[len(s.elements)-1] = nil
			s.elements = s.elements[:len(s.elements)-1]
			return
		}
	}
}

// Update advances one frame. Signals are read first, then viewport
// membership, then every element's gate and state machine, then the pointer
// springs and shader clocks.
func (s *Stage) Update() error {
	if s.closed {
		return nil
	}
	dt := 1.0 / float64(s.cfg.FPS)
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	var stats debugStats
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}

	if s.platform.Poll() {
		s.recompute()
	}
	if s.script != nil {
		s.script.step(s)
	}
	s.processInjected()
	if s.resizePending {
		s.resizeTimer -= dt
		if s.resizeTimer <= 0 {
			s.resizePending = false
			s.recompute()
		}
	}
	s.profile = s.probe.Current()
	s.visible = s.vis.Visible()

	if globalDebug {
		stats.signalTime = time.Since(t0)
		t0 = time.Now()
	}

	s.observer.Update(s.Viewport())

	if globalDebug {
		stats.observeTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, e := range s.elements {
		if e.update(float32(dt), s.profile, s.visible, s.ptr, s.ptrInside) {
			s.metrics.gateFlip()
			stats.gateFlips++
		}
	}
	s.pointer.SetKind(s.hoverKind())

	if globalDebug {
		stats.machineTime = time.Since(t0)
		t0 = time.Now()
	}

	s.pointer.Update()
	if s.background != nil {
		s.background.SetPointer(s.pointer.Normalized(float64(s.width), float64(s.height)))
	}
	s.renderer.Tick(dt)
	s.fps.tick(dt)
	s.metrics.frame()

	if globalDebug {
		stats.shaderTime = time.Since(t0)
		stats.elementCount = len(s.elements)
		stats.runningCount = s.renderer.Running()
		s.debugLog(stats)
	}
	return nil
}

// Draw paints the background, element overlays, element content and the
// cursor follower.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.closed {
		return
	}
	if s.background != nil {
		s.background.Draw(screen)
	}
	for _, e := range s.elements {
		if e.opts.Draw != nil {
			e.opts.Draw(screen, e)
		}
		if e.overlay != nil && e.overlay.Enabled() && e.InView() {
			sb := e.ScreenBounds()
			e.overlay.DrawAt(screen, sb.X, sb.Y)
		}
	}
	if s.profile.AllowsCursor() {
		s.pointer.DrawCursor(screen)
	}
	if s.showFPS {
		s.fps.draw(screen)
	}
	s.flushScreenshots(screen)
}

// Layout implements ebiten.Game. A size change mounts or resizes the
// background and schedules a debounced capability recomputation.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (s *Stage) resize(w, h int) {
	if w == s.width && h == s.height {
		return
	}
	first := s.width == 0 && s.height == 0
	s.width, s.height = w, h
	if s.closed {
		return
	}
	if s.background == nil {
		s.background = s.renderer.Mount(SurfaceConfig{
			Layer:     LayerBackground,
			Colors:    s.cfg.Colors(),
			Intensity: s.cfg.Intensity,
			Width:     w,
			Height:    h,
			TimeScale: s.cfg.BackgroundTimeScale,
		})
	} else {
		s.background.SetResolution(w, h)
	}
	if !first {
		s.scheduleRecompute()
	}
}

func (s *Stage) scheduleRecompute() {
	s.resizePending = true
	s.resizeTimer = resizeDebounce
}

func (s *Stage) recompute() {
	if s.probe.Recompute(s.platform.Signals()) {
		s.metrics.profileRecompute()
	}
}

// onProfile reacts to a profile replacement. A downgrade collapses in-flight
// reveals and silences audio; shader handles release themselves.
func (s *Stage) onProfile(c ProfileChange) {
	simple := simplifiedFor(c.Current)
	for _, e := range s.elements {
		switch {
		case simple:
			e.machine.Collapse()
		case e.machine.Simplified():
			e.machine.Restore()
		}
	}
	if s.audio != nil && !c.Current.AllowsMotion() {
		s.audio.Disable()
	}
	s.profile = c.Current
}

// hoverKind classifies the topmost element under the pointer.
func (s *Stage) hoverKind() HoverKind {
	if !s.ptrInside {
		return HoverDefault
	}
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i].hovered {
			return ClassifyTarget(s.elements[i])
		}
	}
	return HoverDefault
}

// Close unmounts every element and surface, detaches every platform
// listener and disposes the audio collaborator. Close is idempotent.
func (s *Stage) Close() {
	if s.closed {
		return
	}
	for len(s.elements) > 0 {
		s.elements[len(s.elements)-1].Unmount()
	}
	if s.background != nil {
		s.renderer.Unmount(s.background)
	}
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = nil
	if s.audio != nil {
		s.audio.Dispose()
	}
	s.fps.release()
	if c, ok := s.platform.(interface{ Close() }); ok {
		c.Close()
	}
	s.closed = true
	Logger().Info("stage closed")
}

// Closed reports whether Close was called.
func (s *Stage) Closed() bool { return s.closed }

func (s *Stage) String() string {
	return fmt.Sprintf("Stage(%dx%d, %d elements, %s)", s.width, s.height, len(s.elements), s.profile)
}
