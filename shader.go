package ambience

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Default per-layer time scales applied to the render clock.
const (
	BackgroundTimeScale = 0.5
	DistortionTimeScale = 0.3
)

// hoverRate is the per-tick interpolation factor of HoverAmount toward its
// 0/1 target.
const hoverRate = 0.1

// Fallback reasons reported by ShaderHandle.FallbackReason and metrics.
const (
	FallbackProfile   = "profile"
	FallbackHidden    = "hidden"
	FallbackCompile   = "compile"
	FallbackDowngrade = "downgrade"
)

var layerNames = [...]string{"background", "distortion"}

func (l SurfaceLayer) String() string {
	if int(l) < len(layerNames) {
		return layerNames[l]
	}
	return "unknown"
}

// SurfaceConfig describes one shader surface.
type SurfaceConfig struct {
	Layer SurfaceLayer
	// Colors is the palette: 2–3 colors for the background, the first color
	// for the distortion overlay. Extra colors are ignored.
	Colors []Color
	// Intensity is the output alpha of the background field.
	Intensity float64
	// Width and Height are the surface size in pixels.
	Width, Height int
	// TimeScale multiplies the render clock. Zero selects the layer default.
	TimeScale float64
}

// Uniforms is the snapshot of values handed to the GPU program each frame.
type Uniforms struct {
	Time       float64
	Resolution Vec2
	// Pointer is normalized to [0,1]² with y pointing up.
	Pointer    Vec2
	Colors     [3]Color
	ColorCount int
	Intensity  float64
	// HoverAmount ramps toward 1 while hovered and 0 otherwise.
	HoverAmount float64
}

// program is a compiled GPU program exclusively owned by one handle.
type program interface {
	draw(dst *ebiten.Image, x, y float64, w, h int, uniforms map[string]any)
	release()
}

type kageProgram struct {
	shader *ebiten.Shader
	op     ebiten.DrawRectShaderOptions
}

func compileKage(layer SurfaceLayer) (program, error) {
	src := backgroundShaderSrc
	if layer == LayerDistortion {
		src = distortionShaderSrc
	}
	s, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s program: %w", ErrShaderUnavailable, layer, err)
	}
	return &kageProgram{shader: s}, nil
}

func (p *kageProgram) draw(dst *ebiten.Image, x, y float64, w, h int, uniforms map[string]any) {
	p.op.Uniforms = uniforms
	p.op.GeoM.Reset()
	p.op.GeoM.Translate(x, y)
	p.op.Blend = ebiten.BlendSourceOver
	dst.DrawRectShader(w, h, p.shader, &p.op)
}

func (p *kageProgram) release() {
	p.shader.Deallocate()
}

// ShaderRenderer mounts procedural shader surfaces and drives their uniforms
// from the frame loop. Only handles whose surface is live are subscribed to
// the frame loop; Tick does nothing for hidden or disabled surfaces.
type ShaderRenderer struct {
	probe   *CapabilityProbe
	vis     *VisibilitySignal
	metrics *Metrics
	compile func(SurfaceLayer) (program, error)

	frame   listenerList[float64]
	handles []*ShaderHandle
}

// NewShaderRenderer creates a renderer reading the given probe and
// visibility signal.
func NewShaderRenderer(probe *CapabilityProbe, vis *VisibilitySignal) *ShaderRenderer {
	return &ShaderRenderer{probe: probe, vis: vis, compile: compileKage}
}

// SetMetrics attaches metrics. Nil disables recording.
func (r *ShaderRenderer) SetMetrics(m *Metrics) {
	r.metrics = m
}

// Mounted returns the number of live handles, enabled or not.
func (r *ShaderRenderer) Mounted() int {
	return len(r.handles)
}

// Running returns the number of handles subscribed to the frame loop.
func (r *ShaderRenderer) Running() int {
	return r.frame.len()
}

// Mount creates a surface. It fails closed: when the profile disallows rich
// visuals, the page is hidden, or the program cannot be compiled, the handle
// is disabled and draws the static gradient. Mount never returns an error.
func (r *ShaderRenderer) Mount(cfg SurfaceConfig) *ShaderHandle {
	cfg = normalizeSurface(cfg)
	h := &ShaderHandle{renderer: r, cfg: cfg, inView: true}
	h.uniforms = Uniforms{
		Resolution: Vec2{X: float64(cfg.Width), Y: float64(cfg.Height)},
		Pointer:    Vec2{X: 0.5, Y: 0.5},
		ColorCount: len(cfg.Colors),
		Intensity:  cfg.Intensity,
	}
	for i := range h.uniforms.Colors {
		h.uniforms.Colors[i] = cfg.Colors[min(i, len(cfg.Colors)-1)]
	}
	r.handles = append(r.handles, h)

	log := Logger().With(zap.Stringer("layer", cfg.Layer))
	switch {
	case !r.probe.Current().AllowsRichVisuals():
		h.disable(FallbackProfile)
	case !r.vis.Visible():
		h.disable(FallbackHidden)
	default:
		prog, err := r.compile(cfg.Layer)
		if err != nil {
			log.Warn("shader surface falling back to static gradient", zap.Error(err))
			h.disable(FallbackCompile)
			break
		}
		h.prog = prog
		h.enabled = true
		r.metrics.surfaceMounted()
		log.Info("shader surface mounted",
			zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
	}

	if h.enabled {
		h.visHandle = r.vis.Subscribe(h.onVisibility)
		h.profHandle = r.probe.Subscribe(h.onProfile)
		h.resume()
	}
	return h
}

// Tick advances every running surface by dt seconds of render-clock time.
func (r *ShaderRenderer) Tick(dt float64) {
	r.frame.emit(dt)
}

// Unmount releases the handle's program and every subscription it holds.
// Unmounting twice is a no-op.
func (r *ShaderRenderer) Unmount(h *ShaderHandle) {
	if h == nil || h.unmounted {
		return
	}
	h.pause()
	h.visHandle.Remove()
	h.profHandle.Remove()
	h.releaseProgram()
	if h.fallbackImg != nil {
		h.fallbackImg.Deallocate()
		h.fallbackImg = nil
	}
	h.unmounted = true
	for i, cur := range r.handles {
		if cur == h {
			r.handles = append(r.handles[:i], r.handles[i+1:]...)
			break
		}
	}
}

func normalizeSurface(cfg SurfaceConfig) SurfaceConfig {
	if len(cfg.Colors) == 0 {
		if cfg.Layer == LayerDistortion {
			cfg.Colors = []Color{ParseHex("#6366f1")}
		} else {
			cfg.Colors = DefaultBackgroundColors
		}
	}
	if len(cfg.Colors) > 3 {
		cfg.Colors = cfg.Colors[:3]
	}
	cfg.Colors = append([]Color(nil), cfg.Colors...)
	if cfg.TimeScale == 0 {
		cfg.TimeScale = BackgroundTimeScale
		if cfg.Layer == LayerDistortion {
			cfg.TimeScale = DistortionTimeScale
		}
	}
	if cfg.Intensity == 0 {
		cfg.Intensity = 0.1
		if cfg.Layer == LayerDistortion {
			cfg.Intensity = 1
		}
	}
	return cfg
}

// ShaderHandle is one mounted surface.
type ShaderHandle struct {
	renderer *ShaderRenderer
	cfg      SurfaceConfig
	prog     program

	enabled   bool
	reason    string
	unmounted bool
	inView    bool

	uniforms    Uniforms
	hoverTarget float64
	uniformMap  map[string]any

	frameID    uint32
	running    bool
	visHandle  CallbackHandle
	profHandle CallbackHandle

	fallbackImg  *ebiten.Image
	fallbackSize image.Point
	imgOp        ebiten.DrawImageOptions
}

// Enabled reports whether the GPU program is live.
func (h *ShaderHandle) Enabled() bool { return h.enabled }

// Running reports whether the surface is subscribed to the frame loop.
func (h *ShaderHandle) Running() bool { return h.running }

// FallbackReason returns why the handle is disabled, or "".
func (h *ShaderHandle) FallbackReason() string { return h.reason }

// Config returns the normalized surface configuration.
func (h *ShaderHandle) Config() SurfaceConfig { return h.cfg }

// Uniforms returns the current uniform snapshot.
func (h *ShaderHandle) Uniforms() Uniforms { return h.uniforms }

// SetPointer writes a normalized pointer position, clamped to [0,1]².
func (h *ShaderHandle) SetPointer(p Vec2) {
	if h.checkMounted("SetPointer") {
		return
	}
	h.uniforms.Pointer = Vec2{X: clamp01(p.X), Y: clamp01(p.Y)}
}

// SetHovered sets the 0/1 target HoverAmount ramps toward.
func (h *ShaderHandle) SetHovered(hovered bool) {
	if h.checkMounted("SetHovered") {
		return
	}
	h.hoverTarget = 0
	if hovered {
		h.hoverTarget = 1
	}
}

// SetInView gates the frame subscription on the surface's own viewport
// membership.
func (h *ShaderHandle) SetInView(in bool) {
	if h.checkMounted("SetInView") || in == h.inView {
		return
	}
	h.inView = in
	if in && h.renderer.vis.Visible() {
		h.resume()
	} else if !in {
		h.pause()
	}
}

// SetResolution resizes the surface.
func (h *ShaderHandle) SetResolution(w, ht int) {
	if h.checkMounted("SetResolution") {
		return
	}
	h.cfg.Width, h.cfg.Height = w, ht
	h.uniforms.Resolution = Vec2{X: float64(w), Y: float64(ht)}
}

// Fallback renders the static gradient for the configured colors at the
// current size.
func (h *ShaderHandle) Fallback() *image.NRGBA {
	return FallbackGradient(h.cfg.Colors, h.cfg.Width, h.cfg.Height)
}

// Draw paints the surface at the top-left corner of dst.
func (h *ShaderHandle) Draw(dst *ebiten.Image) {
	if dst == nil {
		return
	}
	m := dst.Bounds().Min
	h.DrawAt(dst, float64(m.X), float64(m.Y))
}

// DrawAt paints the surface onto dst with its top-left corner at (x, y): the
// procedural field when enabled, the static gradient otherwise. A disabled
// distortion overlay draws nothing.
func (h *ShaderHandle) DrawAt(dst *ebiten.Image, x, y float64) {
	if h.unmounted || dst == nil || h.cfg.Width <= 0 || h.cfg.Height <= 0 {
		return
	}
	if h.enabled {
		if h.cfg.Layer == LayerBackground {
			dst.Fill(h.cfg.Colors[0].NRGBA())
		}
		h.prog.draw(dst, x, y, h.cfg.Width, h.cfg.Height, h.uniformValues())
		return
	}
	if h.cfg.Layer == LayerDistortion {
		return
	}
	size := image.Pt(h.cfg.Width, h.cfg.Height)
	if h.fallbackImg == nil || h.fallbackSize != size {
		if h.fallbackImg != nil {
			h.fallbackImg.Deallocate()
		}
		h.fallbackImg = ebiten.NewImageFromImage(h.Fallback())
		h.fallbackSize = size
	}
	h.imgOp.GeoM.Reset()
	h.imgOp.GeoM.Translate(x, y)
	dst.DrawImage(h.fallbackImg, &h.imgOp)
}

func (h *ShaderHandle) uniformValues() map[string]any {
	if h.uniformMap == nil {
		h.uniformMap = make(map[string]any, 8)
	}
	u := &h.uniforms
	m := h.uniformMap
	m["Time"] = float32(u.Time)
	m["Resolution"] = []float32{float32(u.Resolution.X), float32(u.Resolution.Y)}
	m["Pointer"] = []float32{float32(u.Pointer.X), float32(u.Pointer.Y)}
	m["Hover"] = float32(u.HoverAmount)
	m["Color0"] = rgb32(u.Colors[0])
	if h.cfg.Layer == LayerBackground {
		m["Color1"] = rgb32(u.Colors[1])
		m["Color2"] = rgb32(u.Colors[2])
		m["Intensity"] = float32(u.Intensity)
	}
	return m
}

func rgb32(c Color) []float32 {
	return []float32{float32(c.R), float32(c.G), float32(c.B)}
}

func (h *ShaderHandle) tick(dt float64) {
	h.uniforms.Time += dt * h.cfg.TimeScale
	h.uniforms.HoverAmount += (h.hoverTarget - h.uniforms.HoverAmount) * hoverRate
}

// resume subscribes to the frame loop. Time continues from its last value.
func (h *ShaderHandle) resume() {
	if h.running || !h.enabled || !h.inView {
		return
	}
	h.frameID = h.renderer.frame.add(h.tick)
	h.running = true
}

// pause unsubscribes from the frame loop, freezing Time.
func (h *ShaderHandle) pause() {
	if !h.running {
		return
	}
	h.renderer.frame.remove(h.frameID)
	h.running = false
}

func (h *ShaderHandle) onVisibility(visible bool) {
	if visible {
		h.resume()
		return
	}
	h.pause()
}

func (h *ShaderHandle) onProfile(c ProfileChange) {
	if c.Current.AllowsRichVisuals() || !h.enabled {
		return
	}
	h.pause()
	h.releaseProgram()
	h.disable(FallbackDowngrade)
	Logger().Info("shader surface released after capability downgrade",
		zap.Stringer("layer", h.cfg.Layer), zap.Stringer("profile", c.Current))
}

func (h *ShaderHandle) disable(reason string) {
	h.enabled = false
	h.reason = reason
	h.renderer.metrics.shaderFallback(reason)
}

func (h *ShaderHandle) releaseProgram() {
	if h.prog == nil {
		return
	}
	h.prog.release()
	h.prog = nil
	h.renderer.metrics.surfaceReleased()
}

func (h *ShaderHandle) checkMounted(op string) bool {
	if !h.unmounted {
		return false
	}
	if globalDebug {
		panic(fmt.Sprintf("ambience debug: %s on unmounted %s surface", op, h.cfg.Layer))
	}
	return true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
