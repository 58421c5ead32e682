//go:build !js

package ambience

import (
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// desktopPlatform reads the running machine. Desktop windows always have a
// hovering pointer; touch is reported once a touch has been seen. Reduced
// motion comes from Config because desktop hosts do not expose it.
type desktopPlatform struct {
	cfg       Config
	memoryGB  float64
	touchSeen bool
	changed   bool
	touchBuf  []ebiten.TouchID

	visible   bool
	listeners listenerList[bool]
}

// NewPlatform returns the platform for the running host.
func NewPlatform(cfg Config) Platform {
	mem := cfg.DeviceMemoryGB
	if mem == 0 {
		var err error
		mem, err = systemMemoryGB()
		if err != nil {
			Logger().Warn("device memory unavailable", zap.Error(err))
		}
	}
	return &desktopPlatform{cfg: cfg, memoryGB: mem, visible: true}
}

func (p *desktopPlatform) Signals() PlatformSignals {
	return PlatformSignals{
		LogicalCores:   runtime.NumCPU(),
		DeviceMemoryGB: p.memoryGB,
		Hover:          TriTrue,
		Touch:          TriOf(p.touchSeen),
		ReducedMotion:  TriOf(p.cfg.ReducedMotion),
	}
}

// Poll samples touch and window state. Minimizing the window counts as the
// page becoming hidden.
func (p *desktopPlatform) Poll() bool {
	if !p.touchSeen {
		p.touchBuf = ebiten.AppendTouchIDs(p.touchBuf[:0])
		if len(p.touchBuf) > 0 {
			p.touchSeen = true
			p.changed = true
		}
	}
	if v := !ebiten.IsWindowMinimized(); v != p.visible {
		p.visible = v
		p.listeners.emit(v)
	}
	c := p.changed
	p.changed = false
	return c
}

func (p *desktopPlatform) Visible() bool { return p.visible }

func (p *desktopPlatform) Watch(fn func(bool)) func() {
	id := p.listeners.add(fn)
	return func() { p.listeners.remove(id) }
}

func (p *desktopPlatform) Pointer() (Vec2, bool, bool) {
	x, y := ebiten.CursorPosition()
	w, h := ebiten.WindowSize()
	inside := ebiten.IsFocused() && x >= 0 && y >= 0 && x < w && y < h
	return Vec2{X: float64(x), Y: float64(y)}, inside, true
}
