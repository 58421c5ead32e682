//go:build js && wasm

package ambience

import (
	"syscall/js"

	"github.com/hajimehoshi/ebiten/v2"
)

// browserPlatform reads capability hints from navigator and media queries and
// visibility from document.visibilityState.
type browserPlatform struct {
	cfg     Config
	changed bool

	mediaFuncs []js.Func
	mediaLists []js.Value
}

// NewPlatform returns the platform for the running host.
func NewPlatform(cfg Config) Platform {
	p := &browserPlatform{cfg: cfg}
	win := js.Global().Get("window")
	if win.Get("matchMedia").Type() != js.TypeFunction {
		return p
	}
	for _, q := range []string{"(hover: hover)", "(pointer: coarse)", "(prefers-reduced-motion: reduce)"} {
		mql := win.Call("matchMedia", q)
		fn := js.FuncOf(func(this js.Value, args []js.Value) any {
			p.changed = true
			return nil
		})
		mql.Call("addEventListener", "change", fn)
		p.mediaLists = append(p.mediaLists, mql)
		p.mediaFuncs = append(p.mediaFuncs, fn)
	}
	return p
}

func mediaMatches(q string) Tri {
	win := js.Global().Get("window")
	if win.Get("matchMedia").Type() != js.TypeFunction {
		return TriUnknown
	}
	return TriOf(win.Call("matchMedia", q).Get("matches").Truthy())
}

func (p *browserPlatform) Signals() PlatformSignals {
	nav := js.Global().Get("navigator")
	s := PlatformSignals{
		Hover:         mediaMatches("(hover: hover)"),
		ReducedMotion: mediaMatches("(prefers-reduced-motion: reduce)"),
	}
	if v := nav.Get("hardwareConcurrency"); v.Type() == js.TypeNumber {
		s.LogicalCores = v.Int()
	}
	if v := nav.Get("deviceMemory"); v.Type() == js.TypeNumber {
		s.DeviceMemoryGB = v.Float()
	}
	if p.cfg.DeviceMemoryGB > 0 {
		s.DeviceMemoryGB = p.cfg.DeviceMemoryGB
	}
	switch {
	case js.Global().Get("window").Get("ontouchstart").Type() != js.TypeUndefined:
		s.Touch = TriTrue
	case nav.Get("maxTouchPoints").Type() == js.TypeNumber:
		s.Touch = TriOf(nav.Get("maxTouchPoints").Int() > 0)
	}
	if p.cfg.ReducedMotion {
		s.ReducedMotion = TriTrue
	}
	return s
}

func (p *browserPlatform) Poll() bool {
	c := p.changed
	p.changed = false
	return c
}

func (p *browserPlatform) Visible() bool {
	return js.Global().Get("document").Get("visibilityState").String() != "hidden"
}

func (p *browserPlatform) Watch(fn func(bool)) func() {
	doc := js.Global().Get("document")
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(p.Visible())
		return nil
	})
	doc.Call("addEventListener", "visibilitychange", cb)
	return func() {
		doc.Call("removeEventListener", "visibilitychange", cb)
		cb.Release()
	}
}

func (p *browserPlatform) Pointer() (Vec2, bool, bool) {
	x, y := ebiten.CursorPosition()
	w, h := ebiten.WindowSize()
	inside := x >= 0 && y >= 0 && (w == 0 || x < w) && (h == 0 || y < h)
	return Vec2{X: float64(x), Y: float64(y)}, inside, true
}

// Close detaches the media-query listeners.
func (p *browserPlatform) Close() {
	for i, fn := range p.mediaFuncs {
		p.mediaLists[i].Call("removeEventListener", "change", fn)
		fn.Release()
	}
	p.mediaFuncs, p.mediaLists = nil, nil
}
