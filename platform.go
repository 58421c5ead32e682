package ambience

// Platform is the host side of the stage: capability hints, page visibility
// and pointer input.
type Platform interface {
	VisibilitySource
	// Signals returns a fresh capability reading.
	Signals() PlatformSignals
	// Poll is called at the start of every frame. It reports whether
	// capability signals may have changed since the last call.
	Poll() bool
	// Pointer returns the raw pointer position in window pixels and whether
	// the pointer is inside the window. ok is false when no pointer exists.
	Pointer() (p Vec2, inside, ok bool)
}

// StaticPlatform is a Platform whose readings are set by the caller. It is
// used by tests and headless tools.
type StaticPlatform struct {
	signals   PlatformSignals
	visible   bool
	changed   bool
	pointer   Vec2
	inside    bool
	hasPtr    bool
	listeners listenerList[bool]
}

// NewStaticPlatform creates a visible platform reporting s.
func NewStaticPlatform(s PlatformSignals) *StaticPlatform {
	return &StaticPlatform{signals: s, visible: true}
}

// Signals implements Platform.
func (p *StaticPlatform) Signals() PlatformSignals { return p.signals }

// SetSignals replaces the reading; the next Poll reports a change.
func (p *StaticPlatform) SetSignals(s PlatformSignals) {
	p.signals = s
	p.changed = true
}

// Poll implements Platform.
func (p *StaticPlatform) Poll() bool {
	c := p.changed
	p.changed = false
	return c
}

// Visible implements VisibilitySource.
func (p *StaticPlatform) Visible() bool { return p.visible }

// SetVisible changes visibility and notifies watchers.
func (p *StaticPlatform) SetVisible(v bool) {
	if v == p.visible {
		return
	}
	p.visible = v
	p.listeners.emit(v)
}

// Watch implements VisibilitySource.
func (p *StaticPlatform) Watch(fn func(bool)) func() {
	id := p.listeners.add(fn)
	return func() { p.listeners.remove(id) }
}

// Watchers returns the number of attached visibility listeners.
func (p *StaticPlatform) Watchers() int { return p.listeners.len() }

// SetPointer moves the pointer inside the window.
func (p *StaticPlatform) SetPointer(v Vec2) {
	p.pointer, p.inside, p.hasPtr = v, true, true
}

// LeavePointer moves the pointer out of the window.
func (p *StaticPlatform) LeavePointer() {
	p.inside = false
}

// Pointer implements Platform.
func (p *StaticPlatform) Pointer() (Vec2, bool, bool) {
	return p.pointer, p.inside, p.hasPtr
}
