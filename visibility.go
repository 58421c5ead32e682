package ambience

// VisibilitySource is the platform side of page visibility: the browser's
// visibilitychange event, or window minimize/focus on desktop.
type VisibilitySource interface {
	// Visible reports the current state.
	Visible() bool
	// Watch attaches a platform listener. The returned stop detaches it.
	Watch(fn func(visible bool)) (stop func())
}

// VisibilitySignal tracks whether the page is visible. The platform listener
// is attached lazily on the first Subscribe and detached when the last
// subscriber leaves, so repeated subscribe/unsubscribe cycles never leak it.
type VisibilitySignal struct {
	source    VisibilitySource
	visible   bool
	stop      func()
	listeners listenerList[bool]
}

// NewVisibilitySignal wraps a platform source. No listener is attached yet.
func NewVisibilitySignal(src VisibilitySource) *VisibilitySignal {
	return &VisibilitySignal{source: src, visible: src.Visible()}
}

// Visible returns the latest known state. While no one is subscribed the
// source is read directly.
func (v *VisibilitySignal) Visible() bool {
	if v.stop == nil {
		v.visible = v.source.Visible()
	}
	return v.visible
}

// Active reports whether the platform listener is currently attached.
func (v *VisibilitySignal) Active() bool {
	return v.stop != nil
}

// Subscribe registers fn to be called on every visibility transition. Only
// the latest state is delivered; nothing is buffered.
func (v *VisibilitySignal) Subscribe(fn func(visible bool)) CallbackHandle {
	id := v.listeners.add(fn)
	if v.stop == nil {
		v.visible = v.source.Visible()
		v.stop = v.source.Watch(v.set)
	}
	return handleFor(&v.listeners, id, v.release)
}

func (v *VisibilitySignal) release() {
	if v.listeners.len() > 0 || v.stop == nil {
		return
	}
	v.stop()
	v.stop = nil
}

// set records a platform reading and emits on change.
func (v *VisibilitySignal) set(visible bool) {
	if visible == v.visible {
		return
	}
	v.visible = visible
	v.listeners.emit(visible)
}
