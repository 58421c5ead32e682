package ambience

type syntheticKind uint8

const (
	injectVisibility syntheticKind = iota
	injectPointer
	injectPointerLeave
	injectResize
	injectScroll
)

// syntheticEvent is one queued platform event. Pointer coordinates are
// window pixels, the same space the platform reports.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64
	visible bool
}

// InjectVisibility queues a page visibility change. Events are consumed one
// per frame at the start of the next Update.
func (s *Stage) InjectVisibility(visible bool) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: injectVisibility, visible: visible})
}

// InjectPointer queues a pointer move to window coordinates (x, y). While
// injected pointer events are pending the platform pointer is ignored.
func (s *Stage) InjectPointer(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: injectPointer, x: x, y: y})
}

// InjectPointerLeave queues the pointer leaving the window.
func (s *Stage) InjectPointerLeave() {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: injectPointerLeave})
}

// InjectPath queues pointer moves from (fromX, fromY) to (toX, toY), one per
// frame over the given number of frames (at least 2).
func (s *Stage) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	for i := range frames {
		t := float64(i) / float64(frames-1)
		s.InjectPointer(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// InjectResize queues a window resize. Like a real resize, the capability
// recomputation it triggers is debounced.
func (s *Stage) InjectResize(w, h int) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: injectResize, x: float64(w), y: float64(h)})
}

// InjectScroll queues a scroll to document offset (x, y).
func (s *Stage) InjectScroll(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: injectScroll, x: x, y: y})
}

// ScrollTo moves the viewport immediately.
func (s *Stage) ScrollTo(x, y float64) {
	s.scroll = Vec2{X: x, Y: y}
}

// Scroll returns the document offset of the viewport.
func (s *Stage) Scroll() Vec2 { return s.scroll }

// Pending returns the number of queued synthetic events.
func (s *Stage) Pending() int { return len(s.injectQueue) }

// processInjected pops one synthetic event and applies it, then falls back
// to the platform pointer when no synthetic pointer input is queued.
func (s *Stage) processInjected() {
	pointerDriven := false
	if len(s.injectQueue) > 0 {
		evt := s.injectQueue[0]
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

		switch evt.kind {
		case injectVisibility:
			s.vis.set(evt.visible)
		case injectPointer:
			s.ptr = Vec2{X: evt.x, Y: evt.y}
			s.ptrInside = true
			s.pointer.OnMove(s.ptr)
			s.pointer.SetInside(true)
			pointerDriven = true
		case injectPointerLeave:
			s.ptrInside = false
			s.pointer.SetInside(false)
			pointerDriven = true
		case injectResize:
			s.resize(int(evt.x), int(evt.y))
		case injectScroll:
			s.scroll = Vec2{X: evt.x, Y: evt.y}
		}
	}
	if pointerDriven || s.injectedPointerPending() {
		s.syntheticPointer = true
		return
	}
	if s.syntheticPointer {
		return
	}
	p, inside, ok := s.platform.Pointer()
	if !ok {
		return
	}
	if inside && (p != s.ptr || !s.ptrInside) {
		s.pointer.OnMove(p)
	}
	s.ptr, s.ptrInside = p, inside
	s.pointer.SetInside(inside)
}

func (s *Stage) injectedPointerPending() bool {
	for _, e := range s.injectQueue {
		if e.kind == injectPointer || e.kind == injectPointerLeave {
			return true
		}
	}
	return false
}

// ReleasePointer hands pointer input back to the platform after injected
// pointer events.
func (s *Stage) ReleasePointer() {
	s.syntheticPointer = false
}
