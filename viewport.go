package ambience

// Default viewport membership configuration: an element counts as in view
// once 10% of it intersects the viewport grown by 50px on every side.
const (
	DefaultThresholdRatio = 0.1
	DefaultRootMargin     = 50.0
)

// ThresholdConfig controls when an observed element counts as in view.
type ThresholdConfig struct {
	// Threshold is the minimum intersection ratio in [0, 1]. Zero means any
	// overlap, including touching edges.
	Threshold float64 `yaml:"threshold"`
	// RootMargin grows (or, when negative, shrinks) the viewport in pixels
	// before intersecting.
	RootMargin float64 `yaml:"root_margin"`
}

// DefaultThreshold returns the 10% / 50px configuration.
func DefaultThreshold() ThresholdConfig {
	return ThresholdConfig{Threshold: DefaultThresholdRatio, RootMargin: DefaultRootMargin}
}

// Bounded is anything with a document-space bounding box.
type Bounded interface {
	Bounds() Rect
}

// BoundsFunc adapts a function to Bounded.
type BoundsFunc func() Rect

// Bounds calls f.
func (f BoundsFunc) Bounds() Rect { return f() }

// StaticBounds is a fixed rectangle.
type StaticBounds Rect

// Bounds returns the rectangle.
func (b StaticBounds) Bounds() Rect { return Rect(b) }

// Membership is one element's in-viewport flag. It is owned by the element
// that observed it and is destroyed by the unobserve func.
type Membership struct {
	id        uint32
	target    Bounded
	cfg       ThresholdConfig
	inView    bool
	ratio     float64
	observer  *ViewportObserver
	listeners listenerList[bool]
	removed   bool
}

// InView reports the latest membership.
func (m *Membership) InView() bool {
	return m != nil && m.inView
}

// Ratio returns the last computed intersection ratio.
func (m *Membership) Ratio() float64 {
	return m.ratio
}

// Config returns the threshold configuration in effect.
func (m *Membership) Config() ThresholdConfig {
	return m.cfg
}

// OnChange registers fn to be called on each threshold crossing.
func (m *Membership) OnChange(fn func(inView bool)) CallbackHandle {
	id := m.listeners.add(fn)
	return handleFor(&m.listeners, id, nil)
}

// ViewportObserver computes intersection of observed elements with the
// visible viewport. Call Update whenever the viewport scrolls or resizes and
// once per frame so moved elements are picked up no later than the next
// frame.
type ViewportObserver struct {
	viewport Rect
	members  []*Membership
	nextID   uint32
}

// NewViewportObserver creates an observer for the given viewport.
func NewViewportObserver(viewport Rect) *ViewportObserver {
	return &ViewportObserver{viewport: viewport}
}

// Viewport returns the viewport used by the last Update.
func (o *ViewportObserver) Viewport() Rect {
	return o.viewport
}

// Len returns the number of live memberships.
func (o *ViewportObserver) Len() int {
	return len(o.members)
}

// Observe starts tracking target. The initial membership is computed
// immediately without firing OnChange. The returned unobserve func is
// idempotent.
func (o *ViewportObserver) Observe(target Bounded, cfg ThresholdConfig) (*Membership, func()) {
	o.nextID++
	m := &Membership{id: o.nextID, target: target, cfg: cfg, observer: o}
	b, root := target.Bounds(), o.viewport.Expand(cfg.RootMargin)
	m.ratio = intersectionRatio(b, root)
	m.inView = crosses(m.ratio, b, root, cfg.Threshold)
	o.members = append(o.members, m)
	return m, func() { o.unobserve(m) }
}

func (o *ViewportObserver) unobserve(m *Membership) {
	if m.removed {
		return
	}
	m.removed = true
	for i, cur := range o.members {
		if cur == m {
			copy(o.members[i:], o.members[i+1:])
			o.members[len(o.members)-1] = nil
			o.members = o.members[:len(o.members)-1]
			break
		}
	}
	m.inView = false
	clear(m.listeners.items)
	m.listeners.items = m.listeners.items[:0]
}

// Update re-intersects every observed element against viewport and fires
// OnChange for each element whose membership crossed the threshold.
func (o *ViewportObserver) Update(viewport Rect) {
	o.viewport = viewport
	for _, m := range o.members {
		root := viewport.Expand(m.cfg.RootMargin)
		b := m.target.Bounds()
		m.ratio = intersectionRatio(b, root)
		in := crosses(m.ratio, b, root, m.cfg.Threshold)
		if in == m.inView {
			continue
		}
		m.inView = in
		m.listeners.emit(in)
	}
}

// intersectionRatio returns the visible fraction of target inside root.
// Zero-area targets count as fully visible when their origin lies in root.
func intersectionRatio(target, root Rect) float64 {
	area := target.Area()
	if area <= 0 {
		if root.Contains(target.X, target.Y) {
			return 1
		}
		return 0
	}
	return target.Intersection(root).Area() / area
}

func crosses(ratio float64, target, root Rect, threshold float64) bool {
	if threshold <= 0 {
		return target.Touches(root)
	}
	return ratio >= threshold
}
