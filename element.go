package ambience

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ElementOptions configures an element mounted on a Stage.
type ElementOptions struct {
	// Name is used in logs and debug panics.
	Name string
	// Variant is the entrance token. The zero value is VariantFadeUp.
	Variant Variant
	// Index is the element's position in its group, used for stagger.
	Index int
	// Columns lays the group out as a grid for stagger. Zero means 3 for
	// VariantGridCard and 1 otherwise.
	Columns int
	// Reversible lets the element exit when it leaves the viewport. By
	// default reveals happen once.
	Reversible bool
	// Threshold overrides the stage's viewport threshold.
	Threshold *ThresholdConfig
	// Idle enables the idle float loop.
	Idle bool
	// Distortion mounts a hover distortion overlay tinted with Color.
	Distortion bool
	Color      Color
	// Tag, Role and Parent describe the element for pointer classification.
	Tag    string
	Role   string
	Parent *Element
	// Draw, when set, is called by Stage.Draw with the element's screen
	// bounds and current pose.
	Draw func(dst *ebiten.Image, e *Element)
}

// Element is the per-element context created by Stage.Mount. It owns the
// element's viewport membership, reveal state machine, idle loop and
// distortion overlay, and releases all of them on Unmount.
type Element struct {
	stage  *Stage
	id     uint32
	target Bounded
	opts   ElementOptions

	membership *Membership
	unobserve  func()
	machine    *TransitionMachine
	idle       *IdleLoop
	overlay    *ShaderHandle
	handles    []CallbackHandle

	gateOpen  bool
	hovered   bool
	unmounted bool
}

func newElement(s *Stage, id uint32, target Bounded, opts ElementOptions) *Element {
	e := &Element{stage: s, id: id, target: target, opts: opts}

	cols := opts.Columns
	if cols == 0 {
		cols = 1
		if opts.Variant == VariantGridCard {
			cols = 3
		}
	}
	th := s.cfg.Viewport
	if opts.Threshold != nil {
		th = *opts.Threshold
	}

	e.membership, e.unobserve = s.observer.Observe(target, th)
	e.machine = NewTransitionMachine(Lookup(opts.Variant), PositionAt(opts.Index, cols),
		!opts.Reversible, simplifiedFor(s.profile))
	e.handles = append(e.handles, e.machine.OnTransition(func(t Transition) {
		s.metrics.transition(t.To)
	}))
	if opts.Idle {
		e.idle = NewIdleLoop(opts.Index)
	}
	if opts.Distortion {
		b := target.Bounds()
		e.overlay = s.renderer.Mount(SurfaceConfig{
			Layer:     LayerDistortion,
			Colors:    []Color{opts.Color},
			Width:     int(b.Width),
			Height:    int(b.Height),
			TimeScale: s.cfg.DistortionTimeScale,
		})
	}
	return e
}

// simplifiedFor reports whether reveals collapse to the two-state machine.
func simplifiedFor(p DeviceProfile) bool {
	return p.PrefersReducedMotion || p.IsLowEnd
}

// ID returns the stage-unique element ID.
func (e *Element) ID() uint32 { return e.id }

// Name returns the configured name.
func (e *Element) Name() string { return e.opts.Name }

// Bounds returns the element's document-space bounds.
func (e *Element) Bounds() Rect { return e.target.Bounds() }

// ScreenBounds returns the bounds relative to the current scroll offset.
func (e *Element) ScreenBounds() Rect {
	b := e.target.Bounds()
	b.X -= e.stage.scroll.X
	b.Y -= e.stage.scroll.Y
	return b
}

// State returns the reveal state.
func (e *Element) State() TransitionState { return e.machine.State() }

// Machine returns the element's reveal state machine.
func (e *Element) Machine() *TransitionMachine { return e.machine }

// Pose returns the reveal pose with the idle offset applied.
func (e *Element) Pose() Pose {
	p := e.machine.Pose()
	if e.idle != nil {
		p.Y += e.idle.Y
	}
	return p
}

// InView reports viewport membership.
func (e *Element) InView() bool { return e.membership.InView() }

// GateOpen reports the animation gate as of the last frame.
func (e *Element) GateOpen() bool { return e.gateOpen }

// Hovered reports whether the pointer was over the element last frame.
func (e *Element) Hovered() bool { return e.hovered }

// Idle returns the idle loop, or nil.
func (e *Element) Idle() *IdleLoop { return e.idle }

// Overlay returns the distortion surface, or nil.
func (e *Element) Overlay() *ShaderHandle { return e.overlay }

// OnTransition registers fn for reveal state changes.
func (e *Element) OnTransition(fn func(Transition)) CallbackHandle {
	if e.checkMounted("OnTransition") {
		return CallbackHandle{}
	}
	h := e.machine.OnTransition(fn)
	e.handles = append(e.handles, h)
	return h
}

// Tag implements TagNode.
func (e *Element) Tag() string { return e.opts.Tag }

// Attr implements TagNode. Only "role" is known.
func (e *Element) Attr(name string) string {
	if name == "role" {
		return e.opts.Role
	}
	return ""
}

// Parent implements TagNode.
func (e *Element) Parent() TagNode {
	if e.opts.Parent == nil {
		return nil
	}
	return e.opts.Parent
}

// Unmount synchronously releases the viewport observation, the overlay
// surface and every callback the element registered. It is idempotent.
func (e *Element) Unmount() {
	if e.unmounted {
		return
	}
	e.unmounted = true
	e.unobserve()
	for _, h := range e.handles {
		h.Remove()
	}
	e.handles = nil
	if e.overlay != nil {
		e.stage.renderer.Unmount(e.overlay)
	}
	e.stage.removeElement(e)
}

// Unmounted reports whether Unmount was called.
func (e *Element) Unmounted() bool { return e.unmounted }

// update runs one frame for the element. profile and visible are the
// stage's per-frame snapshot.
func (e *Element) update(dt float32, profile DeviceProfile, visible bool, pointer Vec2, pointerInside bool) (flipped bool) {
	in := GateInputs{Profile: profile, Visible: visible, InView: e.membership.InView()}
	open := in.Open()
	flipped = open != e.gateOpen
	e.gateOpen = open

	e.machine.Update(dt, in)
	if e.idle != nil {
		e.idle.Update(float64(dt), open)
	}

	sb := e.ScreenBounds()
	e.hovered = pointerInside && sb.Contains(pointer.X, pointer.Y)
	if e.overlay != nil {
		e.overlay.SetInView(in.InView)
		e.overlay.SetHovered(e.hovered)
		if sb.Width > 0 && sb.Height > 0 {
			e.overlay.SetPointer(Vec2{
				X: (pointer.X - sb.X) / sb.Width,
				Y: 1 - (pointer.Y-sb.Y)/sb.Height,
			})
		}
		if int(sb.Width) != e.overlay.cfg.Width || int(sb.Height) != e.overlay.cfg.Height {
			e.overlay.SetResolution(int(sb.Width), int(sb.Height))
		}
	}
	return flipped
}

func (e *Element) checkMounted(op string) bool {
	if !e.unmounted {
		return false
	}
	if globalDebug {
		panic(fmt.Sprintf("ambience debug: %s on unmounted element %q (ID was %d)", op, e.opts.Name, e.id))
	}
	return true
}
