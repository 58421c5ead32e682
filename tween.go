package ambience

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// progressDriver produces animation progress in [0, 1] (curves may overshoot)
// from elapsed frame time.
type progressDriver interface {
	update(dt float32) (progress float64, done bool)
}

// curveDriver wraps a gween tween from 0 to 1 along an easing function.
type curveDriver struct {
	tween *gween.Tween
}

func newCurveDriver(duration float64, fn ease.TweenFunc) *curveDriver {
	return &curveDriver{tween: gween.New(0, 1, float32(duration), fn)}
}

func (d *curveDriver) update(dt float32) (float64, bool) {
	v, finished := d.tween.Update(dt)
	if finished {
		return 1, true
	}
	return float64(v), false
}

// springDriver integrates a harmonica spring toward 1. The spring is rebuilt
// whenever the frame delta changes, since harmonica bakes the delta into its
// coefficients. It finishes after the settle time.
type springDriver struct {
	params  SpringParams
	spring  harmonica.Spring
	lastDT  float32
	pos     float64
	vel     float64
	elapsed float64
	settle  float64
}

func newSpringDriver(p SpringParams, settle float64) *springDriver {
	return &springDriver{params: p, settle: settle}
}

func (d *springDriver) update(dt float32) (float64, bool) {
	if dt <= 0 {
		return d.pos, d.elapsed >= d.settle
	}
	if dt != d.lastDT {
		d.spring = harmonica.NewSpring(float64(dt), d.params.AngularFrequency(), d.params.DampingRatio())
		d.lastDT = dt
	}
	d.pos, d.vel = d.spring.Update(d.pos, d.vel, 1)
	d.elapsed += float64(dt)
	if d.elapsed >= d.settle {
		d.pos, d.vel = 1, 0
		return 1, true
	}
	return d.pos, false
}

// PoseTween animates a Pose from one endpoint to another after an optional
// delay. Create one with NewPoseTween or from a MotionToken and call Update
// each frame. Value holds the current interpolated pose.
//
// There is no global animation manager; owners call Update themselves.
type PoseTween struct {
	from, to Pose
	delay    float64
	elapsed  float64
	duration float64
	driver   progressDriver
	progress float64

	Value Pose
	Done  bool
}

// NewPoseTween creates a tween driven by a timing curve.
func NewPoseTween(from, to Pose, delay, duration float64, curve CubicBezier) *PoseTween {
	return &PoseTween{
		from:     from,
		to:       to,
		delay:    delay,
		duration: duration,
		driver:   newCurveDriver(duration, curve.TweenFunc()),
		Value:    from,
	}
}

// NewSpringPoseTween creates a tween driven by a damped spring that settles
// after duration seconds.
func NewSpringPoseTween(from, to Pose, delay, duration float64, spring SpringParams) *PoseTween {
	return &PoseTween{
		from:     from,
		to:       to,
		delay:    delay,
		duration: duration,
		driver:   newSpringDriver(spring, duration),
		Value:    from,
	}
}

// Update advances the tween by dt seconds. Delay is consumed first; time left
// over in the frame that ends the delay is applied to the animation.
func (t *PoseTween) Update(dt float32) {
	if t.Done {
		return
	}
	step := float64(dt)
	if t.elapsed < t.delay {
		t.elapsed += step
		if t.elapsed < t.delay {
			return
		}
		step = t.elapsed - t.delay
	} else {
		t.elapsed += step
	}
	if t.duration <= 0 {
		t.finish()
		return
	}
	p, done := t.driver.update(float32(step))
	t.progress = p
	t.Value = t.from.Lerp(t.to, p)
	if done {
		t.finish()
	}
}

// Progress returns the eased progress of the animation phase. Overshooting
// curves may briefly exceed 1.
func (t *PoseTween) Progress() float64 {
	return t.progress
}

// Remaining returns the seconds left, including any unconsumed delay.
func (t *PoseTween) Remaining() float64 {
	if t.Done {
		return 0
	}
	return math.Max(0, t.delay+t.duration-t.elapsed)
}

// Finish jumps to the end pose.
func (t *PoseTween) Finish() {
	t.finish()
}

func (t *PoseTween) finish() {
	t.progress = 1
	t.Value = t.to
	t.Done = true
}

// tweenFor builds the entrance tween a token describes for pos.
func tweenFor(tok MotionToken, pos GridPosition, from Pose) *PoseTween {
	delay := tok.DelayFor(pos)
	dur := tok.DurationFor(pos.Index)
	if tok.HasSpring {
		return NewSpringPoseTween(from, IdentityPose, delay, dur, tok.Spring)
	}
	return NewPoseTween(from, IdentityPose, delay, dur, tok.Curve())
}
