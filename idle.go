package ambience

import "math"

// Idle float parameters: y oscillates 0 → -amplitude → 0 over a period that
// grows with the element index so neighbours drift out of phase.
const (
	idleAmplitude      = 2.0
	idleBasePeriod     = 6.0
	idlePeriodPerIndex = 0.5
)

// IdleLoop is a continuous float animation. It is not part of the reveal
// state machine: it advances only while its gate is open and freezes in
// place otherwise, and may start and stop any number of times.
type IdleLoop struct {
	period float64
	phase  float64
	Y      float64
}

// NewIdleLoop creates a loop for the element at index.
func NewIdleLoop(index int) *IdleLoop {
	return &IdleLoop{period: idleBasePeriod + float64(index)*idlePeriodPerIndex}
}

// Period returns the loop period in seconds.
func (l *IdleLoop) Period() float64 { return l.period }

// Update advances the loop by dt seconds when open is true. The offset follows
// the fluid curve in both directions.
func (l *IdleLoop) Update(dt float64, open bool) {
	if !open {
		return
	}
	l.phase = math.Mod(l.phase+dt/l.period, 1)
	half := l.phase * 2
	if half > 1 {
		half = 2 - half
	}
	l.Y = -idleAmplitude * EaseFluid.Curve().At(half)
}
