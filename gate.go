package ambience

// Evaluate is the animation gate: an element animates richly only when the
// device allows motion, the page is visible and the element is in the
// viewport. It short-circuits on the first unfavorable input and is a pure
// function of its arguments; callers re-evaluate on every input change
// instead of caching the result.
func Evaluate(profile DeviceProfile, visible, inView bool) bool {
	if !profile.AllowsMotion() {
		return false
	}
	if !visible {
		return false
	}
	return inView
}

// EvaluateSimple is the reveal trigger for elements collapsed to the
// two-state reduced machine. Motion preference is ignored there: content
// still has to appear, only without animation.
func EvaluateSimple(visible, inView bool) bool {
	return visible && inView
}

// GateInputs is the per-frame snapshot an element's state machine consumes.
// Profile and Visible are read once per frame before any element is updated.
type GateInputs struct {
	Profile DeviceProfile
	Visible bool
	InView  bool
}

// Open reports Evaluate for the snapshot.
func (g GateInputs) Open() bool {
	return Evaluate(g.Profile, g.Visible, g.InView)
}
