package ambience

// TransitionParams are the concrete interpolation parameters sampled from a
// MotionToken for one transition. The visual layer animates From to To
// starting after Delay.
type TransitionParams struct {
	Variant  Variant
	Easing   Easing
	Spring   SpringParams
	Delay    float64
	Duration float64
	From     Pose
	To       Pose
}

// Transition is delivered to OnTransition listeners on every state change.
type Transition struct {
	From   TransitionState
	To     TransitionState
	Params TransitionParams
	// Simplified is true when the transition came from the two-state reduced
	// machine.
	Simplified bool
}

// TransitionMachine is the per-element reveal state machine:
//
//	Hidden   --gate opens-->                 Entering
//	Entering --entrance duration elapses-->  Visible
//	Visible  --leaves viewport (once=false)--> Exiting
//	Exiting  --exit duration elapses-->      Hidden
//
// In simplified mode (reduced motion or low-end devices) only Hidden and
// Visible are used, with the reduced token and no stagger. The machine never
// paints; it exposes the current pose and notifies listeners.
type TransitionMachine struct {
	token      MotionToken
	pos        GridPosition
	once       bool
	simplified bool

	state TransitionState
	tween *PoseTween
	pose  Pose

	listeners listenerList[Transition]
}

// NewTransitionMachine creates a machine in the Hidden state.
func NewTransitionMachine(tok MotionToken, pos GridPosition, once, simplified bool) *TransitionMachine {
	m := &TransitionMachine{token: tok, pos: pos, once: once, simplified: simplified}
	m.pose = m.hiddenPose()
	return m
}

// State returns the current state.
func (m *TransitionMachine) State() TransitionState { return m.state }

// Pose returns the current presentation pose.
func (m *TransitionMachine) Pose() Pose { return m.pose }

// Token returns the entrance token the machine samples in full mode.
func (m *TransitionMachine) Token() MotionToken { return m.token }

// Simplified reports whether the two-state reduced machine is in effect.
func (m *TransitionMachine) Simplified() bool { return m.simplified }

// Once reports whether leaving the viewport is ignored after reveal.
func (m *TransitionMachine) Once() bool { return m.once }

// Progress returns reveal progress: 0 when hidden, 1 when fully visible,
// the eased tween progress while animating. During an exit it counts down.
func (m *TransitionMachine) Progress() float64 {
	switch m.state {
	case StateEntering:
		return m.tween.Progress()
	case StateExiting:
		return 1 - m.tween.Progress()
	case StateVisible:
		if m.tween != nil {
			return m.tween.Progress()
		}
		return 1
	default:
		return 0
	}
}

// OnTransition registers fn for state changes.
func (m *TransitionMachine) OnTransition(fn func(Transition)) CallbackHandle {
	id := m.listeners.add(fn)
	return handleFor(&m.listeners, id, nil)
}

// Update advances in-flight animations by dt seconds and applies the gate
// inputs. Running durations are never cut short by input changes.
func (m *TransitionMachine) Update(dt float32, in GateInputs) {
	switch m.state {
	case StateHidden:
		if m.simplified {
			if EvaluateSimple(in.Visible, in.InView) {
				m.revealSimplified(m.pose)
			}
			return
		}
		if in.Open() {
			m.enter()
		}

	case StateEntering:
		m.tween.Update(dt)
		m.pose = m.tween.Value
		if m.tween.Done {
			m.tween = nil
			m.set(StateVisible, m.settledParams())
		}

	case StateVisible:
		if m.tween != nil {
			m.tween.Update(dt)
			m.pose = m.tween.Value
			if m.tween.Done {
				m.tween = nil
			}
		}
		if m.once || in.InView {
			return
		}
		if m.simplified {
			m.tween = nil
			m.pose = m.hiddenPose()
			m.set(StateHidden, m.reducedParams(IdentityPose, m.pose))
			return
		}
		m.exit()

	case StateExiting:
		m.tween.Update(dt)
		m.pose = m.tween.Value
		if m.tween.Done {
			m.tween = nil
			m.set(StateHidden, TransitionParams{Variant: m.token.Variant, From: m.pose, To: m.pose})
		}
	}
}

// Collapse switches the machine to simplified mode immediately, ending any
// in-flight entrance or exit. An entering element becomes Visible with the
// reduced fade from wherever it was; an exiting element becomes Hidden.
func (m *TransitionMachine) Collapse() {
	if m.simplified {
		return
	}
	m.simplified = true
	switch m.state {
	case StateEntering:
		m.revealSimplified(m.pose)
	case StateExiting:
		m.tween = nil
		from := m.pose
		m.pose = m.hiddenPose()
		m.set(StateHidden, m.reducedParams(from, m.pose))
	case StateVisible:
		if m.tween != nil {
			m.tween.Finish()
			m.pose = m.tween.Value
			m.tween = nil
		}
	case StateHidden:
		m.pose = m.hiddenPose()
	}
}

// Restore returns to full mode. It takes effect on the next transition.
func (m *TransitionMachine) Restore() {
	m.simplified = false
}

func (m *TransitionMachine) enter() {
	from := m.token.HiddenPoseFor(m.pos)
	m.tween = tweenFor(m.token, m.pos, from)
	m.pose = from
	m.set(StateEntering, TransitionParams{
		Variant:  m.token.Variant,
		Easing:   m.token.Easing,
		Spring:   m.token.Spring,
		Delay:    m.token.DelayFor(m.pos),
		Duration: m.token.DurationFor(m.pos.Index),
		From:     from,
		To:       IdentityPose,
	})
}

func (m *TransitionMachine) exit() {
	to := m.token.HiddenPoseFor(m.pos)
	m.tween = NewPoseTween(m.pose, to, 0, m.token.ExitDuration, m.token.ExitEasing.Curve())
	m.set(StateExiting, TransitionParams{
		Variant:  m.token.Variant,
		Easing:   m.token.ExitEasing,
		Duration: m.token.ExitDuration,
		From:     m.pose,
		To:       to,
	})
}

func (m *TransitionMachine) revealSimplified(from Pose) {
	red := ReducedToken()
	m.tween = NewPoseTween(from, IdentityPose, 0, red.Duration, red.Curve())
	m.pose = from
	m.set(StateVisible, m.reducedParams(from, IdentityPose))
}

func (m *TransitionMachine) reducedParams(from, to Pose) TransitionParams {
	red := ReducedToken()
	return TransitionParams{
		Variant:  VariantReduced,
		Easing:   red.Easing,
		Duration: red.Duration,
		From:     from,
		To:       to,
	}
}

func (m *TransitionMachine) settledParams() TransitionParams {
	return TransitionParams{Variant: m.token.Variant, Easing: m.token.Easing, From: m.pose, To: IdentityPose}
}

func (m *TransitionMachine) hiddenPose() Pose {
	if m.simplified {
		return ReducedToken().Hidden
	}
	return m.token.HiddenPoseFor(m.pos)
}

func (m *TransitionMachine) set(to TransitionState, p TransitionParams) {
	tr := Transition{From: m.state, To: to, Params: p, Simplified: m.simplified}
	m.state = to
	m.listeners.emit(tr)
}
