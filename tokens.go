package ambience

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// --- Easing curves ---

// Easing identifies a registered timing curve.
type Easing uint8

const (
	EasePower     Easing = iota // fast-starting entrance curve
	EaseSoft                    // gentle exit curve
	EaseBounce                  // overshooting curve for interactive elements
	EaseFluid                   // continuous/idle motion
	EaseSnap                    // crisp UI feedback
	EaseLuxe                    // slow hero reveal
	EaseOrganic                 // natural default
	EaseCinematic               // dramatic symmetric reveal
	EaseLinear                  // identity
	easingCount
)

var easingCurves = [easingCount]CubicBezier{
	EasePower:     {0.19, 1, 0.22, 1},
	EaseSoft:      {0.25, 0.46, 0.45, 0.94},
	EaseBounce:    {0.68, -0.55, 0.265, 1.55},
	EaseFluid:     {0.4, 0, 0.2, 1},
	EaseSnap:      {0.55, 0.085, 0.68, 0.53},
	EaseLuxe:      {0.16, 1, 0.3, 1},
	EaseOrganic:   {0.25, 0.1, 0.25, 1},
	EaseCinematic: {0.83, 0, 0.17, 1},
	EaseLinear:    {0, 0, 1, 1},
}

var easingNames = [easingCount]string{
	"power", "soft", "bounce", "fluid", "snap", "luxe", "organic", "cinematic", "linear",
}

// Curve returns the control points of the named curve.
func (e Easing) Curve() CubicBezier {
	if e >= easingCount {
		return easingCurves[EaseLinear]
	}
	return easingCurves[e]
}

// TweenFunc adapts the curve to gween's easing signature.
func (e Easing) TweenFunc() ease.TweenFunc {
	return e.Curve().TweenFunc()
}

func (e Easing) String() string {
	if e >= easingCount {
		return "linear"
	}
	return easingNames[e]
}

// --- Springs ---

// SpringParams is a mass-spring-damper configuration.
type SpringParams struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// Registered springs.
var (
	SpringUI     = SpringParams{Stiffness: 300, Damping: 30, Mass: 0.8}
	SpringGentle = SpringParams{Stiffness: 120, Damping: 25, Mass: 1}
	SpringBouncy = SpringParams{Stiffness: 200, Damping: 15, Mass: 1.2}
	SpringHeavy  = SpringParams{Stiffness: 100, Damping: 40, Mass: 2}
	SpringSnap   = SpringParams{Stiffness: 400, Damping: 35, Mass: 0.5}
)

// AngularFrequency returns sqrt(k/m).
func (p SpringParams) AngularFrequency() float64 {
	return math.Sqrt(p.Stiffness / p.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)). 1 is critical damping.
func (p SpringParams) DampingRatio() float64 {
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))
}

// SettleTime estimates the time for the spring to settle within ~2% of its
// target: 4 / (zeta * omega) = 8m / c.
func (p SpringParams) SettleTime() float64 {
	if p.Damping <= 0 {
		return DurationEpic
	}
	return 8 * p.Mass / p.Damping
}

// WithDamping returns a copy with a different damping coefficient.
func (p SpringParams) WithDamping(d float64) SpringParams {
	p.Damping = d
	return p
}

// Harmonica converts the parameters to a harmonica spring integrated at the
// given frame rate.
func (p SpringParams) Harmonica(fps int) harmonica.Spring {
	if fps <= 0 {
		fps = 60
	}
	return harmonica.NewSpring(harmonica.FPS(fps), p.AngularFrequency(), p.DampingRatio())
}

// --- Durations and staggers (seconds) ---

const (
	DurationMicro     = 0.15
	DurationFast      = 0.3
	DurationStandard  = 0.6
	DurationSlow      = 0.9
	DurationCinematic = 1.2
	DurationEpic      = 1.8

	// DurationReduced is the fixed fade used by reduced-motion devices.
	DurationReduced = 0.3
)

const (
	StaggerTight    = 0.03
	StaggerText     = 0.05
	StaggerContent  = 0.08
	StaggerDramatic = 0.12
)

// GridPosition locates an element within a group entering together.
type GridPosition struct {
	Index   int
	Row     int
	Col     int
	Columns int
}

// PositionAt lays index out row-major over the given number of columns.
func PositionAt(index, columns int) GridPosition {
	if columns <= 0 {
		columns = 1
	}
	return GridPosition{Index: index, Row: index / columns, Col: index % columns, Columns: columns}
}

type staggerKind uint8

const (
	staggerNone staggerKind = iota
	staggerConstant
	staggerCascade
	staggerDiagonal
)

// Stagger computes a per-position start delay.
type Stagger struct {
	kind  staggerKind
	delta float64
}

// NoStagger starts every element at once.
func NoStagger() Stagger { return Stagger{} }

// StaggerBy delays each element by index*delta.
func StaggerBy(delta float64) Stagger { return Stagger{kind: staggerConstant, delta: delta} }

// StaggerCascade delays element i by 0.1/(i+1): 0.1, 0.05, 0.033, ...
func StaggerCascade() Stagger { return Stagger{kind: staggerCascade, delta: 0.1} }

// StaggerDiagonal produces a diagonal wave over a grid:
// row*0.1 + col*0.05 + index*0.02.
func StaggerDiagonal() Stagger { return Stagger{kind: staggerDiagonal} }

// Delay returns the start delay in seconds for pos.
func (s Stagger) Delay(pos GridPosition) float64 {
	switch s.kind {
	case staggerConstant:
		return float64(pos.Index) * s.delta
	case staggerCascade:
		return s.delta / float64(pos.Index+1)
	case staggerDiagonal:
		return float64(pos.Row)*0.1 + float64(pos.Col)*0.05 + float64(pos.Index)*0.02
	default:
		return 0
	}
}

// IsZero reports whether the stagger never delays.
func (s Stagger) IsZero() bool {
	return s.kind == staggerNone || (s.kind == staggerConstant && s.delta == 0)
}

// --- Poses ---

// Pose is a set of presentation properties. The visible pose is always
// IdentityPose; tokens carry the hidden pose they animate from.
type Pose struct {
	Opacity float64
	X, Y    float64
	Scale   float64
	Rotate  float64 // degrees
	RotateX float64 // degrees
	Blur    float64 // pixels
}

// IdentityPose is the fully revealed presentation.
var IdentityPose = Pose{Opacity: 1, Scale: 1}

// Lerp interpolates from p to q by t.
func (p Pose) Lerp(q Pose, t float64) Pose {
	l := func(a, b float64) float64 { return a + (b-a)*t }
	return Pose{
		Opacity: l(p.Opacity, q.Opacity),
		X:       l(p.X, q.X),
		Y:       l(p.Y, q.Y),
		Scale:   l(p.Scale, q.Scale),
		Rotate:  l(p.Rotate, q.Rotate),
		RotateX: l(p.RotateX, q.RotateX),
		Blur:    l(p.Blur, q.Blur),
	}
}

// --- Variants ---

// Variant names an entrance token. The set is closed; use ParseVariant at
// string boundaries.
type Variant uint8

const (
	VariantFadeUp Variant = iota // default token
	VariantScaleReveal
	VariantLiquid
	VariantOrganic
	VariantTextDefault
	VariantTextCinematic
	VariantTextOrganic
	VariantTextBounce
	VariantGridCard
	VariantProjectCard
	VariantReduced
	variantCount
)

// DefaultVariant is substituted for unknown names outside debug mode.
const DefaultVariant = VariantFadeUp

var variantNames = [variantCount]string{
	"fadeUp", "scaleReveal", "liquid", "organic",
	"textDefault", "textCinematic", "textOrganic", "textBounce",
	"gridCard", "projectCard", "reduced",
}

func (v Variant) String() string {
	if v >= variantCount {
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
	return variantNames[v]
}

// MotionToken is an immutable bundle of timing parameters for one entrance
// variant. Tokens are values; copies may be composed with the With* methods
// without affecting the registry.
type MotionToken struct {
	Variant Variant
	Easing  Easing
	// Spring is set for spring-driven variants; Duration is then the spring's
	// settle time.
	Spring    SpringParams
	HasSpring bool
	// Duration is the entrance duration in seconds for index 0.
	Duration float64
	// DurationPerIndex lengthens the entrance for later elements.
	DurationPerIndex float64
	// Delay is added before the stagger delay.
	Delay   float64
	Stagger Stagger
	// Hidden is the pose the entrance animates from.
	Hidden Pose

	ExitEasing   Easing
	ExitDuration float64
}

// Curve returns the entrance timing curve.
func (t MotionToken) Curve() CubicBezier {
	return t.Easing.Curve()
}

// DelayFor returns the start delay for pos.
func (t MotionToken) DelayFor(pos GridPosition) float64 {
	return t.Delay + t.Stagger.Delay(pos)
}

// DurationFor returns the entrance duration for the element at index.
func (t MotionToken) DurationFor(index int) float64 {
	return t.Duration + float64(index)*t.DurationPerIndex
}

// HiddenPoseFor returns the hidden pose, adjusted by grid position for the
// grid card variant.
func (t MotionToken) HiddenPoseFor(pos GridPosition) Pose {
	p := t.Hidden
	if t.Variant != VariantGridCard {
		return p
	}
	p.Y = 40 + float64(pos.Row)*10
	switch {
	case pos.Columns <= 1 || pos.Col*2 == pos.Columns-1:
		p.X = 0
	case pos.Col == 0:
		p.X = -20
	default:
		p.X = 20
	}
	return p
}

// WithDelay returns a copy with a different base delay.
func (t MotionToken) WithDelay(d float64) MotionToken {
	t.Delay = d
	return t
}

// WithStagger returns a copy with a different stagger.
func (t MotionToken) WithStagger(s Stagger) MotionToken {
	t.Stagger = s
	return t
}

var registry = [variantCount]MotionToken{
	VariantFadeUp: {
		Easing: EasePower, Duration: DurationStandard,
		Hidden: Pose{Opacity: 0, Y: 30, Scale: 0.98},
	},
	VariantScaleReveal: {
		Easing: EaseCinematic, Duration: DurationSlow,
		Hidden: Pose{Opacity: 0, Scale: 1.1, Blur: 4},
	},
	VariantLiquid: {
		Easing: EaseFluid, Duration: DurationStandard,
		Hidden: Pose{Opacity: 0, Y: 20, Scale: 1, RotateX: -15},
	},
	VariantOrganic: {
		Easing: EaseOrganic, Duration: DurationStandard,
		Hidden: Pose{Opacity: 0, Y: 25, Rotate: -2, Scale: 0.95},
	},
	VariantTextDefault: {
		Easing: EaseOrganic, Spring: SpringGentle, HasSpring: true,
		Duration: SpringGentle.SettleTime(), Stagger: StaggerBy(StaggerText),
		Hidden: Pose{Opacity: 0, Y: 25, Scale: 0.9, Blur: 2},
	},
	VariantTextCinematic: {
		Easing: EaseCinematic, Duration: 0.8, Stagger: StaggerBy(StaggerText),
		Hidden: Pose{Opacity: 0, Y: 40, Scale: 0.8, RotateX: -30, Blur: 4},
	},
	VariantTextOrganic: {
		Easing: EaseOrganic, Duration: DurationStandard, DurationPerIndex: organicGlyphDelay,
		Stagger: StaggerBy(StaggerText + organicGlyphDelay),
		Hidden:  Pose{Opacity: 0, Y: 30, Rotate: -3, Scale: 0.95},
	},
	VariantTextBounce: {
		Easing: EaseBounce, Spring: SpringBouncy, HasSpring: true,
		Duration: SpringBouncy.SettleTime(), Stagger: StaggerBy(StaggerText),
		Hidden: Pose{Opacity: 0, Y: 50, Scale: 0.3},
	},
	VariantGridCard: {
		Easing: EaseOrganic, Duration: DurationStandard, DurationPerIndex: 0.05,
		Stagger: StaggerDiagonal(),
		Hidden:  Pose{Opacity: 0, Y: 40, Scale: 0.95, Blur: 2},
	},
	VariantProjectCard: {
		Easing: EasePower, Duration: DurationStandard, Stagger: StaggerBy(StaggerContent),
		Hidden: Pose{Opacity: 0, Y: 25, Rotate: -2, Scale: 0.95},
	},
	VariantReduced: {
		Easing: EaseSoft, Duration: DurationReduced,
		Hidden: Pose{Opacity: 0, Y: 10, Scale: 1},
	},
}

func init() {
	for i := range registry {
		registry[i].Variant = Variant(i)
		registry[i].ExitEasing = EaseSoft
		registry[i].ExitDuration = DurationFast
	}
}

// Lookup returns the token registered for v. An out-of-range variant panics
// in debug mode and yields the default token otherwise.
func Lookup(v Variant) MotionToken {
	if v >= variantCount {
		return unknownVariant(v.String())
	}
	return registry[v]
}

// LookupName resolves a variant by name with the same fail-fast policy as
// Lookup.
func LookupName(name string) MotionToken {
	v, err := ParseVariant(name)
	if err != nil {
		return unknownVariant(name)
	}
	return registry[v]
}

// ReducedToken returns the fixed token used by reduced-motion and low-end
// devices.
func ReducedToken() MotionToken {
	return registry[VariantReduced]
}

// ParseVariant maps a name to a Variant.
func ParseVariant(name string) (Variant, error) {
	for i, n := range variantNames {
		if n == name {
			return Variant(i), nil
		}
	}
	return DefaultVariant, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Variants lists every registered variant.
func Variants() []Variant {
	out := make([]Variant, variantCount)
	for i := range out {
		out[i] = Variant(i)
	}
	return out
}

func unknownVariant(name string) MotionToken {
	if globalDebug {
		panic(fmt.Sprintf("ambience debug: unknown motion variant %q", name))
	}
	Logger().Warn("unknown motion variant, using default",
		zap.String("variant", name),
		zap.Stringer("default", DefaultVariant))
	return registry[DefaultVariant]
}

// --- Hover micro-interactions ---

// HoverName identifies a hover micro-interaction. These are not part of the
// reveal state machine and may oscillate freely.
type HoverName uint8

const (
	HoverLift HoverName = iota
	HoverGlow
	HoverBounce
	HoverMagnetic
	hoverCount
)

// HoverToken describes the pose an element moves to while hovered.
type HoverToken struct {
	Scale      float64
	Y          float64
	Rotate     float64
	Brightness float64
	Easing     Easing
	Duration   float64
	Spring     SpringParams
	HasSpring  bool
}

var hoverRegistry = [hoverCount]HoverToken{
	HoverLift:     {Scale: 1.02, Y: -4, Brightness: 1, Easing: EaseSnap, Duration: DurationMicro},
	HoverGlow:     {Scale: 1.03, Brightness: 1.05, Easing: EaseSoft, Duration: DurationFast},
	HoverBounce:   {Scale: 1.05, Rotate: 1, Brightness: 1, Easing: EaseBounce, Duration: DurationMicro},
	HoverMagnetic: {Scale: 1.08, Rotate: 2, Y: -6, Brightness: 1, Spring: SpringBouncy, HasSpring: true, Duration: SpringBouncy.SettleTime()},
}

// HoverLookup returns the hover token for name, or the lift token for an
// unregistered name.
func HoverLookup(name HoverName) HoverToken {
	if name >= hoverCount {
		return hoverRegistry[HoverLift]
	}
	return hoverRegistry[name]
}
