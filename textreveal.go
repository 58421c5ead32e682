package ambience

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rivo/uniseg"
)

// nbsp replaces spaces so per-glyph layout keeps word gaps.
const nbsp = "\u00a0"

// organicGlyphDelay is the extra per-glyph delay and duration of the organic
// text variant.
const organicGlyphDelay = 0.02

// TextOptions configures a text reveal.
type TextOptions struct {
	// Variant is one of the text variants. Zero selects VariantTextDefault.
	Variant Variant
	// Delay before the first glyph starts, in seconds.
	Delay float64
	// Stagger between glyph starts. Zero selects StaggerText.
	Stagger float64
}

// Glyph is one planned unit of a text reveal.
type Glyph struct {
	Index    int
	Text     string
	Delay    float64
	Duration float64
	Easing   Easing
	Spring   SpringParams
	// HasSpring selects spring timing; Duration is then the settle time.
	HasSpring bool
	Hidden    Pose
}

// TextPlan is the output of TextReveal.
type TextPlan struct {
	Variant Variant
	// Simplified plans contain a single glyph holding the whole text.
	Simplified bool
	Glyphs     []Glyph
}

// TextReveal plans a per-glyph reveal of s. Glyphs are grapheme clusters;
// spaces become non-breaking spaces. Devices that do not allow rich visuals
// get one block fading in and rising 10px over 0.3s with no stagger.
func TextReveal(s string, profile DeviceProfile, opts TextOptions) TextPlan {
	v := opts.Variant
	switch v {
	case VariantTextDefault, VariantTextCinematic, VariantTextOrganic, VariantTextBounce:
	case VariantFadeUp:
		v = VariantTextDefault
	default:
		unknownVariant(v.String())
		v = VariantTextDefault
	}

	if !profile.AllowsRichVisuals() {
		red := ReducedToken()
		return TextPlan{
			Variant:    VariantReduced,
			Simplified: true,
			Glyphs: []Glyph{{
				Text:     s,
				Duration: red.Duration,
				Easing:   red.Easing,
				Hidden:   red.Hidden,
			}},
		}
	}

	tok := Lookup(v)
	stagger := opts.Stagger
	if stagger == 0 {
		stagger = StaggerText
	}
	extra := 0.0
	if v == VariantTextOrganic {
		extra = organicGlyphDelay
	}

	plan := TextPlan{Variant: v}
	g := uniseg.NewGraphemes(s)
	for i := 0; g.Next(); i++ {
		str := g.Str()
		if str == " " {
			str = nbsp
		}
		fi := float64(i)
		plan.Glyphs = append(plan.Glyphs, Glyph{
			Index:     i,
			Text:      str,
			Delay:     opts.Delay + fi*stagger + fi*extra,
			Duration:  tok.DurationFor(i),
			Easing:    tok.Easing,
			Spring:    tok.Spring,
			HasSpring: tok.HasSpring,
			Hidden:    tok.Hidden,
		})
	}
	return plan
}

// Total returns the time from start until the last glyph settles.
func (p TextPlan) Total() float64 {
	end := 0.0
	for _, g := range p.Glyphs {
		end = max(end, g.Delay+g.Duration)
	}
	return end
}

// TextAnimator plays a TextPlan. It is idle until Start; owners usually start
// it when the element's reveal enters.
type TextAnimator struct {
	plan    TextPlan
	tweens  []*PoseTween
	started bool

	op text.DrawOptions
}

// NewTextAnimator creates an animator with every glyph at its hidden pose.
func NewTextAnimator(plan TextPlan) *TextAnimator {
	a := &TextAnimator{plan: plan, tweens: make([]*PoseTween, len(plan.Glyphs))}
	a.reset()
	return a
}

func (a *TextAnimator) reset() {
	for i, g := range a.plan.Glyphs {
		if g.HasSpring {
			a.tweens[i] = NewSpringPoseTween(g.Hidden, IdentityPose, g.Delay, g.Duration, g.Spring)
		} else {
			a.tweens[i] = NewPoseTween(g.Hidden, IdentityPose, g.Delay, g.Duration, g.Easing.Curve())
		}
	}
}

// Plan returns the plan being played.
func (a *TextAnimator) Plan() TextPlan { return a.plan }

// Start begins playback. Starting twice has no effect.
func (a *TextAnimator) Start() {
	a.started = true
}

// Started reports whether Start was called.
func (a *TextAnimator) Started() bool { return a.started }

// Finish jumps every glyph to the revealed pose.
func (a *TextAnimator) Finish() {
	a.started = true
	for _, t := range a.tweens {
		t.Finish()
	}
}

// Update advances every glyph by dt seconds.
func (a *TextAnimator) Update(dt float32) {
	if !a.started {
		return
	}
	for _, t := range a.tweens {
		t.Update(dt)
	}
}

// Done reports whether every glyph has settled.
func (a *TextAnimator) Done() bool {
	for _, t := range a.tweens {
		if !t.Done {
			return false
		}
	}
	return a.started
}

// Pose returns the current pose of glyph i.
func (a *TextAnimator) Pose(i int) Pose {
	return a.tweens[i].Value
}

// Draw renders the glyphs left to right starting at (x, y), applying each
// glyph's offset, scale and opacity.
func (a *TextAnimator) Draw(dst *ebiten.Image, face text.Face, x, y float64, clr Color) {
	pen := x
	for i, g := range a.plan.Glyphs {
		p := a.tweens[i].Value
		adv := text.Advance(g.Text, face)
		if p.Opacity > 0 {
			a.op.GeoM.Reset()
			a.op.GeoM.Translate(-adv/2, 0)
			a.op.GeoM.Scale(p.Scale, p.Scale)
			a.op.GeoM.Translate(pen+adv/2+p.X, y+p.Y)
			a.op.ColorScale.Reset()
			a.op.ColorScale.ScaleWithColor(clr.NRGBA())
			a.op.ColorScale.ScaleAlpha(float32(clamp01(p.Opacity)))
			text.Draw(dst, g.Text, face, &a.op)
		}
		pen += adv
	}
}
