package ambience

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// richSignals describes a capable desktop: every gate allows motion.
var richSignals = PlatformSignals{
	LogicalCores:   8,
	DeviceMemoryGB: 8,
	Hover:          TriTrue,
	Touch:          TriFalse,
	ReducedMotion:  TriFalse,
}

func withSignals(f func(s *PlatformSignals)) PlatformSignals {
	s := richSignals
	f(&s)
	return s
}

// fakeProgram records draws instead of touching the GPU.
type fakeProgram struct {
	layer    SurfaceLayer
	draws    int
	released bool
	uniforms map[string]any
}

func (p *fakeProgram) draw(dst *ebiten.Image, x, y float64, w, h int, uniforms map[string]any) {
	p.draws++
	p.uniforms = uniforms
}

func (p *fakeProgram) release() { p.released = true }

// fakeCompiler returns a compile func that appends every program it builds
// to *out. fail makes every compile return ErrShaderUnavailable.
func fakeCompiler(out *[]*fakeProgram, fail bool) func(SurfaceLayer) (program, error) {
	return func(l SurfaceLayer) (program, error) {
		if fail {
			return nil, errors.Join(ErrShaderUnavailable, errors.New("no adapter"))
		}
		p := &fakeProgram{layer: l}
		if out != nil {
			*out = append(*out, p)
		}
		return p, nil
	}
}

// fakeAudio counts contract calls.
type fakeAudio struct {
	enabled  bool
	enables  int
	disables int
	disposed bool
	err      error
}

func (a *fakeAudio) Enable() error {
	a.enables++
	if a.err != nil {
		return a.err
	}
	a.enabled = true
	return nil
}

func (a *fakeAudio) Disable() {
	a.disables++
	a.enabled = false
}

func (a *fakeAudio) IsEnabled() bool { return a.enabled }

func (a *fakeAudio) Dispose() {
	a.disposed = true
	a.enabled = false
}

// fakeNode is a TagNode for classification tests.
type fakeNode struct {
	tag    string
	role   string
	parent *fakeNode
}

func (n *fakeNode) Tag() string { return n.tag }

func (n *fakeNode) Attr(name string) string {
	if name == "role" {
		return n.role
	}
	return ""
}

func (n *fakeNode) Parent() TagNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

const frameDT = float32(1.0 / 60)

// newTestStage builds a stage on a StaticPlatform with a fake GPU and lays it
// out at 800x600.
func newTestStage(t *testing.T, sig PlatformSignals) (*Stage, *StaticPlatform, *[]*fakeProgram) {
	t.Helper()
	p := NewStaticPlatform(sig)
	s, err := NewStage(DefaultConfig(), p)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	progs := &[]*fakeProgram{}
	s.renderer.compile = fakeCompiler(progs, false)
	s.Layout(800, 600)
	t.Cleanup(s.Close)
	return s, p, progs
}

func updateFrames(t *testing.T, s *Stage, n int) {
	t.Helper()
	for range n {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
}
