package ambience

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is one action of a stage script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Label   string  `yaml:"label,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	FromX   float64 `yaml:"from_x,omitempty"`
	FromY   float64 `yaml:"from_y,omitempty"`
	ToX     float64 `yaml:"to_x,omitempty"`
	ToY     float64 `yaml:"to_y,omitempty"`
	Width   int     `yaml:"width,omitempty"`
	Height  int     `yaml:"height,omitempty"`
	Visible bool    `yaml:"visible,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"screenshot": true, "pointer": true, "path": true, "leave": true,
	"visibility": true, "resize": true, "scroll": true, "wait": true,
}

// ScriptRunner replays injected platform events and screenshots across
// frames for automated visual checks. Attach with Stage.SetScript.
//
// A script is YAML:
//
//	steps:
//	  - action: scroll
//	    y: 600
//	  - action: wait
//	    frames: 90
//	  - action: screenshot
//	    label: after-reveal
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML stage script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches a runner. It advances at the start of every Update.
func (s *Stage) SetScript(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

func (r *ScriptRunner) step(s *Stage) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "pointer":
		s.InjectPointer(st.X, st.Y)
	case "path":
		s.InjectPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "leave":
		s.InjectPointerLeave()
	case "visibility":
		s.InjectVisibility(st.Visible)
	case "resize":
		s.InjectResize(st.Width, st.Height)
	case "scroll":
		s.InjectScroll(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
