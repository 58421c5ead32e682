package ambience

import "testing"

func TestEvaluate(t *testing.T) {
	rich := DeviceProfile{CanHover: true}
	reduced := DeviceProfile{PrefersReducedMotion: true}
	lowEnd := DeviceProfile{IsLowEnd: true}
	tests := []struct {
		name            string
		profile         DeviceProfile
		visible, inView bool
		want            bool
	}{
		{"all favorable", rich, true, true, true},
		{"reduced motion", reduced, true, true, false},
		{"hidden page", rich, false, true, false},
		{"out of view", rich, true, false, false},
		{"nothing favorable", reduced, false, false, false},
		{"low end still moves", lowEnd, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.profile, tt.visible, tt.inView); got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
			in := GateInputs{Profile: tt.profile, Visible: tt.visible, InView: tt.inView}
			if got := in.Open(); got != tt.want {
				t.Errorf("GateInputs.Open = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateSimpleIgnoresMotionPreference(t *testing.T) {
	if !EvaluateSimple(true, true) {
		t.Error("visible and in view should reveal")
	}
	if EvaluateSimple(false, true) || EvaluateSimple(true, false) {
		t.Error("hidden page or out of view should not reveal")
	}
}
