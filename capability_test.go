package ambience

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		signals PlatformSignals
		want    DeviceProfile
	}{
		{"capable desktop", richSignals, DeviceProfile{CanHover: true}},
		{"two cores", withSignals(func(s *PlatformSignals) { s.LogicalCores = 2 }),
			DeviceProfile{CanHover: true, IsLowEnd: true}},
		{"unknown cores", withSignals(func(s *PlatformSignals) { s.LogicalCores = 0 }),
			DeviceProfile{CanHover: true, IsLowEnd: true}},
		{"two gigabytes", withSignals(func(s *PlatformSignals) { s.DeviceMemoryGB = 2 }),
			DeviceProfile{CanHover: true, IsLowEnd: true}},
		{"unknown memory", withSignals(func(s *PlatformSignals) { s.DeviceMemoryGB = 0 }),
			DeviceProfile{CanHover: true, IsLowEnd: true}},
		{"unknown touch", withSignals(func(s *PlatformSignals) { s.Touch = TriUnknown }),
			DeviceProfile{CanHover: true, HasTouch: true}},
		{"unknown hover", withSignals(func(s *PlatformSignals) { s.Hover = TriUnknown }),
			DeviceProfile{}},
		{"reduced motion", withSignals(func(s *PlatformSignals) { s.ReducedMotion = TriTrue }),
			DeviceProfile{CanHover: true, PrefersReducedMotion: true}},
		{"unknown reduced motion", withSignals(func(s *PlatformSignals) { s.ReducedMotion = TriUnknown }),
			DeviceProfile{CanHover: true, PrefersReducedMotion: true}},
		{"nothing reported", PlatformSignals{}, DeviceProfile{HasTouch: true, IsLowEnd: true, PrefersReducedMotion: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.signals); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeviceProfileAllows(t *testing.T) {
	tests := []struct {
		name                  string
		p                     DeviceProfile
		motion, rich, pointer bool
	}{
		{"capable", DeviceProfile{CanHover: true}, true, true, true},
		{"no hover", DeviceProfile{}, true, true, false},
		{"touch", DeviceProfile{CanHover: true, HasTouch: true}, true, false, false},
		{"low end", DeviceProfile{CanHover: true, IsLowEnd: true}, true, false, false},
		{"reduced", DeviceProfile{CanHover: true, PrefersReducedMotion: true}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.AllowsMotion(); got != tt.motion {
				t.Errorf("AllowsMotion = %v, want %v", got, tt.motion)
			}
			if got := tt.p.AllowsRichVisuals(); got != tt.rich {
				t.Errorf("AllowsRichVisuals = %v, want %v", got, tt.rich)
			}
			if got := tt.p.AllowsCursor(); got != tt.pointer {
				t.Errorf("AllowsCursor = %v, want %v", got, tt.pointer)
			}
		})
	}
}

func TestCapabilityProbeRecompute(t *testing.T) {
	p := NewCapabilityProbe(richSignals)
	var changes []ProfileChange
	h := p.Subscribe(func(c ProfileChange) { changes = append(changes, c) })

	if p.Recompute(richSignals) {
		t.Error("Recompute with identical signals reported a change")
	}
	if len(changes) != 0 {
		t.Fatalf("listener fired %d times for an unchanged profile", len(changes))
	}

	low := withSignals(func(s *PlatformSignals) { s.LogicalCores = 1 })
	if !p.Recompute(low) {
		t.Fatal("Recompute to low-end reported no change")
	}
	if len(changes) != 1 {
		t.Fatalf("listener fired %d times, want 1", len(changes))
	}
	c := changes[0]
	if c.Previous.IsLowEnd || !c.Current.IsLowEnd {
		t.Errorf("change = %+v, want rich -> low-end", c)
	}
	if !c.Downgraded() {
		t.Error("rich -> low-end should be a downgrade")
	}
	if !p.Current().IsLowEnd {
		t.Error("Current not replaced")
	}
	if p.Signals() != low {
		t.Error("Signals not recorded")
	}

	h.Remove()
	p.Recompute(richSignals)
	if len(changes) != 1 {
		t.Error("removed listener still fired")
	}
	if p.listeners.len() != 0 {
		t.Errorf("listeners = %d after Remove, want 0", p.listeners.len())
	}
}

func TestProfileChangeDowngraded(t *testing.T) {
	rich := DeviceProfile{CanHover: true}
	tests := []struct {
		name     string
		from, to DeviceProfile
		want     bool
	}{
		{"same", rich, rich, false},
		{"upgrade", DeviceProfile{IsLowEnd: true}, rich, false},
		{"reduced motion", rich, DeviceProfile{CanHover: true, PrefersReducedMotion: true}, true},
		{"lost hover", rich, DeviceProfile{}, true},
		{"touch appeared", rich, DeviceProfile{CanHover: true, HasTouch: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ProfileChange{Previous: tt.from, Current: tt.to}
			if got := c.Downgraded(); got != tt.want {
				t.Errorf("Downgraded = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyUnreadableReducedMotionDisablesMotion(t *testing.T) {
	p := Classify(withSignals(func(s *PlatformSignals) { s.ReducedMotion = TriUnknown }))
	if p.AllowsMotion() || p.AllowsRichVisuals() {
		t.Errorf("profile %v allows motion with an unreadable reduced-motion signal", p)
	}
}
