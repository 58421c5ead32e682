package ambience

import (
	"fmt"

	"go.uber.org/zap"
)

// Low-end thresholds: a device with at most this many logical cores or at
// most this much reported memory is treated as low-end.
const (
	lowEndMaxCores    = 2
	lowEndMaxMemoryGB = 2
)

// PlatformSignals is a raw, possibly incomplete reading of the host platform.
// Zero values mean "not reported".
type PlatformSignals struct {
	// LogicalCores is the hardware concurrency hint. 0 = unknown.
	LogicalCores int
	// DeviceMemoryGB is the reported device memory in gigabytes. 0 = unknown.
	DeviceMemoryGB float64
	// Hover reports whether the primary pointing device can hover.
	Hover Tri
	// Touch reports whether touch input is present.
	Touch Tri
	// ReducedMotion is the user/system accessibility preference.
	ReducedMotion Tri
}

// DeviceProfile is the immutable capability classification of the running
// device. It is always replaced as a whole; never modify a profile in place.
type DeviceProfile struct {
	CanHover             bool
	HasTouch             bool
	IsLowEnd             bool
	PrefersReducedMotion bool
}

// AllowsMotion reports whether animated transitions may run at all.
func (p DeviceProfile) AllowsMotion() bool {
	return !p.PrefersReducedMotion
}

// AllowsRichVisuals reports whether GPU shader rendering and per-character
// stagger text may be instantiated.
func (p DeviceProfile) AllowsRichVisuals() bool {
	return !p.HasTouch && !p.IsLowEnd && !p.PrefersReducedMotion
}

// AllowsCursor reports whether the pointer-follow cursor may be shown. It
// additionally needs a hover-capable pointing device.
func (p DeviceProfile) AllowsCursor() bool {
	return p.AllowsRichVisuals() && p.CanHover
}

func (p DeviceProfile) String() string {
	return fmt.Sprintf("hover=%t touch=%t lowEnd=%t reducedMotion=%t",
		p.CanHover, p.HasTouch, p.IsLowEnd, p.PrefersReducedMotion)
}

// Classify derives a DeviceProfile from platform signals. It is pure and cheap
// enough to run on every media-query change. Any unreadable signal resolves
// to the branch with less motion.
func Classify(s PlatformSignals) DeviceProfile {
	lowEnd := s.LogicalCores <= lowEndMaxCores ||
		s.DeviceMemoryGB <= lowEndMaxMemoryGB
	return DeviceProfile{
		CanHover:             s.Hover == TriTrue,
		HasTouch:             s.Touch != TriFalse,
		IsLowEnd:             lowEnd,
		PrefersReducedMotion: s.ReducedMotion != TriFalse,
	}
}

// ProfileChange is delivered to probe subscribers when the classification
// changes.
type ProfileChange struct {
	Previous DeviceProfile
	Current  DeviceProfile
}

// Downgraded reports whether the new profile permits less than the old one.
// A downgrade collapses in-flight animations immediately.
func (c ProfileChange) Downgraded() bool {
	return (c.Previous.AllowsMotion() && !c.Current.AllowsMotion()) ||
		(c.Previous.AllowsRichVisuals() && !c.Current.AllowsRichVisuals()) ||
		(c.Previous.AllowsCursor() && !c.Current.AllowsCursor())
}

// CapabilityProbe owns the current DeviceProfile. It is the only writer of
// the profile; everything else reads snapshots via Current.
type CapabilityProbe struct {
	current   DeviceProfile
	signals   PlatformSignals
	listeners listenerList[ProfileChange]
}

// NewCapabilityProbe classifies the initial signals.
func NewCapabilityProbe(s PlatformSignals) *CapabilityProbe {
	return &CapabilityProbe{current: Classify(s), signals: s}
}

// Current returns the current profile snapshot.
func (p *CapabilityProbe) Current() DeviceProfile {
	return p.current
}

// Signals returns the signals the current profile was derived from.
func (p *CapabilityProbe) Signals() PlatformSignals {
	return p.signals
}

// Recompute reclassifies from fresh signals and replaces the profile
// wholesale. Subscribers are notified only when the profile changed.
// Reports whether it changed.
func (p *CapabilityProbe) Recompute(s PlatformSignals) bool {
	p.signals = s
	next := Classify(s)
	if next == p.current {
		return false
	}
	change := ProfileChange{Previous: p.current, Current: next}
	p.current = next
	Logger().Info("device profile recomputed",
		zap.Stringer("previous", change.Previous),
		zap.Stringer("current", next))
	p.listeners.emit(change)
	return true
}

// Subscribe registers fn for profile changes.
func (p *CapabilityProbe) Subscribe(fn func(ProfileChange)) CallbackHandle {
	id := p.listeners.add(fn)
	return handleFor(&p.listeners, id, nil)
}
