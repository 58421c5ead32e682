package ambience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exported by a Stage. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// FramesTicked counts frame-loop updates.
	FramesTicked prometheus.Counter
	// GateFlips counts animation-gate evaluations that changed value.
	GateFlips prometheus.Counter
	// Transitions counts state-machine transitions by target state.
	Transitions *prometheus.CounterVec
	// ShaderFallbacks counts disabled shader handles by reason.
	ShaderFallbacks *prometheus.CounterVec
	// ProfileRecomputes counts device-profile replacements.
	ProfileRecomputes prometheus.Counter
	// SurfacesMounted tracks live GPU programs.
	SurfacesMounted prometheus.Gauge
}

// NewMetrics registers the collectors with reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FramesTicked: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "frames_ticked_total",
			Help:      "Frame-loop updates processed",
		}),
		GateFlips: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "gate_flips_total",
			Help:      "Animation gate evaluations that changed value",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "transitions_total",
			Help:      "Reveal state transitions by target state",
		}, []string{"state"}),
		ShaderFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "shader_fallbacks_total",
			Help:      "Shader surfaces rendered with the static gradient, by reason",
		}, []string{"reason"}),
		ProfileRecomputes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "profile_recomputes_total",
			Help:      "Device profile replacements",
		}),
		SurfacesMounted: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "ambience",
			Name:      "surfaces_mounted",
			Help:      "Shader surfaces holding a live GPU program",
		}),
	}
}

func (m *Metrics) frame() {
	if m != nil {
		m.FramesTicked.Inc()
	}
}

func (m *Metrics) gateFlip() {
	if m != nil {
		m.GateFlips.Inc()
	}
}

func (m *Metrics) transition(to TransitionState) {
	if m != nil {
		m.Transitions.WithLabelValues(to.String()).Inc()
	}
}

func (m *Metrics) shaderFallback(reason string) {
	if m != nil {
		m.ShaderFallbacks.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) profileRecompute() {
	if m != nil {
		m.ProfileRecomputes.Inc()
	}
}

func (m *Metrics) surfaceMounted() {
	if m != nil {
		m.SurfacesMounted.Inc()
	}
}

func (m *Metrics) surfaceReleased() {
	if m != nil {
		m.SurfacesMounted.Dec()
	}
}
