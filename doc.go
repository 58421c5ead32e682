// Package ambience is a capability-gated ambient motion and generative
// background subsystem for [Ebitengine].
//
// Ambience decides, once per frame and for every mounted element, whether
// motion is allowed, then drives entrance reveals, a procedural shader
// background, hover distortion overlays and a spring-smoothed cursor
// follower from that decision. Every richness feature degrades to a static
// equivalent on reduced-motion or low-end devices, when the page is hidden,
// or when the GPU program cannot be built.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// drives a [Stage] for you:
//
//	cfg := ambience.DefaultConfig()
//	stage, err := ambience.NewStage(cfg, ambience.NewPlatform(cfg))
//	if err != nil {
//		log.Fatal(err)
//	}
//	stage.Mount(ambience.StaticBounds{X: 40, Y: 900, Width: 320, Height: 180},
//		ambience.ElementOptions{Name: "hero", Variant: ambience.VariantScaleReveal})
//	ambience.Run(stage, ambience.RunConfig{Title: "Ambience", Width: 960, Height: 640})
//
// [Stage] implements [ebiten.Game], so it can also be embedded in a game
// loop you own.
//
// # Gating
//
// An element animates only while [Evaluate] holds: the device profile
// allows motion, the page is visible, and the element is in the viewport.
// The inputs come from a [CapabilityProbe], a [VisibilitySignal] and a
// [ViewportObserver], all read once at the top of [Stage.Update].
//
// # Reveals
//
// Each element owns a [TransitionMachine] that moves through Hidden,
// Entering, Visible and Exiting using a [MotionToken] looked up by
// [Variant]. Reveals are one-shot unless [ElementOptions.Reversible] is set.
// On a capability downgrade in-flight reveals collapse to a short fade.
// Text can be revealed per grapheme with [TextReveal] and [TextAnimator].
//
// # Surfaces
//
// [ShaderRenderer] mounts Kage programs for the background and per-element
// distortion overlays. A surface pauses while the page is hidden and its
// clock freezes, so resuming continues from the same frame. When disabled,
// the background draws the deterministic gradient from [FallbackGradient].
//
// # Ambient stack
//
// Logging goes through [zap] ([SetLogger]); counters are exported with
// Prometheus via [NewMetrics]; configuration is YAML ([LoadConfig]).
// [SetDebugMode] turns programmer errors into panics and logs per-frame
// timings.
//
// [Ebitengine]: https://ebitengine.org
// [zap]: https://pkg.go.dev/go.uber.org/zap
package ambience
