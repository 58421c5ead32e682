package ambience

import (
	"time"

	"go.uber.org/zap"
)

// globalDebug is the package-wide debug flag. Stage.SetDebugMode writes it
// too; with several stages the last call wins.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, programmer
// errors panic (unknown motion variants, use of unmounted elements and
// surfaces) and per-frame timing stats are logged at Debug level.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is on.
func DebugMode() bool {
	return globalDebug
}

// debugStats holds per-frame timings. Only populated in debug mode.
type debugStats struct {
	signalTime   time.Duration
	observeTime  time.Duration
	machineTime  time.Duration
	shaderTime   time.Duration
	elementCount int
	runningCount int
	gateFlips    int
}

func (s *Stage) debugLog(stats debugStats) {
	if !globalDebug {
		return
	}
	total := stats.signalTime + stats.observeTime + stats.machineTime + stats.shaderTime
	Logger().Debug("frame",
		zap.Duration("signals", stats.signalTime),
		zap.Duration("observe", stats.observeTime),
		zap.Duration("machines", stats.machineTime),
		zap.Duration("shaders", stats.shaderTime),
		zap.Duration("total", total),
		zap.Int("elements", stats.elementCount),
		zap.Int("running_surfaces", stats.runningCount),
		zap.Int("gate_flips", stats.gateFlips))
}

// debugMaxElements is the element count above which a warning is logged.
const debugMaxElements = 1000

func debugCheckElementCount(n int) {
	if n > debugMaxElements {
		Logger().Warn("many mounted elements",
			zap.Int("count", n), zap.Int("threshold", debugMaxElements))
	}
}
