package ambience

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. Platform callbacks in the wasm build may
// fire outside the frame loop, so access is atomic.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by ambience. By default nothing is
// logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - Debug: per-frame diagnostics (only emitted in debug mode)
//   - Info: lifecycle events (surface mounted, profile recomputed)
//   - Warn: degradations (GPU acquisition failure, unknown variant, audio init)
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l.Named("ambience"))
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
