package ambience

import "errors"

var (
	// ErrShaderUnavailable is returned when a GPU program cannot be acquired.
	// Callers never see it as a failure of Mount; it is logged and the handle
	// renders the static gradient instead.
	ErrShaderUnavailable = errors.New("ambience: shader unavailable")

	// ErrUnknownVariant reports a motion-token name outside the registry.
	ErrUnknownVariant = errors.New("ambience: unknown motion variant")

	// ErrUnmounted is returned by operations on an element or surface that has
	// already been torn down.
	ErrUnmounted = errors.New("ambience: unmounted")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("ambience: invalid config")
)
