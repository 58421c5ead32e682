//go:build !linux && !darwin

package ambience

import "errors"

// systemMemoryGB has no probe on this host. Set Config.DeviceMemoryGB to
// avoid the low-end classification an unknown reading implies.
func systemMemoryGB() (float64, error) {
	return 0, errors.New("memory probe not supported on this platform")
}
