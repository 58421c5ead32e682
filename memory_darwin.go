package ambience

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func systemMemoryGB() (float64, error) {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	return float64(n) / (1 << 30), nil
}
