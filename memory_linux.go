package ambience

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func systemMemoryGB() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return float64(uint64(info.Totalram)*uint64(info.Unit)) / (1 << 30), nil
}
