//go:build !linux && !darwin

package hardware

import (
	"fmt"
	"runtime"
)

func openTermios(path string, _ LineConfig) (Device, error) {
	return nil, fmt.Errorf("open %s: termios backend is not supported on %s", path, runtime.GOOS)
}
