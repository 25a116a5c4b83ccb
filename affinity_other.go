//go:build !linux

// FILE: lixenwraith/tradelog/affinity_other.go
package tradelog

import (
	"fmt"
	"runtime"
)

// pinCurrentThread is unsupported outside Linux; the worker runs unpinned
func pinCurrentThread(preferred int) (int, error) {
	return -1, fmt.Errorf("core pinning not supported on %s", runtime.GOOS)
}
