//go:build linux

// FILE: lixenwraith/tradelog/affinity_linux.go
package tradelog

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// maxCPUs matches CPU_SETSIZE
const maxCPUs = 1024

// pinCurrentThread pins the calling OS thread to a single core.
// The caller must hold runtime.LockOSThread.
func pinCurrentThread(preferred int) (int, error) {
	var allowed unix.CPUSet
	if err := unix.SchedGetaffinity(0, &allowed); err != nil {
		return -1, fmt.Errorf("sched_getaffinity: %w", err)
	}

	candidates := candidateCores(allowed.IsSet, preferred)
	if len(candidates) == 0 {
		return -1, errors.New("no core available in the thread affinity mask")
	}

	var lastErr error
	for _, core := range candidates {
		var set unix.CPUSet
		set.Zero()
		set.Set(core)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			lastErr = err
			continue
		}
		return core, nil
	}
	return -1, fmt.Errorf("sched_setaffinity failed for %d candidate cores: %w", len(candidates), lastErr)
}

// candidateCores lists allowed cores in pinning order: the preferred core and
// the ones below it highest first, then the ones above it highest first.
// preferred < 0 selects the last core.
func candidateCores(isSet func(int) bool, preferred int) []int {
	if preferred < 0 || preferred >= maxCPUs {
		preferred = maxCPUs - 1
	}

	var cores []int
	for cpu := preferred; cpu >= 0; cpu-- {
		if isSet(cpu) {
			cores = append(cores, cpu)
		}
	}
	for cpu := maxCPUs - 1; cpu > preferred; cpu-- {
		if isSet(cpu) {
			cores = append(cores, cpu)
		}
	}
	return cores
}
