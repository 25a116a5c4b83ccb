//go:build linux

// FILE: lixenwraith/tradelog/affinity_linux_test.go
package tradelog

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func cpuSet(cores ...int) func(int) bool {
	set := make(map[int]bool, len(cores))
	for _, c := range cores {
		set[c] = true
	}
	return func(cpu int) bool { return set[cpu] }
}

func TestCandidateCores(t *testing.T) {
	tests := []struct {
		name      string
		allowed   []int
		preferred int
		expected  []int
	}{
		{"last core first", []int{0, 1, 2, 3}, -1, []int{3, 2, 1, 0}},
		{"sparse mask", []int{1, 5, 9}, -1, []int{9, 5, 1}},
		{"preferred core first", []int{0, 1, 2, 3}, 1, []int{1, 0, 3, 2}},
		{"preferred not allowed falls to next highest", []int{0, 2, 6}, 4, []int{2, 0, 6}},
		{"preferred beyond range", []int{0, 1}, 4096, []int{1, 0}},
		{"empty mask", nil, -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, candidateCores(cpuSet(tt.allowed...), tt.preferred))
		})
	}
}

func TestPinCurrentThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var original unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &original))
	// Restore the mask so the thread returns to the pool unpinned
	defer func() { _ = unix.SchedSetaffinity(0, &original) }()

	core, err := pinCurrentThread(-1)
	if err != nil {
		t.Skipf("pinning not permitted here: %v", err)
	}

	assert.True(t, original.IsSet(core))

	var current unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &current))
	assert.Equal(t, 1, current.Count())
	assert.True(t, current.IsSet(core))

	// Highest allowed core is chosen
	for cpu := core + 1; cpu < maxCPUs; cpu++ {
		assert.False(t, original.IsSet(cpu))
	}
}
