// FILE: lixenwraith/tradelog/state.go
package tradelog

import (
	"fmt"
	"sync/atomic"
	"time"
)

// WorkerState is the lifecycle phase of the sink worker
type WorkerState int32

const (
	// WorkerStarting covers thread locking and core pinning
	WorkerStarting WorkerState = iota
	// WorkerRunning receives and invokes units
	WorkerRunning
	// WorkerDraining invokes the remaining units after the producer closed
	WorkerDraining
	// WorkerTerminated is final; the sink has been synced and released
	WorkerTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerStarting:
		return "starting"
	case WorkerRunning:
		return "running"
	case WorkerDraining:
		return "draining"
	case WorkerTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Stats is a point-in-time snapshot of logger counters
type Stats struct {
	Submitted    uint64        // Units accepted by the channel
	Processed    uint64        // Units invoked by the worker, including failed ones
	SinkErrors   uint64        // Sink writes that returned an error
	RenderFaults uint64        // Units whose rendering panicked
	Dropped      uint64        // Log calls rejected because the channel was full
	Heartbeats   uint64        // Heartbeat records written
	PinnedCore   int           // Core the worker is pinned to, -1 if unpinned
	State        WorkerState   // Worker phase at snapshot time
	Uptime       time.Duration // Time since the logger was created
}

// State encapsulates the runtime state shared between producer and worker.
// Producer-only counters are written by the owning goroutine and read atomically.
type State struct {
	WorkerState    atomic.Int32
	PinnedCore     atomic.Int64
	ProducerClosed atomic.Bool

	Submitted    atomic.Uint64
	Processed    atomic.Uint64
	SinkErrors   atomic.Uint64
	RenderFaults atomic.Uint64
	Dropped      atomic.Uint64

	// Heartbeat statistics
	HeartbeatSequence atomic.Uint64
	LoggerStartTime   atomic.Value // stores time.Time for uptime calculation
}

// snapshot copies all counters into a Stats value
func (s *State) snapshot() Stats {
	var uptime time.Duration
	if start, ok := s.LoggerStartTime.Load().(time.Time); ok && !start.IsZero() {
		uptime = time.Since(start)
	}
	return Stats{
		Submitted:    s.Submitted.Load(),
		Processed:    s.Processed.Load(),
		SinkErrors:   s.SinkErrors.Load(),
		RenderFaults: s.RenderFaults.Load(),
		Dropped:      s.Dropped.Load(),
		Heartbeats:   s.HeartbeatSequence.Load(),
		PinnedCore:   int(s.PinnedCore.Load()),
		State:        WorkerState(s.WorkerState.Load()),
		Uptime:       uptime,
	}
}
