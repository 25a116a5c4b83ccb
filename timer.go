// FILE: lixenwraith/tradelog/timer.go
package tradelog

import (
	"runtime"
	"time"
)

// idleBackoff yields the worker thread while the channel is empty: a bounded
// number of cooperative yields, then sleeps doubling up to maxSleep.
type idleBackoff struct {
	spinLimit int64
	maxSleep  time.Duration
	spins     int64
	sleep     time.Duration
}

func newIdleBackoff(cfg *Config) *idleBackoff {
	maxSleep := time.Duration(cfg.IdleSleepUs) * time.Microsecond
	if maxSleep < minIdleSleep {
		maxSleep = minIdleSleep
	}
	return &idleBackoff{
		spinLimit: cfg.SpinCount,
		maxSleep:  maxSleep,
		sleep:     minIdleSleep,
	}
}

// wait performs one backoff step
func (b *idleBackoff) wait() {
	if b.spins < b.spinLimit {
		b.spins++
		runtime.Gosched()
		return
	}
	time.Sleep(b.sleep)
	if b.sleep < b.maxSleep {
		b.sleep *= 2
		if b.sleep > b.maxSleep {
			b.sleep = b.maxSleep
		}
	}
}

// reset returns to the spin phase after a unit was received
func (b *idleBackoff) reset() {
	b.spins = 0
	b.sleep = minIdleSleep
}

// idle reports whether the backoff has moved past spinning
func (b *idleBackoff) idle() bool {
	return b.spins >= b.spinLimit
}

// intervalTimer is a polled deadline; the worker loop has no select to drive a ticker
type intervalTimer struct {
	interval time.Duration
	next     time.Time
}

// newIntervalTimer returns nil for a non-positive interval, meaning disabled
func newIntervalTimer(interval time.Duration, now time.Time) *intervalTimer {
	if interval <= 0 {
		return nil
	}
	return &intervalTimer{interval: interval, next: now.Add(interval)}
}

// due reports whether the deadline has passed and schedules the next one
func (t *intervalTimer) due(now time.Time) bool {
	if t == nil || now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)
	return true
}

// TimerSet holds the worker's periodic deadlines
type TimerSet struct {
	flush     *intervalTimer
	heartbeat *intervalTimer
}

// setupProcessingTimers creates the deadlines configured for the worker
func setupProcessingTimers(cfg *Config, now time.Time) *TimerSet {
	flushInterval := cfg.FlushIntervalMs
	if flushInterval <= 0 {
		flushInterval = DefaultConfig().FlushIntervalMs
	}

	return &TimerSet{
		flush:     newIntervalTimer(time.Duration(flushInterval)*time.Millisecond, now),
		heartbeat: newIntervalTimer(time.Duration(cfg.HeartbeatIntervalMs)*time.Millisecond, now),
	}
}
