// FILE: lixenwraith/tradelog/logger.go
package tradelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/tradelog/msg"
	"github.com/lixenwraith/tradelog/spsc"
)

var (
	// ErrChannelClosed is returned by Log after Close or after the worker has terminated
	ErrChannelClosed = errors.New("tradelog: channel closed")
	// ErrQueueFull is returned by Log when the channel has no free slot
	ErrQueueFull = errors.New("tradelog: queue full")
	// ErrNilMessage is returned by Log for a nil message
	ErrNilMessage = errors.New("tradelog: nil message")
)

// SendError reports a rejected message and hands it back to the caller
type SendError struct {
	Message msg.Formattable
	Err     error
}

func (e *SendError) Error() string { return e.Err.Error() }
func (e *SendError) Unwrap() error { return e.Err }

// Logger is the producer handle of one logging pipeline. Each Logger owns a
// channel and a sink worker pinned to its own OS thread.
//
// A Logger is not safe for concurrent use: exactly one goroutine may call
// Log and its helpers. Give each producer its own Logger.
type Logger struct {
	cfg      *Config
	state    State
	producer *spsc.Producer[*WorkUnit]
	sink     io.Writer
	done     chan struct{}
}

// NewLogger creates a Logger with default settings and starts its worker
func NewLogger() (*Logger, error) {
	return New(DefaultConfig())
}

// New creates a Logger from cfg and starts its worker
func New(cfg *Config) (*Logger, error) {
	return NewWithSink(cfg, nil)
}

// NewWithSink creates a Logger that writes every record to sink instead of
// the console and file outputs described by cfg. The sink is synced when it
// implements Sync() error, and is never closed by the logger.
// A nil sink falls back to the configured outputs.
func NewWithSink(cfg *Config, sink io.Writer) (*Logger, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}
	cfg = cfg.Clone()

	producer, consumer, err := spsc.New[*WorkUnit](int(cfg.BufferSize))
	if err != nil {
		return nil, fmtErrorf("failed to create channel: %w", err)
	}

	out, err := openOutput(cfg, sink)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		cfg:      cfg,
		producer: producer,
		sink:     out.w,
		done:     make(chan struct{}),
	}
	l.state.PinnedCore.Store(-1)
	l.state.LoggerStartTime.Store(time.Now())

	go newWorker(l, consumer, out).run()

	return l, nil
}

// Log hands m to the worker and returns without rendering or I/O.
// A rejected message comes back in a *SendError that unwraps to
// ErrChannelClosed or ErrQueueFull.
func (l *Logger) Log(m msg.Formattable) error {
	if m == nil {
		return ErrNilMessage
	}

	if err := l.producer.Send(NewWorkUnit(m, l.sink)); err != nil {
		return l.handleFailedSend(m, err)
	}
	l.state.Submitted.Add(1)
	return nil
}

// handleFailedSend maps a channel error to the producer-facing one
func (l *Logger) handleFailedSend(m msg.Formattable, err error) error {
	if errors.Is(err, spsc.ErrFull) {
		l.state.Dropped.Add(1)
		return &SendError{Message: m, Err: ErrQueueFull}
	}
	return &SendError{Message: m, Err: ErrChannelClosed}
}

// Close closes the producer side. It does not block: the worker invokes
// every unit already queued and then terminates on its own. Safe to call
// multiple times.
func (l *Logger) Close() {
	if l.state.ProducerClosed.Swap(true) {
		return
	}
	l.producer.Close()
}

// Shutdown closes the producer side and waits for the worker to terminate.
// If no timeout is provided, uses shutdown_timeout_ms.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	l.Close()

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = time.Duration(l.cfg.ShutdownTimeoutMs) * time.Millisecond
	}

	timer := time.NewTimer(effectiveTimeout)
	defer timer.Stop()

	select {
	case <-l.done:
		return nil
	case <-timer.C:
		return fmtErrorf("worker did not terminate within timeout (%v), %d units pending",
			effectiveTimeout, l.producer.Len())
	}
}

// Flush waits until every unit accepted so far has been invoked
func (l *Logger) Flush(timeout time.Duration) error {
	target := l.state.Submitted.Load()
	deadline := time.Now().Add(timeout)
	pollInterval := minIdleSleep

	for l.state.Processed.Load() < target {
		select {
		case <-l.done:
			if l.state.Processed.Load() < target {
				return fmtErrorf("worker terminated with %d units not invoked", target-l.state.Processed.Load())
			}
			return nil
		default:
		}

		if !time.Now().Before(deadline) {
			return fmtErrorf("timeout waiting for flush (%v)", timeout)
		}
		time.Sleep(pollInterval)
		if pollInterval < minWaitTime {
			pollInterval *= 2
		}
	}
	return nil
}

// Done is closed once the worker has terminated
func (l *Logger) Done() <-chan struct{} {
	return l.done
}

// State returns the current worker phase
func (l *Logger) State() WorkerState {
	return WorkerState(l.state.WorkerState.Load())
}

// Stats returns a snapshot of the logger counters
func (l *Logger) Stats() Stats {
	return l.state.snapshot()
}

// GetConfig returns a copy of the configuration the logger was built with
func (l *Logger) GetConfig() *Config {
	return l.cfg.Clone()
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled
func (l *Logger) internalLog(format string, args ...any) {
	if !l.cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "tradelog: " prefix
	if !strings.HasPrefix(format, "tradelog: ") {
		format = "tradelog: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
