// FILE: lixenwraith/tradelog/processor.go
package tradelog

import (
	"runtime"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/lixenwraith/tradelog/msg"
	"github.com/lixenwraith/tradelog/sanitizer"
	"github.com/lixenwraith/tradelog/spsc"
)

// faultDumper renders recovered panic values for internal diagnostics
var faultDumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                5,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// worker is the consumer side of a logger. All fields are owned by the
// worker goroutine.
type worker struct {
	l        *Logger
	consumer *spsc.Consumer[*WorkUnit]
	out      *output
	san      *sanitizer.Sanitizer
	buf      []byte // rendered line
	clean    []byte // sanitized line
}

func newWorker(l *Logger, consumer *spsc.Consumer[*WorkUnit], out *output) *worker {
	return &worker{
		l:        l,
		consumer: consumer,
		out:      out,
		san:      sanitizer.New().Policy(sanitizer.PolicyPreset(l.cfg.Sanitization)),
		buf:      make([]byte, 0, renderBufferSize),
		clean:    make([]byte, 0, renderBufferSize),
	}
}

// run is the worker main loop. The goroutine stays locked to its OS thread
// and never unlocks, so the pinned thread is destroyed when run returns.
func (w *worker) run() {
	runtime.LockOSThread()

	l := w.l
	defer close(l.done)
	defer w.terminate()

	l.state.WorkerState.Store(int32(WorkerStarting))
	w.pin()

	timers := setupProcessingTimers(l.cfg, time.Now())
	backoff := newIdleBackoff(l.cfg)
	l.state.WorkerState.Store(int32(WorkerRunning))

	draining := false
	var sinceCheck int

	// --- Main Loop ---
	for {
		unit, status := w.consumer.Recv()
		switch status {
		case spsc.Received:
			if !draining && w.consumer.ProducerClosed() {
				draining = true
				l.state.WorkerState.Store(int32(WorkerDraining))
			}

			w.processUnit(unit)
			backoff.reset()

			sinceCheck++
			if sinceCheck >= busyCheckEvery {
				sinceCheck = 0
				w.handleTimers(timers, time.Now())
			}

		case spsc.Empty:
			sinceCheck = 0
			if backoff.idle() {
				w.handleTimers(timers, time.Now())
			}
			backoff.wait()

		case spsc.Closed:
			return
		}
	}
}

// pin locks the worker to a core when enabled. Failure is reported once on
// the sink itself and the worker continues unpinned.
func (w *worker) pin() {
	l := w.l
	l.state.PinnedCore.Store(-1)
	if !l.cfg.EnablePinning {
		return
	}

	core, err := pinCurrentThread(int(l.cfg.CoreIndex))
	if err != nil {
		l.internalLog("warning - %s%v\n", pinningFailedPrefix, err)
		w.writeDirect(msg.Warning{Message: pinningFailedPrefix + err.Error()})
		return
	}
	l.state.PinnedCore.Store(int64(core))
}

// processUnit invokes one unit. Panics raised while rendering or writing are
// contained so a faulty message never stops the worker.
func (w *worker) processUnit(unit *WorkUnit) {
	l := w.l
	rendering := true

	defer func() {
		l.state.Processed.Add(1)
		if r := recover(); r != nil {
			if rendering {
				l.state.RenderFaults.Add(1)
				l.internalLog("error - recovered panic while rendering message: %s", faultDumper.Sdump(r))
			} else {
				l.state.SinkErrors.Add(1)
				l.internalLog("error - recovered panic in sink write: %s", faultDumper.Sdump(r))
			}
		}
	}()

	line := w.sanitize(unit.render(w.buf[:0]))
	rendering = false

	if _, err := unit.sink.Write(line); err != nil {
		l.state.SinkErrors.Add(1)
		l.internalLog("error - failed to write to sink: %v\n", err)
	}
}

// writeDirect writes a worker-originated record to the sink, bypassing the channel
func (w *worker) writeDirect(m msg.Message) {
	line := w.buf[:0]
	line = m.AppendRender(line)
	line = append(line, '\n')
	if _, err := w.out.w.Write(w.sanitize(line)); err != nil {
		w.l.state.SinkErrors.Add(1)
		w.l.internalLog("error - failed to write worker record: %v\n", err)
	}
}

// sanitize applies the configured policy to a newline-terminated line.
// The returned slice aliases one of the worker buffers.
func (w *worker) sanitize(line []byte) []byte {
	if cap(line) > cap(w.buf) {
		w.buf = line[:0] // keep the grown buffer
	}
	if w.san.Passthrough() {
		return line
	}

	body := line[:len(line)-1]
	w.clean = w.san.Append(w.clean[:0], body)
	w.clean = append(w.clean, '\n')
	return w.clean
}

// handleTimers runs periodic sink syncs and heartbeats
func (w *worker) handleTimers(timers *TimerSet, now time.Time) {
	if timers.flush.due(now) {
		w.handleFlushTick()
	}
	if timers.heartbeat.due(now) {
		w.writeDirect(w.l.heartbeatMessage(now))
	}
}

// handleFlushTick syncs the sink
func (w *worker) handleFlushTick() {
	if err := w.out.performSync(); err != nil {
		w.l.internalLog("warning - %v\n", err)
	}
}

// terminate releases the sink and the consumer endpoint
func (w *worker) terminate() {
	l := w.l
	if err := w.out.close(); err != nil {
		l.internalLog("warning - %v\n", err)
	}
	w.consumer.Close()
	l.state.WorkerState.Store(int32(WorkerTerminated))
}
