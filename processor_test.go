// FILE: lixenwraith/tradelog/processor_test.go
package tradelog

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tradelog/msg"
)

// blockingSink holds every Write until release is closed
type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	lines   int
}

func (s *blockingSink) Write(p []byte) (int, error) {
	<-s.release
	s.mu.Lock()
	s.lines++
	s.mu.Unlock()
	return len(p), nil
}

// failingSink rejects the writes selected by fail and records the rest
type failingSink struct {
	syncBuffer
	fail func(line string) bool
}

func (s *failingSink) Write(p []byte) (int, error) {
	if s.fail(string(p)) {
		return 0, errors.New("disk on fire")
	}
	return s.syncBuffer.Write(p)
}

// syncCountingSink counts Sync calls
type syncCountingSink struct {
	syncBuffer
	syncs atomic.Int64
}

func (s *syncCountingSink) Sync() error {
	s.syncs.Add(1)
	return nil
}

func (s *syncCountingSink) Syncs() int {
	return int(s.syncs.Load())
}

// panickingEvent is a domain event whose rendering always panics
type panickingEvent struct{}

func (panickingEvent) EventName() string { return "Panicking" }
func (panickingEvent) Render() string    { panic("render exploded") }

func TestProcessorFaultIsolation(t *testing.T) {
	logger, sink := createTestLogger(t)

	require.NoError(t, logger.Warning("before"))
	require.NoError(t, logger.Event(panickingEvent{}))
	require.NoError(t, logger.Warning("after"))
	require.NoError(t, logger.Shutdown(time.Second))

	assert.Equal(t, []string{"Warning:  before\n", "Warning:  after\n"}, sink.Lines())

	stats := logger.Stats()
	assert.Equal(t, uint64(1), stats.RenderFaults)
	assert.Equal(t, uint64(3), stats.Processed)
	assert.Zero(t, stats.SinkErrors)
}

func TestProcessorSinkErrors(t *testing.T) {
	sink := &failingSink{fail: func(line string) bool { return strings.Contains(line, "drop-me") }}
	logger, err := NewBuilder().Sink(sink).EnablePinning(false).Build()
	require.NoError(t, err)

	require.NoError(t, logger.Warning("keep-1"))
	require.NoError(t, logger.Warning("drop-me"))
	require.NoError(t, logger.Warning("keep-2"))
	require.NoError(t, logger.Shutdown(time.Second))

	assert.Equal(t, []string{"Warning:  keep-1\n", "Warning:  keep-2\n"}, sink.Lines())
	assert.Equal(t, uint64(1), logger.Stats().SinkErrors)
}

// TestProcessorPinning checks that a pinned worker either holds a core or has
// reported the failure on its sink
func TestProcessorPinning(t *testing.T) {
	sink := &syncBuffer{}
	logger, err := NewBuilder().Sink(sink).EnablePinning(true).Build()
	require.NoError(t, err)

	require.NoError(t, logger.Warning("pinned?"))
	require.NoError(t, logger.Flush(time.Second))
	stats := logger.Stats()
	require.NoError(t, logger.Shutdown(time.Second))

	lines := sink.Lines()
	if stats.PinnedCore >= 0 {
		assert.Equal(t, []string{"Warning:  pinned?\n"}, lines)
		return
	}

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Warning:  "+pinningFailedPrefix), lines[0])
	assert.Equal(t, "Warning:  pinned?\n", lines[1])
}

func TestProcessorPinningDisabled(t *testing.T) {
	logger, sink := createTestLogger(t)

	require.NoError(t, logger.Warning("x"))
	require.NoError(t, logger.Shutdown(time.Second))

	assert.Equal(t, -1, logger.Stats().PinnedCore)
	assert.Equal(t, []string{"Warning:  x\n"}, sink.Lines())
}

func TestProcessorSanitization(t *testing.T) {
	sink := &syncBuffer{}
	logger, err := NewBuilder().Sink(sink).EnablePinning(false).Sanitization(SanitizeTxt).Build()
	require.NoError(t, err)

	require.NoError(t, logger.Warning("line1\nline2\x00"))
	require.NoError(t, logger.Warning("clean"))
	require.NoError(t, logger.Shutdown(time.Second))

	assert.Equal(t, []string{"Warning:  line1<0a>line2<00>\n", "Warning:  clean\n"}, sink.Lines())
}

func TestProcessorLargeRecord(t *testing.T) {
	logger, sink := createTestLogger(t)

	big := strings.Repeat("x", 4*renderBufferSize)
	require.NoError(t, logger.Warning(big))
	require.NoError(t, logger.Warning("small"))
	require.NoError(t, logger.Shutdown(time.Second))

	assert.Equal(t, []string{"Warning:  " + big + "\n", "Warning:  small\n"}, sink.Lines())
}

func TestProcessorHeartbeat(t *testing.T) {
	sink := &syncBuffer{}
	logger, err := NewBuilder().
		Sink(sink).
		EnablePinning(false).
		HeartbeatIntervalMs(5).
		SpinCount(0).
		Build()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return logger.Stats().Heartbeats >= 2
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, logger.Shutdown(time.Second))

	lines := sink.Lines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "] Info: heartbeat sequence=1 processed=0 dropped=0")
	assert.Contains(t, lines[0], "pinned_core=-1")
	// Heartbeats bypass the channel
	assert.Zero(t, logger.Stats().Submitted)
}

func TestProcessorPeriodicSync(t *testing.T) {
	sink := &syncCountingSink{}
	logger, err := NewBuilder().Sink(sink).EnablePinning(false).FlushIntervalMs(5).SpinCount(0).Build()
	require.NoError(t, err)

	require.NoError(t, logger.Warning("sync me"))
	require.Eventually(t, func() bool {
		return sink.Syncs() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	before := sink.Syncs()
	require.NoError(t, logger.Shutdown(time.Second))
	// Termination performs a final sync
	assert.Greater(t, sink.Syncs(), before)
}

func TestProcessorDraining(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	logger, err := NewBuilder().Sink(sink).EnablePinning(false).BufferSize(16).Build()
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		require.NoError(t, logger.Warning("queued"))
	}
	logger.Close()

	// Queued units survive Close, the worker is still busy with them
	require.Eventually(t, func() bool {
		return logger.State() == WorkerRunning || logger.State() == WorkerDraining
	}, time.Second, time.Millisecond)
	assert.Error(t, logger.Shutdown(20*time.Millisecond))

	close(sink.release)
	require.NoError(t, logger.Shutdown(time.Second))
	assert.Equal(t, WorkerTerminated, logger.State())

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, 8, sink.lines)
}

func TestProcessorWorkerRecordsUseSink(t *testing.T) {
	logger, sink := createTestLogger(t)

	w := newWorker(logger, nil, &output{w: sink})
	w.writeDirect(msg.Warning{Message: pinningFailedPrefix + "test reason"})

	assert.Equal(t, "Warning:  tradelog worker pinning failed: test reason\n", sink.String())
}
