// FILE: lixenwraith/tradelog/heartbeat.go
package tradelog

import (
	"strconv"
	"time"

	"github.com/lixenwraith/tradelog/msg"
)

// heartbeatTimestampFormat is the Info timestamp of heartbeat records
const heartbeatTimestampFormat = time.RFC3339Nano

// heartbeatMessage builds the worker statistics record
func (l *Logger) heartbeatMessage(now time.Time) msg.Info {
	sequence := l.state.HeartbeatSequence.Add(1)
	stats := l.state.snapshot()

	details := make([]byte, 0, 192)
	details = append(details, "heartbeat sequence="...)
	details = strconv.AppendUint(details, sequence, 10)
	details = append(details, " processed="...)
	details = strconv.AppendUint(details, stats.Processed, 10)
	details = append(details, " dropped="...)
	details = strconv.AppendUint(details, stats.Dropped, 10)
	details = append(details, " sink_errors="...)
	details = strconv.AppendUint(details, stats.SinkErrors, 10)
	details = append(details, " render_faults="...)
	details = strconv.AppendUint(details, stats.RenderFaults, 10)
	details = append(details, " pinned_core="...)
	details = strconv.AppendInt(details, int64(stats.PinnedCore), 10)
	details = append(details, " uptime_s="...)
	details = strconv.AppendFloat(details, stats.Uptime.Seconds(), 'f', 2, 64)

	return msg.Info{
		Timestamp: now.UTC().Format(heartbeatTimestampFormat),
		Details:   string(details),
	}
}
