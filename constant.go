// FILE: lixenwraith/tradelog/constant.go
package tradelog

import (
	"time"
)

// Console targets
const (
	ConsoleStdout = "stdout"
	ConsoleStderr = "stderr"
)

// Sanitization policies applied to rendered records
const (
	SanitizeRaw = "raw" // passthrough
	SanitizeTxt = "txt" // hex-encode non-printable runes
)

// Worker idle handling
const (
	// First idle sleep after the spin phase, doubled up to idle_sleep_us
	minIdleSleep = time.Microsecond
	// Received units between heartbeat/sync deadline checks while busy
	busyCheckEvery = 256
)

// Timers
const (
	// Minimum wait time used for polling worker state
	minWaitTime = time.Millisecond
)

// Initial capacity of the worker's render buffer
const renderBufferSize = 1024

// pinningFailedPrefix starts the one-shot warning written when pinning fails
const pinningFailedPrefix = "tradelog worker pinning failed: "
