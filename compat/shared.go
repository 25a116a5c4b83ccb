// FILE: lixenwraith/tradelog/compat/shared.go
package compat

import (
	"sync"
	"time"

	"github.com/lixenwraith/tradelog"
	"github.com/lixenwraith/tradelog/msg"
)

// SharedLogger serializes producers that cannot own a Logger each, such as
// framework callbacks invoked from several goroutines. The mutex turns them
// into the single producer a Logger requires.
type SharedLogger struct {
	mu     sync.Mutex
	logger *tradelog.Logger
}

// NewSharedLogger wraps l. Once wrapped, l must only be used through the SharedLogger.
func NewSharedLogger(l *tradelog.Logger) *SharedLogger {
	return &SharedLogger{logger: l}
}

// Log hands m to the underlying logger
func (s *SharedLogger) Log(m msg.Formattable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Log(m)
}

// Flush waits until every message logged so far has been written
func (s *SharedLogger) Flush(timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Flush(timeout)
}

// Shutdown closes the underlying logger and waits for its worker
func (s *SharedLogger) Shutdown(timeout ...time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Shutdown(timeout...)
}

// Stats returns the underlying logger counters
func (s *SharedLogger) Stats() tradelog.Stats {
	return s.logger.Stats()
}

// Logger returns the wrapped logger
func (s *SharedLogger) Logger() *tradelog.Logger {
	return s.logger
}
