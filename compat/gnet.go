// FILE: lixenwraith/tradelog/compat/gnet.go
package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/tradelog/msg"
)

// Error codes used for framework-originated error records
const (
	CodeGnetError     int32 = 1100
	CodeGnetFatal     int32 = 1199
	CodeFastHTTPError int32 = 1200
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet engine logs into typed tradelog messages
type GnetAdapter struct {
	logger       *SharedLogger
	clock        func() time.Time
	fatalHandler func(text string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *SharedLogger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		clock:  time.Now,
		fatalHandler: func(text string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetClock sets the time source for Info timestamps
func WithGnetClock(clock func() time.Time) GnetOption {
	return func(a *GnetAdapter) {
		a.clock = clock
	}
}

// Debugf logs an Info record; there is no debug variant
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.info(format, args...)
}

// Infof logs an Info record
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.info(format, args...)
}

// Warnf logs a Warning record
func (a *GnetAdapter) Warnf(format string, args ...any) {
	_ = a.logger.Log(msg.Warning{Message: "gnet: " + fmt.Sprintf(format, args...)})
}

// Errorf logs an Error record
func (a *GnetAdapter) Errorf(format string, args ...any) {
	_ = a.logger.Log(msg.Error{Code: CodeGnetError, Message: "gnet: " + fmt.Sprintf(format, args...)})
}

// Fatalf logs an Error record and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	_ = a.logger.Log(msg.Error{Code: CodeGnetFatal, Message: "gnet: " + text})

	// Ensure log is written before exit
	_ = a.logger.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(text)
	}
}

func (a *GnetAdapter) info(format string, args ...any) {
	_ = a.logger.Log(msg.Info{
		Timestamp: formatTimestamp(a.clock()),
		Details:   "gnet: " + fmt.Sprintf(format, args...),
	})
}

// formatTimestamp renders Info timestamps for adapter records
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
