// FILE: lixenwraith/tradelog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tradelog/msg"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter implements fasthttp's Logger on top of tradelog messages
type FastHTTPAdapter struct {
	logger           *SharedLogger
	clock            func() time.Time
	defaultSeverity  msg.Severity
	severityDetector func(string) msg.Severity // Function to detect severity from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *SharedLogger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:           logger,
		clock:            time.Now,
		defaultSeverity:  msg.SeverityInfo,
		severityDetector: DetectSeverity, // Default severity detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultSeverity sets the severity used when detection finds nothing
func WithDefaultSeverity(severity msg.Severity) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultSeverity = severity
	}
}

// WithSeverityDetector sets a custom function to detect severity from message content
func WithSeverityDetector(detector func(string) msg.Severity) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.severityDetector = detector
	}
}

// WithFastHTTPClock sets the time source for Info timestamps
func WithFastHTTPClock(clock func() time.Time) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.clock = clock
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	text := "fasthttp: " + fmt.Sprintf(format, args...)

	severity := a.defaultSeverity
	if a.severityDetector != nil {
		if detected := a.severityDetector(text); detected != msg.SeverityInfo {
			severity = detected
		}
	}

	var m msg.Message
	switch severity {
	case msg.SeverityError:
		m = msg.Error{Code: CodeFastHTTPError, Message: text}
	case msg.SeverityWarning:
		m = msg.Warning{Message: text}
	default:
		m = msg.Info{Timestamp: formatTimestamp(a.clock()), Details: text}
	}
	_ = a.logger.Log(m)
}

// DetectSeverity attempts to detect severity from message content
func DetectSeverity(text string) msg.Severity {
	lower := strings.ToLower(text)

	// Check for error indicators
	if strings.Contains(lower, "error") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "fatal") ||
		strings.Contains(lower, "panic") {
		return msg.SeverityError
	}

	// Check for warning indicators
	if strings.Contains(lower, "warn") ||
		strings.Contains(lower, "deprecated") ||
		strings.Contains(lower, "timeout") {
		return msg.SeverityWarning
	}

	return msg.SeverityInfo
}
