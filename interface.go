// FILE: lixenwraith/tradelog/interface.go
package tradelog

import (
	"github.com/lixenwraith/tradelog/msg"
)

// Logger instance methods for the built-in message variants.

// Warning logs a short textual note.
func (l *Logger) Warning(text string) error {
	return l.Log(msg.Warning{Message: text})
}

// Info logs a timestamped informational record. The timestamp is caller-supplied.
func (l *Logger) Info(timestamp, details string) error {
	return l.Log(msg.Info{Timestamp: timestamp, Details: details})
}

// Error logs a coded error.
func (l *Logger) Error(code int32, text string) error {
	return l.Log(msg.Error{Code: code, Message: text})
}

// Event logs a domain event.
func (l *Logger) Event(domain msg.DomainEvent) error {
	return l.Log(msg.Event{Domain: domain})
}

// LogFrom logs the message an upstream value converts itself into.
func (l *Logger) LogFrom(c msg.Converter) error {
	if c == nil {
		return ErrNilMessage
	}
	m := c.ToMessage()
	if m == nil {
		return ErrNilMessage
	}
	return l.Log(m)
}
