// FILE: lixenwraith/tradelog/msg/msg.go
// Package msg defines the typed log messages accepted by tradelog and the
// formatting capability the sink worker uses to render them.
//
// Rendering is pure: a value renders from its own fields only, performs no I/O,
// takes no locks and produces byte-identical output on every call. Producers
// capture values; the worker renders them off the hot path.
package msg

import (
	"strconv"
)

// Formattable is the formatting capability: render the value to its text form.
type Formattable interface {
	Render() string
}

// Appender is an optional fast path for Formattable values.
// AppendRender must append exactly the bytes Render returns.
type Appender interface {
	AppendRender(dst []byte) []byte
}

// Message is the closed set of built-in log messages.
type Message interface {
	Formattable
	Appender
	Severity() Severity
	message()
}

// Converter is implemented by upstream types (deserialized stream records,
// error structs) that know how to express themselves as a Message.
type Converter interface {
	ToMessage() Message
}

// Severity classifies a message. It is derived from the variant, never filtered on.
type Severity int8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lower-case severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// SeverityOf returns the severity of f, defaulting to SeverityInfo for
// values outside the built-in message set.
func SeverityOf(f Formattable) Severity {
	if m, ok := f.(Message); ok {
		return m.Severity()
	}
	return SeverityInfo
}

// Append appends the rendered form of f to dst, using AppendRender when available.
func Append(dst []byte, f Formattable) []byte {
	if a, ok := f.(Appender); ok {
		return a.AppendRender(dst)
	}
	return append(dst, f.Render()...)
}

// Format returns the rendered form of f
func Format(f Formattable) string {
	return f.Render()
}

// Warning is a short textual note
type Warning struct {
	Message string
}

func (w Warning) message() {}
func (w Warning) Severity() Severity { return SeverityWarning }

func (w Warning) AppendRender(dst []byte) []byte {
	dst = append(dst, "Warning:  "...)
	return append(dst, w.Message...)
}

func (w Warning) Render() string {
	return string(w.AppendRender(make([]byte, 0, 10+len(w.Message))))
}

// Info is a timestamped informational record. Timestamp is supplied by the caller.
type Info struct {
	Timestamp string
	Details   string
}

func (i Info) message() {}
func (i Info) Severity() Severity { return SeverityInfo }

func (i Info) AppendRender(dst []byte) []byte {
	dst = append(dst, '[')
	dst = append(dst, i.Timestamp...)
	dst = append(dst, "] Info: "...)
	return append(dst, i.Details...)
}

func (i Info) Render() string {
	return string(i.AppendRender(make([]byte, 0, 9+len(i.Timestamp)+len(i.Details))))
}

// Error carries a numeric code and a message
type Error struct {
	Code    int32
	Message string
}

func (e Error) message() {}
func (e Error) Severity() Severity { return SeverityError }

func (e Error) AppendRender(dst []byte) []byte {
	dst = append(dst, "Error "...)
	dst = strconv.AppendInt(dst, int64(e.Code), 10)
	dst = append(dst, ": "...)
	return append(dst, e.Message...)
}

func (e Error) Render() string {
	return string(e.AppendRender(make([]byte, 0, 20+len(e.Message))))
}

// Event wraps a domain event
type Event struct {
	Domain DomainEvent
}

func (e Event) message() {}
func (e Event) Severity() Severity { return SeverityInfo }

func (e Event) AppendRender(dst []byte) []byte {
	if e.Domain == nil {
		return append(dst, "Event - <nil>"...)
	}
	return Append(dst, e.Domain)
}

func (e Event) Render() string {
	if e.Domain == nil {
		return "Event - <nil>"
	}
	return e.Domain.Render()
}
