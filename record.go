// FILE: lixenwraith/tradelog/record.go
package tradelog

import (
	"errors"
	"io"

	"github.com/lixenwraith/tradelog/msg"
)

// ErrWorkUnitConsumed is returned when a WorkUnit is invoked a second time
var ErrWorkUnitConsumed = errors.New("tradelog: work unit already consumed")

// WorkUnit is a deferred, one-shot emission: a captured message and the sink
// it will be written to. The producer builds it, the worker invokes it.
// After Send the producer must not touch it again.
type WorkUnit struct {
	message  msg.Formattable
	sink     io.Writer
	consumed bool
}

// NewWorkUnit captures m and sink. It never fails and performs no rendering.
func NewWorkUnit(m msg.Formattable, sink io.Writer) *WorkUnit {
	return &WorkUnit{message: m, sink: sink}
}

// Message returns the captured message, or nil once consumed
func (u *WorkUnit) Message() msg.Formattable {
	return u.message
}

// Invoke renders the message, appends a newline and writes the line to the
// sink in a single Write call. The unit is consumed even when rendering panics.
func (u *WorkUnit) Invoke() error {
	if u.consumed {
		return ErrWorkUnitConsumed
	}
	line := u.render(make([]byte, 0, 128))
	_, err := u.sink.Write(line)
	return err
}

// render consumes the unit and appends its line to dst
func (u *WorkUnit) render(dst []byte) []byte {
	m := u.message
	u.consumed = true
	u.message = nil
	dst = msg.Append(dst, m)
	return append(dst, '\n')
}
