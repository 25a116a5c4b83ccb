// FILE: lixenwraith/tradelog/cmd/feedsim/server.go
package main

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/panjf2000/gnet/v2"
	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tradelog"
)

// Error codes for records the feed server generates itself
const (
	codeParseError  int32 = 2001
	codeLineTooLong int32 = 2002
)

const maxLineLength = 64 * 1024

// lineFramer accumulates bytes from one connection and yields complete lines
type lineFramer struct {
	pending []byte
}

// feed appends data and calls fn for every complete line, without the trailing newline.
// A partial line longer than maxLineLength is discarded and reported through overflow.
func (f *lineFramer) feed(data []byte, fn func(line []byte), overflow func(n int)) {
	f.pending = append(f.pending, data...)
	start := 0
	for {
		i := bytes.IndexByte(f.pending[start:], '\n')
		if i < 0 {
			break
		}
		fn(bytes.TrimSuffix(f.pending[start:start+i], []byte{'\r'}))
		start += i + 1
	}

	// Move the partial tail to the front, the backing array is reused
	rest := copy(f.pending, f.pending[start:])
	f.pending = f.pending[:rest]
	if rest > maxLineLength {
		overflow(rest)
		f.pending = f.pending[:0]
	}
}

// feedServer is a gnet event handler that logs every parsed feed line.
// It runs on a single event loop, which makes it the only producer of its logger.
type feedServer struct {
	gnet.BuiltinEventEngine

	logger *tradelog.Logger
	eng    atomic.Pointer[gnet.Engine]

	lines       atomic.Uint64
	parseErrors atomic.Uint64
	connections atomic.Int64
}

func newFeedServer(logger *tradelog.Logger) *feedServer {
	return &feedServer{logger: logger}
}

func (s *feedServer) OnBoot(eng gnet.Engine) gnet.Action {
	s.eng.Store(&eng)
	return gnet.None
}

func (s *feedServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(&lineFramer{})
	s.connections.Add(1)
	return nil, gnet.None
}

func (s *feedServer) OnClose(c gnet.Conn, err error) gnet.Action {
	s.connections.Add(-1)
	if err != nil {
		_ = s.logger.Warning(fmt.Sprintf("feed connection %s closed: %v", c.RemoteAddr(), err))
	}
	return gnet.None
}

func (s *feedServer) OnTraffic(c gnet.Conn) gnet.Action {
	framer, ok := c.Context().(*lineFramer)
	if !ok {
		return gnet.Close
	}
	buf, err := c.Next(-1)
	if err != nil {
		return gnet.Close
	}
	framer.feed(buf, s.handleLine, func(n int) {
		_ = s.logger.Error(codeLineTooLong, fmt.Sprintf("feed line exceeds %d bytes (%d buffered), discarded", maxLineLength, n))
	})
	return gnet.None
}

// handleLine parses one line and hands the result to the logger
func (s *feedServer) handleLine(line []byte) {
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}
	s.lines.Add(1)

	m, err := parseLine(string(line))
	if err != nil {
		s.parseErrors.Add(1)
		_ = s.logger.Error(codeParseError, err.Error())
		return
	}
	// ErrQueueFull is already counted as Dropped by the logger
	_ = s.logger.Log(m)
}

// statsHandler serves worker counters for the feed and framework loggers
func statsHandler(feed *feedServer, framework *tradelog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/stats":
			ctx.SetContentType("text/plain; charset=utf-8")
			fmt.Fprintf(ctx, "connections=%d lines=%d parse_errors=%d\n",
				feed.connections.Load(), feed.lines.Load(), feed.parseErrors.Load())
			writeStats(ctx, "feed", feed.logger.Stats())
			if framework != nil {
				writeStats(ctx, "framework", framework.Stats())
			}
		case "/healthz":
			if feed.logger.State() == tradelog.WorkerTerminated {
				ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
				ctx.SetBodyString("worker terminated\n")
				return
			}
			ctx.SetBodyString("ok\n")
		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}
}

func writeStats(ctx *fasthttp.RequestCtx, name string, st tradelog.Stats) {
	fmt.Fprintf(ctx, "%s state=%s pinned_core=%d submitted=%d processed=%d dropped=%d sink_errors=%d render_faults=%d heartbeats=%d uptime_s=%d\n",
		name, st.State, st.PinnedCore, st.Submitted, st.Processed, st.Dropped,
		st.SinkErrors, st.RenderFaults, st.Heartbeats, int64(st.Uptime.Seconds()))
}
