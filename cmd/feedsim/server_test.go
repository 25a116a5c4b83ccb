// FILE: lixenwraith/tradelog/cmd/feedsim/server_test.go
package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tradelog"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func createTestLogger(t *testing.T) (*tradelog.Logger, *syncBuffer) {
	t.Helper()
	sink := &syncBuffer{}
	logger, err := tradelog.NewBuilder().Sink(sink).EnablePinning(false).BufferSize(1024).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Shutdown(time.Second) })
	return logger, sink
}

func TestLineFramer(t *testing.T) {
	var f lineFramer
	var got []string
	collect := func(line []byte) { got = append(got, string(line)) }
	noOverflow := func(n int) { t.Fatalf("unexpected overflow of %d bytes", n) }

	f.feed([]byte("warn one\nwarn t"), collect, noOverflow)
	assert.Equal(t, []string{"warn one"}, got)

	f.feed([]byte("wo\r\n\nwarn three"), collect, noOverflow)
	assert.Equal(t, []string{"warn one", "warn two", ""}, got)
	assert.Equal(t, "warn three", string(f.pending))

	f.feed([]byte("\n"), collect, noOverflow)
	assert.Equal(t, "warn three", got[3])
	assert.Empty(t, f.pending)
}

func TestLineFramerOverflow(t *testing.T) {
	var f lineFramer
	var overflowed int
	f.feed(bytes.Repeat([]byte("x"), maxLineLength+1), func([]byte) {
		t.Fatal("no complete line expected")
	}, func(n int) { overflowed = n })

	assert.Equal(t, maxLineLength+1, overflowed)
	assert.Empty(t, f.pending)
}

func TestFeedServerHandleLine(t *testing.T) {
	logger, sink := createTestLogger(t)
	server := newFeedServer(logger)

	server.handleLine([]byte("trade BTCUSDT buy 3 100 42"))
	server.handleLine([]byte("bogus"))
	server.handleLine([]byte("  "))

	require.NoError(t, logger.Flush(time.Second))
	assert.Equal(t,
		"MarketTrade - symbol: BTCUSDT, side: buy, qty: 3, fill_price: 100, timestamp: 42\n"+
			"Error 2001: unknown record type: bogus\n",
		sink.String())
	assert.Equal(t, uint64(2), server.lines.Load())
	assert.Equal(t, uint64(1), server.parseErrors.Load())
}

func TestStatsHandler(t *testing.T) {
	logger, _ := createTestLogger(t)
	server := newFeedServer(logger)
	server.handleLine([]byte("warn hello"))
	require.NoError(t, logger.Flush(time.Second))

	handler := statsHandler(server, nil)

	t.Run("stats", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/stats")
		handler(&ctx)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		body := string(ctx.Response.Body())
		assert.Contains(t, body, "lines=1 parse_errors=0")
		assert.Contains(t, body, "feed state=running")
		assert.Contains(t, body, "processed=1")
		assert.NotContains(t, body, "framework")
	})

	t.Run("health", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/healthz")
		handler(&ctx)
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	})

	t.Run("not found", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/metrics")
		handler(&ctx)
		assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	})

	t.Run("health after shutdown", func(t *testing.T) {
		require.NoError(t, logger.Shutdown(time.Second))
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/healthz")
		handler(&ctx)
		assert.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
	})
}

func TestReplay(t *testing.T) {
	logger, sink := createTestLogger(t)

	input := strings.Join([]string{
		"book BTCUSDT 1 bids=100:2 asks=",
		"",
		"mfill SOLUSDT sell 150 4 11",
		"trade BTCUSDT",
		"err 7 reject",
	}, "\n")

	res, err := replay(logger, strings.NewReader(input), true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.lines)
	assert.Equal(t, 1, res.parseErrors)

	require.NoError(t, logger.Flush(time.Second))
	assert.Equal(t,
		"MarketOrderBookUpdate - symbol: BTCUSDT, bids [[100, 2]], asks [], event_timestamp 1\n"+
			"AccountMakerFill - symbol: SOLUSDT, side: sell, fill_price: 150, qty: 4, timestamp: 11\n"+
			"Error 2001: line 3: trade: expected 5 fields, got 1\n"+
			"Error 7: reject\n",
		sink.String())
}
