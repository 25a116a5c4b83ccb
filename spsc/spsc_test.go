package spsc

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapacity(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		expected  int
		wantError bool
	}{
		{name: "power of two", capacity: 8, expected: 8},
		{name: "rounded up", capacity: 5, expected: 8},
		{name: "one", capacity: 1, expected: 1},
		{name: "zero", capacity: 0, wantError: true},
		{name: "negative", capacity: -1, wantError: true},
		{name: "too large", capacity: MaxCapacity + 1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c, err := New[int](tt.capacity)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Cap())
			assert.Equal(t, tt.expected, c.Cap())
		})
	}
}

func TestSendRecvFIFO(t *testing.T) {
	p, c, err := New[int](4)
	require.NoError(t, err)

	_, st := c.Recv()
	assert.Equal(t, Empty, st)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Send(i))
	}
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 3, c.Len())

	for i := 0; i < 3; i++ {
		v, st := c.Recv()
		assert.Equal(t, Received, st)
		assert.Equal(t, i, v)
	}

	_, st = c.Recv()
	assert.Equal(t, Empty, st)
}

func TestSendFullFailsFast(t *testing.T) {
	p, c, err := New[string](2)
	require.NoError(t, err)

	require.NoError(t, p.Send("a"))
	require.NoError(t, p.Send("b"))

	err = p.Send("c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFull))

	var sendErr *SendError[string]
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, "c", sendErr.Value, "rejected value is handed back")

	// Freeing a slot makes room again
	v, st := c.Recv()
	assert.Equal(t, Received, st)
	assert.Equal(t, "a", v)
	require.NoError(t, p.Send("c"))

	v, _ = c.Recv()
	assert.Equal(t, "b", v)
	v, _ = c.Recv()
	assert.Equal(t, "c", v)
}

func TestProducerCloseDrainsQueued(t *testing.T) {
	p, c, err := New[int](8)
	require.NoError(t, err)

	require.NoError(t, p.Send(1))
	require.NoError(t, p.Send(2))
	p.Close()
	p.Close() // idempotent

	assert.True(t, c.ProducerClosed())

	v, st := c.Recv()
	assert.Equal(t, Received, st)
	assert.Equal(t, 1, v)
	v, st = c.Recv()
	assert.Equal(t, Received, st)
	assert.Equal(t, 2, v)

	// Closed is sticky
	for i := 0; i < 3; i++ {
		_, st = c.Recv()
		assert.Equal(t, Closed, st)
	}
}

func TestSendAfterClose(t *testing.T) {
	t.Run("producer closed", func(t *testing.T) {
		p, _, err := New[int](4)
		require.NoError(t, err)
		p.Close()

		err = p.Send(7)
		assert.True(t, errors.Is(err, ErrClosed))
		assert.True(t, p.Closed())

		var sendErr *SendError[int]
		require.True(t, errors.As(err, &sendErr))
		assert.Equal(t, 7, sendErr.Value)
	})

	t.Run("consumer closed", func(t *testing.T) {
		p, c, err := New[int](4)
		require.NoError(t, err)
		require.NoError(t, p.Send(1))

		c.Close()
		err = p.Send(2)
		assert.True(t, errors.Is(err, ErrClosed))
		assert.True(t, p.Closed())

		_, st := c.Recv()
		assert.Equal(t, Closed, st)
	})
}

func TestRecvReleasesSlotReference(t *testing.T) {
	p, c, err := New[*int](2)
	require.NoError(t, err)

	x := 5
	require.NoError(t, p.Send(&x))
	_, st := c.Recv()
	require.Equal(t, Received, st)
	assert.Nil(t, c.r.slots[0])
}

func TestConcurrentFIFO(t *testing.T) {
	const n = 200000
	p, c, err := New[int](64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.Close()
		for i := 0; i < n; {
			if err := p.Send(i); err != nil {
				if errors.Is(err, ErrFull) {
					runtime.Gosched()
					continue
				}
				t.Errorf("unexpected send error: %v", err)
				return
			}
			i++
		}
	}()

	expected := 0
	for {
		v, st := c.Recv()
		if st == Closed {
			break
		}
		if st == Empty {
			runtime.Gosched()
			continue
		}
		if v != expected {
			t.Fatalf("out of order: got %d, want %d", v, expected)
		}
		expected++
	}
	wg.Wait()
	assert.Equal(t, n, expected)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "received", Received.String())
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
