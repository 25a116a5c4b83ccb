// FILE: lixenwraith/tradelog/spsc/spsc.go
// Package spsc implements a bounded, wait-free, single-producer single-consumer
// ring buffer split into a Producer and a Consumer endpoint.
//
// Exactly one goroutine may use each endpoint. Send and Recv take no locks and
// make no syscalls: Send performs at most two atomic loads and one atomic
// store, Recv the same. A full ring fails fast with ErrFull; the producer never
// blocks.
package spsc

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MaxCapacity is the largest accepted ring capacity
const MaxCapacity = 1 << 30

var (
	// ErrClosed is returned by Send once either endpoint has been closed
	ErrClosed = errors.New("spsc: channel closed")
	// ErrFull is returned by Send when the ring has no free slot
	ErrFull = errors.New("spsc: channel full")
)

// Status is the outcome of a Recv call
type Status uint8

const (
	// Received means a value was dequeued
	Received Status = iota
	// Empty means no value is queued and the producer is still open
	Empty
	// Closed means the producer endpoint is closed and every queued value has
	// been received, or the consumer endpoint itself was closed. It is sticky.
	Closed
)

func (s Status) String() string {
	switch s {
	case Received:
		return "received"
	case Empty:
		return "empty"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// SendError hands the rejected value back to the caller
type SendError[T any] struct {
	Value T
	Err   error
}

func (e *SendError[T]) Error() string { return e.Err.Error() }
func (e *SendError[T]) Unwrap() error { return e.Err }

// ring is the storage shared by both endpoints. head is written only by the
// consumer, tail only by the producer.
type ring[T any] struct {
	_              cpu.CacheLinePad
	head           atomic.Uint64
	_              cpu.CacheLinePad
	tail           atomic.Uint64
	_              cpu.CacheLinePad
	producerClosed atomic.Bool
	consumerClosed atomic.Bool
	mask           uint64
	slots          []T
}

// noCopy makes go vet's copylocks check flag copied endpoints
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Producer is the send endpoint. It must be owned by a single goroutine.
type Producer[T any] struct {
	noCopy     noCopy
	r          *ring[T]
	tail       uint64 // local copy of r.tail
	cachedHead uint64
	closed     bool
}

// Consumer is the receive endpoint. It must be owned by a single goroutine.
type Consumer[T any] struct {
	noCopy     noCopy
	r          *ring[T]
	head       uint64 // local copy of r.head
	cachedTail uint64
	closed     bool
}

// New creates a ring able to hold at least capacity values.
// Capacity is rounded up to the next power of two.
func New[T any](capacity int) (*Producer[T], *Consumer[T], error) {
	if capacity <= 0 {
		return nil, nil, fmt.Errorf("spsc: capacity must be positive: %d", capacity)
	}
	if capacity > MaxCapacity {
		return nil, nil, fmt.Errorf("spsc: capacity %d exceeds maximum %d", capacity, MaxCapacity)
	}

	size := roundUpPow2(uint64(capacity))
	r := &ring[T]{
		mask:  size - 1,
		slots: make([]T, size),
	}
	return &Producer[T]{r: r}, &Consumer[T]{r: r}, nil
}

func roundUpPow2(n uint64) uint64 {
	size := uint64(1)
	for size < n {
		size <<= 1
	}
	return size
}

// Send appends v at the tail. On failure the returned *SendError carries v
// back and unwraps to ErrClosed or ErrFull.
func (p *Producer[T]) Send(v T) error {
	if p.closed || p.r.consumerClosed.Load() {
		return &SendError[T]{Value: v, Err: ErrClosed}
	}

	size := p.r.mask + 1
	if p.tail-p.cachedHead >= size {
		p.cachedHead = p.r.head.Load()
		if p.tail-p.cachedHead >= size {
			return &SendError[T]{Value: v, Err: ErrFull}
		}
	}

	p.r.slots[p.tail&p.r.mask] = v
	p.tail++
	p.r.tail.Store(p.tail) // publishes the slot write
	return nil
}

// Close closes the producer endpoint. Queued values remain receivable.
func (p *Producer[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.r.producerClosed.Store(true)
}

// Closed reports whether Send can no longer succeed
func (p *Producer[T]) Closed() bool {
	return p.closed || p.r.consumerClosed.Load()
}

// Len returns the number of queued values as seen by the producer
func (p *Producer[T]) Len() int {
	return int(p.tail - p.r.head.Load())
}

// Cap returns the ring capacity
func (p *Producer[T]) Cap() int {
	return int(p.r.mask + 1)
}

// Recv removes and returns the head value
func (c *Consumer[T]) Recv() (T, Status) {
	var zero T
	if c.closed {
		return zero, Closed
	}

	if c.head == c.cachedTail {
		// closed flag must be read before tail so a final Send is never missed
		producerClosed := c.r.producerClosed.Load()
		c.cachedTail = c.r.tail.Load()
		if c.head == c.cachedTail {
			if producerClosed {
				c.closed = true
				return zero, Closed
			}
			return zero, Empty
		}
	}

	idx := c.head & c.r.mask
	v := c.r.slots[idx]
	c.r.slots[idx] = zero // drop the reference held by the ring
	c.head++
	c.r.head.Store(c.head) // releases the slot to the producer
	return v, Received
}

// Close closes the consumer endpoint; later Sends fail with ErrClosed and
// later Recvs return Closed. Values still queued are discarded.
func (c *Consumer[T]) Close() {
	if c.closed && c.r.consumerClosed.Load() {
		return
	}
	c.closed = true
	c.r.consumerClosed.Store(true)

	var zero T
	tail := c.r.tail.Load()
	for i := c.head; i != tail; i++ {
		c.r.slots[i&c.r.mask] = zero
	}
}

// ProducerClosed reports whether the producer endpoint has been closed.
// Values may still be queued.
func (c *Consumer[T]) ProducerClosed() bool {
	return c.r.producerClosed.Load()
}

// Len returns the number of queued values as seen by the consumer
func (c *Consumer[T]) Len() int {
	return int(c.r.tail.Load() - c.head)
}

// Cap returns the ring capacity
func (c *Consumer[T]) Cap() int {
	return int(c.r.mask + 1)
}
