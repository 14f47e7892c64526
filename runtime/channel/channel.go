// Package channel implements §4.14's bounded, mutex/cond-gated circular
// buffer backing `chan<T>(capacity)`. Channel sync is refcount-free: a
// channel is only reachable through the Sender/Receiver handles that
// embed its pointer, so the GC's ordinary marking keeps it alive — no
// separate lifetime management is needed the way task.TaskSync needs one.
package channel

import (
	"sync"

	"github.com/pluto-lang/pluto/runtime/rterr"
)

// Channel is a fixed-capacity circular buffer of values, guarded by one
// mutex and the two condition variables send/recv wait on.
type Channel struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf      []any
	head     int
	tail     int
	count    int
	capacity int
	closed   bool
}

// New allocates a channel with the given fixed capacity, mirroring
// __pluto_chan_new(capacity).
func New(capacity int) *Channel {
	c := &Channel{
		buf:      make([]any, capacity),
		capacity: capacity,
	}
	c.notEmpty = sync.NewCond(&c.mu)
	c.notFull = sync.NewCond(&c.mu)
	return c
}

// Send blocks until there is room in the buffer or the channel closes,
// matching §4.14's send(v): wait while full and open, raise ChannelClosed
// if closed, otherwise enqueue and wake one waiting receiver.
func (c *Channel) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.count == c.capacity && !c.closed {
		c.notFull.Wait()
	}
	if c.closed {
		return rterr.NewChannelClosed()
	}

	c.buf[c.tail] = v
	c.tail = (c.tail + 1) % c.capacity
	c.count++
	c.notEmpty.Signal()
	return nil
}

// Recv blocks until a value is available or the channel closes, matching
// §4.14's recv(): wait while empty and open, raise ChannelClosed only once
// the buffer has drained, otherwise dequeue and wake one waiting sender.
func (c *Channel) Recv() (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.count == 0 && !c.closed {
		c.notEmpty.Wait()
	}
	if c.count == 0 && c.closed {
		return nil, rterr.NewChannelClosed()
	}

	v := c.buf[c.head]
	c.buf[c.head] = nil
	c.head = (c.head + 1) % c.capacity
	c.count--
	c.notFull.Signal()
	return v, nil
}

// TrySend behaves like Send but raises ChannelFull instead of blocking
// when the buffer has no room.
func (c *Channel) TrySend(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return rterr.NewChannelClosed()
	}
	if c.count == c.capacity {
		return rterr.NewChannelFull(c.capacity)
	}

	c.buf[c.tail] = v
	c.tail = (c.tail + 1) % c.capacity
	c.count++
	c.notEmpty.Signal()
	return nil
}

// TryRecv behaves like Recv but raises ChannelEmpty instead of blocking
// when the buffer has nothing queued.
func (c *Channel) TryRecv() (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 {
		if c.closed {
			return nil, rterr.NewChannelClosed()
		}
		return nil, rterr.NewChannelEmpty()
	}

	v := c.buf[c.head]
	c.buf[c.head] = nil
	c.head = (c.head + 1) % c.capacity
	c.count--
	c.notFull.Signal()
	return v, nil
}

// Close marks the channel closed and wakes every blocked sender and
// receiver. Idempotent, per §4.14.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// Len and Cap report the buffer's current occupancy and fixed capacity,
// for tests and diagnostics.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Channel) Cap() int { return c.capacity }
