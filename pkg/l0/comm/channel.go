package comm

import (
	"github.com/golang/glog"
	"go.uber.org/atomic"
)

// Channel buffers received command bytes between the receive interrupt
// and the control loop.
type Channel struct {
	// Notify is invoked from the interrupt side after a byte is queued.
	// It must not block. A Receiver running in a loop sets it to wake
	// the loop when unset.
	Notify func()

	ring      *Ring
	masked    atomic.Bool
	dropped   atomic.Uint32
	lastSpeed atomic.Int32
}

// NewChannel creates a Channel with a ring of capacity bytes.
func NewChannel(capacity int) *Channel {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Channel{ring: NewRing(capacity)}
}

// Interrupt is the byte-received handler. It only queues the byte.
func (c *Channel) Interrupt(b byte) {
	if c.masked.Load() || !c.ring.Put(b) {
		c.dropped.Inc()
		return
	}
	if fn := c.Notify; fn != nil {
		fn()
	}
}

// Poll dequeues and decodes the oldest byte.
func (c *Channel) Poll() (Command, bool) {
	b, ok := c.ring.Get()
	if !ok {
		return Command{}, false
	}
	cmd := Decode(b)
	if cmd.Kind == SetSpeed {
		c.lastSpeed.Store(int32(cmd.Speed))
	}
	if glog.V(4) {
		glog.Infof("command %v", cmd)
	}
	return cmd, true
}

// LastSpeed is the most recently decoded speed request, 0 if none.
func (c *Channel) LastSpeed() int {
	return int(c.lastSpeed.Load())
}

// Pending returns the number of queued bytes.
func (c *Channel) Pending() int {
	return c.ring.Len()
}

// Dropped counts bytes lost to overflow or masking.
func (c *Channel) Dropped() uint32 {
	return c.dropped.Load()
}

// Disable masks the receive interrupt; bytes arriving meanwhile are lost.
func (c *Channel) Disable() {
	c.masked.Store(true)
}

// Enable unmasks the receive interrupt.
func (c *Channel) Enable() {
	c.masked.Store(false)
}
